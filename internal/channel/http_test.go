package channel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khedut-saathi/khedut/internal/exchange"
	"github.com/khedut-saathi/khedut/internal/session"
)

func newChannel(t *testing.T, srv *httptest.Server, opts Options) *HTTPChannel {
	t.Helper()
	opts.BaseURL = srv.URL
	ch, err := NewHTTPChannel(opts)
	require.NoError(t, err)
	return ch
}

func TestSend_Success(t *testing.T) {
	var got MessageRequest
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"hi there"}`))
	}))
	defer srv.Close()

	ch := newChannel(t, srv, Options{Timeout: time.Second})
	answer, err := ch.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", answer)
	assert.Equal(t, "hello", got.Message)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.NotEmpty(t, headers.Get("X-Request-ID"))
	assert.Empty(t, headers.Get("Authorization"))
}

func TestSend_BearerFromSession(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	ch := newChannel(t, srv, Options{Session: session.Context{Authenticated: true, Token: "tok"}})
	_, err := ch.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
}

func TestSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"answer":"ignored"}`))
	}))
	defer srv.Close()

	ch := newChannel(t, srv, Options{})
	_, err := ch.Send(context.Background(), "price?")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.ErrorIs(t, err, exchange.ErrHTTPNonSuccess)
	assert.Equal(t, exchange.KindHTTPNonSuccess, exchange.Classify(err))
}

func TestSend_MalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":       `<html>oops</html>`,
		"missing answer": `{"reply":"hi"}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			ch := newChannel(t, srv, Options{})
			_, err := ch.Send(context.Background(), "hello")
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Equal(t, exchange.KindTransportFailure, exchange.Classify(err))
		})
	}
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ch := newChannel(t, srv, Options{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := ch.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, exchange.KindTransportFailure, exchange.Classify(err))
}

func TestSend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ch, err := NewHTTPChannel(Options{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	_, err = ch.Send(context.Background(), "ping")
	require.Error(t, err)
	assert.Equal(t, exchange.KindTransportFailure, exchange.Classify(err))
}

func TestNewHTTPChannel_Validation(t *testing.T) {
	_, err := NewHTTPChannel(Options{})
	assert.Error(t, err)

	_, err = NewHTTPChannel(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	ch, err := NewHTTPChannel(Options{BaseURL: "https://api.example.com/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/messages", ch.Endpoint())
}

func TestFunc(t *testing.T) {
	var ch Channel = Func(func(ctx context.Context, utterance string) (string, error) {
		return "echo: " + utterance, nil
	})
	answer, err := ch.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", answer)
}
