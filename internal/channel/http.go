package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khedut-saathi/khedut/internal/session"
)

const messagesPath = "messages"

// maxAnswerBytes bounds how much of a response body is read.
const maxAnswerBytes = 1 << 20

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Session    session.Context
	Logger     *zap.Logger
}

// HTTPChannel posts utterances to {BaseURL}/messages.
type HTTPChannel struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	session  session.Context
	logger   *zap.Logger
}

func NewHTTPChannel(opts Options) (*HTTPChannel, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("backend URL is not configured")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", opts.BaseURL)
	}
	endpoint, err := url.JoinPath(opts.BaseURL, messagesPath)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPChannel{
		endpoint: endpoint,
		timeout:  opts.Timeout,
		client:   client,
		session:  opts.Session,
		logger:   logger,
	}, nil
}

// Endpoint returns the full URL requests are posted to.
func (c *HTTPChannel) Endpoint() string {
	return c.endpoint
}

// Send posts the utterance and waits at most the configured timeout.
func (c *HTTPChannel) Send(ctx context.Context, utterance string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(MessageRequest{Message: utterance})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.session.Bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := c.logger.With(zap.String("request_id", requestID))
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("message request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused; the body is not interpreted.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxAnswerBytes))
		logger.Warn("backend returned non-success status",
			zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
		return "", &StatusError{Code: resp.StatusCode}
	}

	var out MessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxAnswerBytes)).Decode(&out); err != nil {
		logger.Warn("undecodable answer body", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Answer == nil {
		logger.Warn("answer field missing from response")
		return "", fmt.Errorf("%w: missing answer", ErrMalformedResponse)
	}

	logger.Debug("answer received", zap.Duration("elapsed", time.Since(start)), zap.Int("length", len(*out.Answer)))
	return *out.Answer, nil
}
