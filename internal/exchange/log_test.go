package exchange

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpFailure(code int) error {
	return fmt.Errorf("status %d: %w", code, ErrHTTPNonSuccess)
}

// assertAligned checks the two projections never drift apart.
func assertAligned(t *testing.T, l *Log) {
	t.Helper()
	utterances := l.Utterances()
	answers := l.Answers()
	require.LessOrEqual(t, len(answers), len(utterances))
	exchanges := l.Exchanges()
	for i, a := range answers {
		assert.Equal(t, exchanges[i].Answer, a)
		assert.Equal(t, exchanges[i].Utterance, utterances[i])
	}
}

func TestSubmit_SuccessScenario(t *testing.T) {
	l := NewLog(SingleFlight)

	ex, err := l.Submit("hello")
	require.NoError(t, err)
	assert.True(t, l.Pending())
	assert.Equal(t, []string{"hello"}, l.Utterances())
	assert.Empty(t, l.Answers())

	settled, next, err := l.Resolve(ex.ID, Outcome{Answer: "hi there"})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, StatusAnswered, settled.Status)
	assert.False(t, l.Pending())
	assert.Equal(t, []string{"hello"}, l.Utterances())
	assert.Equal(t, []string{"hi there"}, l.Answers())
}

func TestResolve_HTTPNonSuccess(t *testing.T) {
	l := NewLog(SingleFlight)
	ex, err := l.Submit("price?")
	require.NoError(t, err)

	settled, _, err := l.Resolve(ex.ID, Outcome{Err: httpFailure(500)})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, settled.Status)
	assert.Equal(t, []string{FailedResponseAnswer}, l.Answers())
	assert.Equal(t, KindHTTPNonSuccess, Classify(settled.Err))
	assert.False(t, l.Pending())
}

func TestResolve_TransportFailure(t *testing.T) {
	for name, cause := range map[string]error{
		"network":   errors.New("dial tcp: connection refused"),
		"timeout":   context.DeadlineExceeded,
		"cancelled": context.Canceled,
	} {
		t.Run(name, func(t *testing.T) {
			l := NewLog(SingleFlight)
			ex, err := l.Submit("ping")
			require.NoError(t, err)

			settled, _, err := l.Resolve(ex.ID, Outcome{Err: cause})
			require.NoError(t, err)
			assert.Equal(t, []string{TransportFailureAnswer}, l.Answers())
			assert.Equal(t, KindTransportFailure, Classify(settled.Err))
			assert.False(t, l.Pending())
		})
	}
}

func TestSubmit_EmptyInputNeverMutates(t *testing.T) {
	l := NewLog(SingleFlight)
	for _, text := range []string{"", "   ", "\t\n", " \r\n "} {
		_, err := l.Submit(text)
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Equal(t, 0, l.Len())
		assert.Empty(t, l.Answers())
		assert.False(t, l.Pending())
	}

	// Rejection while something is pending is also a no-op.
	ex, err := l.Submit("first")
	require.NoError(t, err)
	_, err = l.Submit("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, ex.ID, l.Exchanges()[0].ID)
}

func TestSubmit_TrimsUtterance(t *testing.T) {
	l := NewLog(SingleFlight)
	ex, err := l.Submit("  wheat price today?  ")
	require.NoError(t, err)
	assert.Equal(t, "wheat price today?", ex.Utterance)
	assert.Equal(t, 0, ex.Ordinal)
	assert.NotEmpty(t, ex.ID)
}

func TestSingleFlight_RejectsWhilePending(t *testing.T) {
	l := NewLog(SingleFlight)
	first, err := l.Submit("first")
	require.NoError(t, err)

	_, err = l.Submit("second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, []string{"first"}, l.Utterances())

	_, _, err = l.Resolve(first.ID, Outcome{Answer: "one"})
	require.NoError(t, err)

	_, err = l.Submit("second")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, l.Utterances())
	assert.Equal(t, []string{"one"}, l.Answers())
	assertAligned(t, l)
}

func TestQueue_AdmitsAfterPreviousAnswer(t *testing.T) {
	l := NewLog(Queue)
	first, err := l.Submit("first")
	require.NoError(t, err)

	_, err = l.Submit("second")
	assert.ErrorIs(t, err, ErrQueued)
	assert.Equal(t, []string{"first"}, l.Utterances())
	assert.Equal(t, []string{"second"}, l.Queued())

	_, next, err := l.Resolve(first.ID, Outcome{Answer: "one"})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "second", next.Utterance)
	assert.Equal(t, 1, next.Ordinal)
	assert.Equal(t, []string{"first", "second"}, l.Utterances())
	assert.Equal(t, []string{"one"}, l.Answers())
	assert.Empty(t, l.Queued())
	assert.True(t, l.Pending())

	_, next, err = l.Resolve(next.ID, Outcome{Err: httpFailure(503)})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"one", FailedResponseAnswer}, l.Answers())
	assertAligned(t, l)
}

func TestConcurrent_OutOfOrderResponsesStayAligned(t *testing.T) {
	l := NewLog(Concurrent)
	a, err := l.Submit("a")
	require.NoError(t, err)
	b, err := l.Submit("b")
	require.NoError(t, err)
	c, err := l.Submit("c")
	require.NoError(t, err)

	_, _, err = l.Resolve(c.ID, Outcome{Answer: "answer c"})
	require.NoError(t, err)
	assert.Empty(t, l.Answers(), "settled suffix must not shift into earlier slots")
	assertAligned(t, l)

	_, _, err = l.Resolve(a.ID, Outcome{Answer: "answer a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"answer a"}, l.Answers())
	assert.True(t, l.Pending())

	_, _, err = l.Resolve(b.ID, Outcome{Err: errors.New("reset by peer")})
	require.NoError(t, err)
	assert.Equal(t, []string{"answer a", TransportFailureAnswer, "answer c"}, l.Answers())
	assert.False(t, l.Pending())
	assertAligned(t, l)
}

func TestResolve_ExactlyOnce(t *testing.T) {
	l := NewLog(SingleFlight)
	ex, err := l.Submit("hello")
	require.NoError(t, err)

	_, _, err = l.Resolve(ex.ID, Outcome{Answer: "hi"})
	require.NoError(t, err)

	_, _, err = l.Resolve(ex.ID, Outcome{Answer: "again"})
	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Equal(t, []string{"hi"}, l.Answers())

	_, _, err = l.Resolve("nope", Outcome{Answer: "x"})
	assert.ErrorIs(t, err, ErrUnknownExchange)
}

func TestExchanges_ReturnsCopy(t *testing.T) {
	l := NewLog(SingleFlight)
	_, err := l.Submit("hello")
	require.NoError(t, err)

	snapshot := l.Exchanges()
	snapshot[0].Utterance = "mutated"

	assert.Equal(t, "hello", l.Exchanges()[0].Utterance)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{
		"":              SingleFlight,
		"single-flight": SingleFlight,
		"Queue":         Queue,
		" concurrent ":  Concurrent,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePolicy("parallel")
	assert.Error(t, err)
}
