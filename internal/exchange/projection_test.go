package exchange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(nil))
}

func TestProject_TypingOnLastPendingRow(t *testing.T) {
	l := NewLog(SingleFlight)
	first, err := l.Submit("first")
	require.NoError(t, err)
	_, _, err = l.Resolve(first.ID, Outcome{Answer: "one"})
	require.NoError(t, err)
	_, err = l.Submit("second")
	require.NoError(t, err)

	rows := Project(l.Exchanges())
	require.Len(t, rows, 2)

	assert.Equal(t, Row{Ordinal: 0, Utterance: "first", Answer: "one", HasAnswer: true}, rows[0])
	assert.Equal(t, Row{Ordinal: 1, Utterance: "second", Typing: true}, rows[1])
}

func TestProject_FailedRow(t *testing.T) {
	l := NewLog(SingleFlight)
	ex, err := l.Submit("ping")
	require.NoError(t, err)
	_, _, err = l.Resolve(ex.ID, Outcome{Err: errors.New("boom")})
	require.NoError(t, err)

	rows := Project(l.Exchanges())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Failed)
	assert.True(t, rows[0].HasAnswer)
	assert.False(t, rows[0].Typing)
	assert.Equal(t, TransportFailureAnswer, rows[0].Answer)
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	l := NewLog(SingleFlight)
	_, err := l.Submit("hello")
	require.NoError(t, err)

	in := l.Exchanges()
	before := append([]Exchange(nil), in...)
	_ = Project(in)
	assert.Equal(t, before, in)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNone, Classify(nil))
	assert.Equal(t, KindEmptyInput, Classify(ErrEmptyInput))
	assert.Equal(t, KindBusy, Classify(ErrBusy))
	assert.Equal(t, KindHTTPNonSuccess, Classify(httpFailure(404)))
	assert.Equal(t, KindTransportFailure, Classify(errors.New("eof")))
}
