// Package exchange holds the conversation state machine: an append-only log
// of question/answer exchanges, the submit/resolve transitions that move an
// exchange from pending to answered or failed, and the render projection.
//
// A Log is not safe for concurrent use. It is owned by exactly one goroutine
// (the core event loop) and every transition happens there.
package exchange

import "time"

// Status is the lifecycle tag of a single exchange.
type Status int

const (
	StatusPending Status = iota
	StatusAnswered
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAnswered:
		return "answered"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Exchange pairs one utterance with its eventual answer.
type Exchange struct {
	ID          string
	Ordinal     int
	Utterance   string
	Answer      string
	Status      Status
	Err         error // set only when Status is StatusFailed
	SubmittedAt time.Time
	SettledAt   time.Time
}

// Settled reports whether the exchange has an answer (real or synthesized).
func (e Exchange) Settled() bool {
	return e.Status != StatusPending
}

// Outcome is what the answer channel produced for one exchange.
type Outcome struct {
	Answer string
	Err    error
}
