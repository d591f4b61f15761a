package exchange

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Log is the ordered, append-only record of a conversation.
type Log struct {
	policy    Policy
	exchanges []Exchange
	index     map[string]int
	queue     []string
	pending   int

	now   func() time.Time
	newID func() string
}

// NewLog creates an empty log governed by the given admission policy.
func NewLog(policy Policy) *Log {
	return &Log{
		policy: policy,
		index:  make(map[string]int),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Policy returns the admission policy of the log.
func (l *Log) Policy() Policy {
	return l.policy
}

// Submit trims text and, if admitted, appends a pending exchange for it.
// Rejected submissions (ErrEmptyInput, ErrBusy) leave the log untouched.
// Under Queue a submission made while another is pending returns ErrQueued;
// it is appended later by Resolve.
func (l *Log) Submit(text string) (Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Exchange{}, ErrEmptyInput
	}

	if l.pending > 0 {
		switch l.policy {
		case SingleFlight:
			return Exchange{}, ErrBusy
		case Queue:
			l.queue = append(l.queue, text)
			return Exchange{}, ErrQueued
		}
	}

	return l.admit(text), nil
}

func (l *Log) admit(text string) Exchange {
	ex := Exchange{
		ID:          l.newID(),
		Ordinal:     len(l.exchanges),
		Utterance:   text,
		Status:      StatusPending,
		SubmittedAt: l.now(),
	}
	l.index[ex.ID] = ex.Ordinal
	l.exchanges = append(l.exchanges, ex)
	l.pending++
	return ex
}

// Resolve settles the pending exchange with the given ID. A nil outcome
// error records the backend answer; any error records the matching
// synthesized failure answer. Exactly one exchange leaves the pending state.
//
// Under Queue, next is the exchange admitted from the queue as a result of
// this settlement, and the caller must dispatch it.
func (l *Log) Resolve(id string, out Outcome) (settled Exchange, next *Exchange, err error) {
	i, ok := l.index[id]
	if !ok {
		return Exchange{}, nil, fmt.Errorf("resolve %s: %w", id, ErrUnknownExchange)
	}
	ex := &l.exchanges[i]
	if ex.Settled() {
		return *ex, nil, fmt.Errorf("resolve %s: %w", id, ErrAlreadySettled)
	}

	if out.Err == nil {
		ex.Status = StatusAnswered
		ex.Answer = out.Answer
	} else {
		ex.Status = StatusFailed
		ex.Answer = failureAnswer(out.Err)
		ex.Err = out.Err
	}
	ex.SettledAt = l.now()
	l.pending--
	settled = *ex

	if l.policy == Queue && l.pending == 0 && len(l.queue) > 0 {
		text := l.queue[0]
		l.queue = l.queue[1:]
		admitted := l.admit(text)
		next = &admitted
	}

	return settled, next, nil
}

// Pending reports whether any exchange is awaiting its answer.
func (l *Log) Pending() bool {
	return l.pending > 0
}

// Len returns the number of exchanges (equivalently, utterances).
func (l *Log) Len() int {
	return len(l.exchanges)
}

// Get returns the exchange with the given ID.
func (l *Log) Get(id string) (Exchange, bool) {
	i, ok := l.index[id]
	if !ok {
		return Exchange{}, false
	}
	return l.exchanges[i], true
}

// Exchanges returns a copy of the log.
func (l *Log) Exchanges() []Exchange {
	out := make([]Exchange, len(l.exchanges))
	copy(out, l.exchanges)
	return out
}

// Queued returns the submissions waiting for admission under Queue.
func (l *Log) Queued() []string {
	out := make([]string, len(l.queue))
	copy(out, l.queue)
	return out
}

// Utterances returns the utterance sequence.
func (l *Log) Utterances() []string {
	out := make([]string, len(l.exchanges))
	for i, ex := range l.exchanges {
		out[i] = ex.Utterance
	}
	return out
}

// Answers returns the answer sequence: the answers of the longest settled
// prefix of the log. It is never longer than Utterances and Answers()[i]
// always belongs to Utterances()[i].
func (l *Log) Answers() []string {
	out := make([]string, 0, len(l.exchanges))
	for _, ex := range l.exchanges {
		if !ex.Settled() {
			break
		}
		out = append(out, ex.Answer)
	}
	return out
}
