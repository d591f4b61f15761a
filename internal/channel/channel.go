// Package channel is the answer channel: it carries one utterance to the
// backend and brings back either an answer or a classified error.
package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/khedut-saathi/khedut/internal/exchange"
)

// Channel sends an utterance and returns the backend's answer. Each call
// returns exactly once; callers must not assume ordering across calls.
type Channel interface {
	Send(ctx context.Context, utterance string) (string, error)
}

// Func adapts a plain function to Channel.
type Func func(ctx context.Context, utterance string) (string, error)

func (f Func) Send(ctx context.Context, utterance string) (string, error) {
	return f(ctx, utterance)
}

// MessageRequest is the body of POST /messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// MessageResponse is the body of a 200 answer from POST /messages.
type MessageResponse struct {
	Answer *string `json:"answer"`
}

// ErrorResponse is what the development backend returns on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrMalformedResponse is returned when a 200 response carries no usable
// answer. It is a transport-class failure.
var ErrMalformedResponse = errors.New("malformed response body")

// StatusError reports a reachable backend answering with a non-200 status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded with status %d", e.Code)
}

// Is makes StatusError match exchange.ErrHTTPNonSuccess.
func (e *StatusError) Is(target error) bool {
	return target == exchange.ErrHTTPNonSuccess
}
