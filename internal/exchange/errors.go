package exchange

import "errors"

// Answers recorded in place of a backend answer when an exchange fails.
const (
	FailedResponseAnswer   = "Error: Failed to get a response."
	TransportFailureAnswer = "Error: An error occurred while sending the message."
)

var (
	// ErrEmptyInput rejects blank or whitespace-only submissions.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy rejects a submission while another exchange is pending.
	ErrBusy = errors.New("an answer is still pending")
	// ErrQueued reports that a submission was deferred until the pending
	// exchange settles. It is not a failure.
	ErrQueued = errors.New("queued behind the pending exchange")

	ErrUnknownExchange = errors.New("unknown exchange")
	ErrAlreadySettled  = errors.New("exchange already settled")

	// ErrHTTPNonSuccess is the class of errors for a reachable backend
	// answering with anything but 200. Channel errors match it via errors.Is.
	ErrHTTPNonSuccess = errors.New("backend returned a non-success status")
)

// Kind is the error taxonomy the UI and the log reason about.
type Kind int

const (
	KindNone Kind = iota
	KindEmptyInput
	KindBusy
	KindHTTPNonSuccess
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEmptyInput:
		return "empty_input"
	case KindBusy:
		return "busy"
	case KindHTTPNonSuccess:
		return "http_non_success"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Classify maps an error onto the taxonomy. Anything that is not a known
// submission rejection or an HTTP status failure counts as a transport
// failure, including timeouts, cancellation and malformed bodies.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrHTTPNonSuccess):
		return KindHTTPNonSuccess
	default:
		return KindTransportFailure
	}
}

// failureAnswer returns the synthesized answer text for a failed outcome.
func failureAnswer(err error) string {
	if Classify(err) == KindHTTPNonSuccess {
		return FailedResponseAnswer
	}
	return TransportFailureAnswer
}
