package exchange

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a submission while another is pending.
type Policy int

const (
	// SingleFlight refuses a new submission until the pending one settles.
	SingleFlight Policy = iota
	// Queue defers new submissions and admits them one at a time, in order,
	// as each pending exchange settles.
	Queue
	// Concurrent admits every submission immediately. Each exchange is
	// settled by ID, so answers land on their own utterance whatever order
	// the responses arrive in.
	Concurrent
)

func (p Policy) String() string {
	switch p {
	case SingleFlight:
		return "single-flight"
	case Queue:
		return "queue"
	case Concurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// ParsePolicy accepts the names produced by Policy.String. An empty string
// selects SingleFlight.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single-flight", "singleflight":
		return SingleFlight, nil
	case "queue":
		return Queue, nil
	case "concurrent":
		return Concurrent, nil
	default:
		return SingleFlight, fmt.Errorf("unknown submission policy %q", s)
	}
}
