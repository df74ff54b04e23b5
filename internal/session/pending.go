package session

import (
	"context"

	"chemchat/internal/transcript"
)

// State is the controller's position in the submit cycle.
type State int

const (
	Idle State = iota
	Awaiting
)

func (s State) String() string {
	if s == Awaiting {
		return "awaiting"
	}
	return "idle"
}

// Outcome classifies how a generation settled.
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeDomainError
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDomainError:
		return "domain_error"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is what a settled generation left behind.
type Result struct {
	Outcome Outcome
	// Message is the assistant or error message that was appended.
	Message transcript.Message
	// Exchange is set only on success.
	Exchange *transcript.Exchange
	// Err carries the transport cause. It is never shown to the user.
	Err error
}

// Pending is a handle on an accepted submission. It settles exactly once.
type Pending struct {
	done   chan struct{}
	result Result
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Done is closed once the controller is back in Idle.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the generation settles or ctx ends.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the settled result. ok is false while still pending.
func (p *Pending) Result() (r Result, ok bool) {
	select {
	case <-p.done:
		return p.result, true
	default:
		return Result{}, false
	}
}
