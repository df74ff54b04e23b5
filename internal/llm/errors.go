package llm

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures where no usable answer came back from the server:
// connection errors, timeouts and undecodable bodies.
var ErrTransport = errors.New("transport failure")

// TransportError wraps the low-level cause of a transport failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) true for any TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func transportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}
