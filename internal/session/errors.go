package session

import (
	"errors"
	"fmt"
)

var (
	// ErrExportFailed is returned when the export sink could not persist a snapshot.
	ErrExportFailed = errors.New("export failed")
	// ErrClearFailed is returned when the clear confirmation could not be obtained.
	ErrClearFailed = errors.New("clear failed")
)

// TransportFailureText is shown in place of any transport-level error.
const TransportFailureText = "Could not reach the server. Please check your connection and try again."

// DomainFailureText is shown when the server refuses a generation without saying why.
const DomainFailureText = "The model could not generate a response."

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
