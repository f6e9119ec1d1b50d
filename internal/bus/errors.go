package bus

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a bus is used before New.
	ErrNotInitialized = errors.New("xdialog: bus not initialized")
	// ErrSendFailed is returned once the UI loop has stopped consuming commands.
	ErrSendFailed = errors.New("xdialog: command channel closed")
	// ErrNoResult is returned when a reply slot is abandoned without an answer,
	// which only happens if the dispatcher crashed mid-command or shut down
	// with the command still queued.
	ErrNoResult = errors.New("xdialog: reply dropped without a result")
)

// BackendError carries a failure reported by a dialog or webview manager.
type BackendError struct {
	Reason string
}

func (e *BackendError) Error() string {
	return "xdialog backend: " + e.Reason
}

// Backendf builds a BackendError from a format string.
func Backendf(format string, args ...interface{}) *BackendError {
	return &BackendError{Reason: fmt.Sprintf(format, args...)}
}

// AsBackendError maps an arbitrary manager error onto *BackendError. Errors
// that already are (or wrap) a BackendError pass through untouched.
func AsBackendError(err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Reason: err.Error()}
}
