package oerror

import (
	"errors"
	"fmt"
)

type CoasterError struct {
	Err   string
	cause error
}

// New formats an error. A %w verb in the format is kept as the cause of the error.
func New(format string, args ...any) *CoasterError {
	err := fmt.Errorf(format, args...)
	return &CoasterError{Err: err.Error(), cause: errors.Unwrap(err)}
}

func (e *CoasterError) Error() string {
	return e.Err
}

func (e *CoasterError) Unwrap() error {
	return e.cause
}
