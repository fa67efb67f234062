package service

import "fmt"

// RejectionError carries the human-readable reason a schedule request
// was refused by validation. It is a result, not a failure: the caller
// is expected to correct the request and retry, and no side effects have
// occurred when one is returned.
type RejectionError struct {
	Reason string
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	return e.Reason
}

// reject builds a RejectionError from a format string.
func reject(format string, args ...any) *RejectionError {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}
