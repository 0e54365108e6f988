package commit

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// Class partitions submission errors by whether retrying can help.
type Class uint8

const (
	ClassFatal     Class = iota // ClassFatal: the same submission would fail again
	ClassRetryable              // ClassRetryable: transport or availability problem
)

// String returns the class name.
func (c Class) String() string {
	if c == ClassRetryable {
		return "retryable"
	}

	return "fatal"
}

// ErrUnavailable marks the ledger as temporarily unable to accept updates.
var ErrUnavailable = errors.New("ledger temporarily unavailable")

// retryableError marks an error as safe to retry.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// fatalError marks an error as non-recoverable.
type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Retryable wraps err so Classify reports ClassRetryable.
func Retryable(err error) error {
	if err == nil {
		return nil
	}

	return &retryableError{err: err}
}

// Fatal wraps err so Classify reports ClassFatal regardless of its cause.
func Fatal(err error) error {
	if err == nil {
		return nil
	}

	return &fatalError{err: err}
}

// Classify decides whether err consumes retry budget or ends the run.
// Explicit markers win; otherwise network-class errors are retryable and
// everything unrecognized is fatal.
func Classify(err error) Class {
	if err == nil {
		return ClassFatal
	}

	var fe *fatalError
	if errors.As(err, &fe) {
		return ClassFatal
	}

	var re *retryableError
	if errors.As(err, &re) {
		return ClassRetryable
	}

	if isNetworkError(err) {
		return ClassRetryable
	}

	return ClassFatal
}

// isNetworkError recognizes transport failures from the standard library.
func isNetworkError(err error) bool {
	switch {
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH):
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
