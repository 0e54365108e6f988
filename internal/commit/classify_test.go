package commit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

// timeoutErr is a net.Error reporting a timeout.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassFatal},
		{"plain", errors.New("boom"), ClassFatal},
		{"marked retryable", Retryable(errors.New("busy")), ClassRetryable},
		{"marked fatal", Fatal(errors.New("bad signature")), ClassFatal},
		{"fatal wins over cause", Fatal(io.EOF), ClassFatal},
		{"wrapped retryable", fmt.Errorf("submit:\n%w", Retryable(errors.New("x"))), ClassRetryable},
		{"unavailable", fmt.Errorf("gateway: %w", ErrUnavailable), ClassRetryable},
		{"deadline", context.DeadlineExceeded, ClassRetryable},
		{"canceled", context.Canceled, ClassFatal},
		{"eof", io.EOF, ClassRetryable},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), ClassRetryable},
		{"refused", syscall.ECONNREFUSED, ClassRetryable},
		{"reset", fmt.Errorf("write: %w", syscall.ECONNRESET), ClassRetryable},
		{"op error", &net.OpError{Op: "dial", Net: "udp", Err: errors.New("no route")}, ClassRetryable},
		{"timeout", timeoutErr{}, ClassRetryable},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("%s: Classify = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMarkersPreserveCause(t *testing.T) {
	cause := errors.New("cause")

	if !errors.Is(Retryable(cause), cause) {
		t.Error("Retryable hides its cause")
	}

	if !errors.Is(Fatal(cause), cause) {
		t.Error("Fatal hides its cause")
	}

	if Retryable(nil) != nil || Fatal(nil) != nil {
		t.Error("markers must keep nil as nil")
	}
}

func TestFailureStrings(t *testing.T) {
	want := map[Failure]string{
		FailureNone:            "",
		FailureNothingToCommit: "nothing to commit",
		FailureInvalid:         "invalid",
		FailureRejected:        "rejected",
		FailureNetwork:         "network",
		FailureFatal:           "fatal",
		FailureCanceled:        "canceled",
	}

	for f, s := range want {
		if f.String() != s {
			t.Errorf("Failure(%d) = %q, want %q", f, f.String(), s)
		}
	}
}
