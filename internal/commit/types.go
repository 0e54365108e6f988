package commit

import (
	"context"
	"fmt"
	"time"

	"Weighbridge/internal/weights"
)

// Ledger is the submission primitive of the external ledger client.
// A true result is confirmed inclusion. A returned error means the call did
// not confirm and, by contract, did not mutate ledger state.
type Ledger interface {
	SetWeights(ctx context.Context, signer Signer, netuid uint16, v weights.Vector, opts WaitOptions) (bool, error)
}

// Signer is the validator identity that authorizes a submission.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() []byte
}

// WaitOptions controls how long the ledger call blocks before confirming.
type WaitOptions struct {
	WaitForInclusion    bool // WaitForInclusion waits until the update is in a block
	WaitForFinalization bool // WaitForFinalization waits until that block is final
}

// Journal persists the audit trail of a commit run.
type Journal interface {
	RecordIntent(intent Intent) error
	RecordOutcome(runID string, outcome Outcome) error
}

// Intent is the audit record written before each submission attempt.
type Intent struct {
	RunID       string         // RunID identifies the commit run
	Attempt     int            // Attempt is 1-based
	NetUID      uint16         // NetUID is the target network
	Fingerprint [32]byte       // Fingerprint is the blake3 digest of Vector
	Vector      weights.Vector // Vector is the submitted vector
	Time        time.Time      // Time is when the attempt started
}

// Status is the terminal state of a commit run.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusFailed
)

// Failure classifies a failed run.
type Failure uint8

const (
	FailureNone            Failure = iota // FailureNone accompanies StatusSuccess
	FailureNothingToCommit                // FailureNothingToCommit: empty vector, ledger not contacted
	FailureInvalid                        // FailureInvalid: vector or budget broke local rules, ledger not contacted
	FailureRejected                       // FailureRejected: ledger rejected every attempt
	FailureNetwork                        // FailureNetwork: retryable errors exhausted the budget
	FailureFatal                          // FailureFatal: non-recoverable error, no further attempts
	FailureCanceled                       // FailureCanceled: caller context ended between attempts
)

// String returns the reason string of the failure.
func (f Failure) String() string {
	switch f {
	case FailureNone:
		return ""
	case FailureNothingToCommit:
		return "nothing to commit"
	case FailureInvalid:
		return "invalid"
	case FailureRejected:
		return "rejected"
	case FailureNetwork:
		return "network"
	case FailureFatal:
		return "fatal"
	case FailureCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("failure(%d)", uint8(f))
	}
}

// Outcome is the definite result of one Commit call.
type Outcome struct {
	Status   Status  // Status is success or failed
	Failure  Failure // Failure is FailureNone on success
	Attempts int     // Attempts is the number of ledger calls made
	Err      error   // Err is the last error seen, if any
}

// Succeeded reports whether the ledger confirmed the update.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// Exhausted reports whether the run gave up after spending its attempt budget.
// The caller may try again later.
func (o Outcome) Exhausted() bool {
	return o.Failure == FailureRejected || o.Failure == FailureNetwork
}

// IsFatal reports whether retrying the same submission cannot help.
func (o Outcome) IsFatal() bool {
	return o.Failure == FailureFatal || o.Failure == FailureInvalid
}

// Reason returns the failure reason, empty on success.
func (o Outcome) Reason() string {
	return o.Failure.String()
}

// String renders the outcome for logs.
func (o Outcome) String() string {
	if o.Succeeded() {
		return fmt.Sprintf("success after %d attempt(s)", o.Attempts)
	}

	if o.Err != nil {
		return fmt.Sprintf("failed (%s) after %d attempt(s): %v", o.Reason(), o.Attempts, o.Err)
	}

	return fmt.Sprintf("failed (%s) after %d attempt(s)", o.Reason(), o.Attempts)
}

// succeeded builds a success outcome.
func succeeded(attempts int) Outcome {
	return Outcome{Status: StatusSuccess, Attempts: attempts}
}

// failed builds a failed outcome.
func failed(f Failure, attempts int, err error) Outcome {
	return Outcome{Status: StatusFailed, Failure: f, Attempts: attempts, Err: err}
}
