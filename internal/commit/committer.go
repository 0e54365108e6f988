package commit

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"Weighbridge/internal/logger"
	"Weighbridge/internal/weights"
)

const (
	// DefaultMaxAttempts is the attempt budget used when the caller has no opinion.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is roughly one block-production interval of the ledger.
	DefaultRetryDelay = 60 * time.Second
)

var (
	// ErrRejected is recorded when the ledger answered without confirming inclusion.
	ErrRejected = errors.New("ledger rejected weight update")

	// ErrInvalidBudget is recorded when the attempt budget is below one.
	ErrInvalidBudget = errors.New("attempt budget must be at least 1")
)

// Config holds the collaborators and timing of a Committer.
type Config struct {
	Ledger         Ledger        // Ledger is the submission primitive (required)
	Signer         Signer        // Signer authorizes submissions (required)
	NetUID         uint16        // NetUID is the target network
	Wait           WaitOptions   // Wait is forwarded to every ledger call
	RetryDelay     time.Duration // RetryDelay is the fixed wait between attempts (0 = DefaultRetryDelay)
	AttemptTimeout time.Duration // AttemptTimeout bounds one ledger call (0 = unbounded)
	Clock          Clock         // Clock implements the wait (nil = RealClock)
	Journal        Journal       // Journal receives the audit trail (optional)
}

// Committer drives the bounded-attempt submission of weight vectors for one
// signer and network. It holds no weight data between calls.
type Committer struct {
	ledger         Ledger
	signer         Signer
	netuid         uint16
	wait           WaitOptions
	delay          time.Duration
	attemptTimeout time.Duration
	clock          Clock
	journal        Journal

	mu sync.Mutex // mu keeps one run in flight per signer
}

// New validates cfg and creates a Committer.
func New(cfg Config) (*Committer, error) {
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}

	if cfg.Signer == nil {
		return nil, fmt.Errorf("signer is required")
	}

	if cfg.RetryDelay < 0 || cfg.AttemptTimeout < 0 {
		return nil, fmt.Errorf("durations must not be negative")
	}

	delay := cfg.RetryDelay
	if delay == 0 {
		delay = DefaultRetryDelay
	}

	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}

	return &Committer{
		ledger:         cfg.Ledger,
		signer:         cfg.Signer,
		netuid:         cfg.NetUID,
		wait:           cfg.Wait,
		delay:          delay,
		attemptTimeout: cfg.AttemptTimeout,
		clock:          clock,
		journal:        cfg.Journal,
	}, nil
}

// RetryDelay returns the fixed wait between attempts.
func (c *Committer) RetryDelay() time.Duration {
	return c.delay
}

// Commit submits v to the ledger with at most maxAttempts calls.
// The returned Outcome is always definite; see Outcome for how to interpret it.
//
// Flow:
//  1. Empty or locally invalid input returns without contacting the ledger
//  2. Each attempt audits the vector, then calls the ledger
//  3. Confirmation ends the run; rejection and retryable errors wait RetryDelay
//     and retry while budget remains; fatal errors end the run at once
//
// ctx cancellation is observed between attempts and during the wait, never
// during a ledger call whose outcome would otherwise be unknown.
func (c *Committer) Commit(ctx context.Context, v weights.Vector, maxAttempts int) Outcome {
	if v.Empty() {
		logger.Warn("no weights to commit", "netuid", c.netuid)
		return failed(FailureNothingToCommit, 0, nil)
	}

	if maxAttempts < 1 {
		return failed(FailureInvalid, 0, fmt.Errorf("%w: got %d", ErrInvalidBudget, maxAttempts))
	}

	if err := v.Validate(); err != nil {
		logger.Error("refusing to commit invalid vector", "netuid", c.netuid, "error", err)
		return failed(FailureInvalid, 0, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	r := &run{
		id:          uuid.NewString(),
		vector:      v,
		fingerprint: weights.Fingerprint(v),
		maxAttempts: maxAttempts,
	}
	r.log = logger.With("run", r.id, "netuid", c.netuid)

	start := time.Now()
	r.log.Info("committing weights",
		"participants", v.Len(),
		"maxAttempts", maxAttempts,
		"fingerprint", hex.EncodeToString(r.fingerprint[:8]),
	)

	outcome := c.attempt(ctx, r)

	if c.journal != nil {
		if err := c.journal.RecordOutcome(r.id, outcome); err != nil {
			r.log.Warn("journal outcome failed", "error", err)
		}
	}

	if outcome.Succeeded() {
		r.log.Info("weights set successfully (chain confirmed)", "attempts", outcome.Attempts, logger.Timed(start))
	} else {
		r.log.Error("weight commit failed", "reason", outcome.Reason(), "attempts", outcome.Attempts, "error", outcome.Err, logger.Timed(start))
	}

	return outcome
}

// run is the per-call state of one Commit.
type run struct {
	id          string
	vector      weights.Vector
	fingerprint [32]byte
	maxAttempts int
	log         *slog.Logger
}

// attempt runs the state machine until a terminal outcome.
func (c *Committer) attempt(ctx context.Context, r *run) Outcome {
	var (
		lastErr error
		failure Failure
	)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return failed(FailureCanceled, n-1, errors.Join(err, lastErr))
		}

		c.audit(r, n)

		ok, err := c.submit(ctx, r.vector)

		switch {
		case err == nil && ok:
			return succeeded(n)

		case err == nil:
			r.log.Error("chain rejected weight setting", "attempt", n)
			lastErr, failure = ErrRejected, FailureRejected

		case Classify(err) == ClassRetryable:
			r.log.Error("network error setting weights", "attempt", n, "error", err)
			lastErr, failure = err, FailureNetwork

		default:
			r.log.Error("fatal error setting weights", "attempt", n, "error", err)
			return failed(FailureFatal, n, err)
		}

		if n >= r.maxAttempts {
			r.log.Error("all attempts failed", "attempts", n)
			return failed(failure, n, lastErr)
		}

		r.log.Info("retrying weight setting", "delay", c.delay)

		if err := c.clock.Sleep(ctx, c.delay); err != nil {
			return failed(FailureCanceled, n, errors.Join(err, lastErr))
		}
	}
}

// audit records the vector about to be submitted, before the ledger call.
func (c *Committer) audit(r *run, n int) {
	r.log.Info(fmt.Sprintf("Attempt %d/%d", n, r.maxAttempts))
	r.log.Info("Weights to be set:")

	for i, id := range r.vector.IDs {
		r.log.Info(fmt.Sprintf("UID %d: %.6f", id, r.vector.Shares[i]))
	}

	if c.journal == nil {
		return
	}

	intent := Intent{
		RunID:       r.id,
		Attempt:     n,
		NetUID:      c.netuid,
		Fingerprint: r.fingerprint,
		Vector:      r.vector,
		Time:        time.Now(),
	}

	if err := c.journal.RecordIntent(intent); err != nil {
		r.log.Warn("journal intent failed", "attempt", n, "error", err)
	}
}

// submit performs one ledger call detached from caller cancellation.
func (c *Committer) submit(ctx context.Context, v weights.Vector) (bool, error) {
	callCtx := context.WithoutCancel(ctx)

	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, c.attemptTimeout)
		defer cancel()
	}

	return c.ledger.SetWeights(callCtx, c.signer, c.netuid, v, c.wait)
}
