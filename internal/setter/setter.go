// Package setter runs one scoring round end to end: raw scores are processed
// into a weight vector, floored, summarized in the log and committed to the ledger.
package setter

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/config"
	"Weighbridge/internal/journal"
	"Weighbridge/internal/ledger"
	"Weighbridge/internal/logger"
	"Weighbridge/internal/weights"
)

// Options holds the collaborators of a WeightSetter.
type Options struct {
	Config  config.Config  // Config is validated by New
	Ledger  commit.Ledger  // Ledger is the submission primitive (required)
	Signer  commit.Signer  // Signer authorizes submissions (required)
	Journal commit.Journal // Journal receives the audit trail (optional)
	Clock   commit.Clock   // Clock implements retry waits (nil = real time)
}

// WeightSetter processes and commits weight vectors for one validator and network.
type WeightSetter struct {
	cfg       config.Config
	burn      weights.BurnConfig
	processor *weights.Processor
	committer *commit.Committer
	closers   []func() error // closers release resources opened by Connect
}

// New validates the configuration and wires processor and committer.
func New(opts Options) (*WeightSetter, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	burn, err := opts.Config.Burn()
	if err != nil {
		return nil, err
	}

	processor, err := weights.NewProcessor(opts.Config.Weights())
	if err != nil {
		return nil, fmt.Errorf("create processor:\n%w", err)
	}

	committer, err := commit.New(commit.Config{
		Ledger:         opts.Ledger,
		Signer:         opts.Signer,
		NetUID:         opts.Config.NetUID,
		Wait:           opts.Config.Wait(),
		RetryDelay:     opts.Config.RetryDelay,
		AttemptTimeout: opts.Config.AttemptTimeout,
		Clock:          opts.Clock,
		Journal:        opts.Journal,
	})
	if err != nil {
		return nil, fmt.Errorf("create committer:\n%w", err)
	}

	return &WeightSetter{
		cfg:       opts.Config,
		burn:      burn,
		processor: processor,
		committer: committer,
	}, nil
}

// Connect builds a WeightSetter submitting to the gateway at cfg.LedgerAddr,
// with a journal at cfg.JournalPath when one is configured. Close releases both.
// The first call also installs the process logger at cfg.LogLevel.
func Connect(cfg config.Config, identity ed25519.PrivateKey, gatewayKey ed25519.PublicKey, signer commit.Signer) (*WeightSetter, error) {
	logger.Init(cfg.Level())

	if cfg.LedgerAddr == "" {
		return nil, fmt.Errorf("ledger address is required")
	}

	client, err := ledger.NewClient(ledger.ClientConfig{
		Identity:   identity,
		Addr:       cfg.LedgerAddr,
		GatewayKey: gatewayKey,
		VersionKey: cfg.VersionKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create ledger client:\n%w", err)
	}

	closers := []func() error{client.Close}
	opts := Options{Config: cfg, Ledger: client, Signer: signer}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("open journal:\n%w", err)
		}

		opts.Journal = j
		closers = append(closers, j.Close)
	}

	s, err := New(opts)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}

	s.closers = closers

	return s, nil
}

// Process turns raw scores into the floored vector that SetWeights would commit.
func (s *WeightSetter) Process(raw weights.RawWeights) (weights.Vector, error) {
	v, err := s.processor.Process(raw, s.burn)
	if err != nil {
		return weights.Vector{}, fmt.Errorf("process weights:\n%w", err)
	}

	return s.processor.Finalize(v), nil
}

// SetWeights processes raw and commits the result with the configured attempt budget.
// A processing error is returned as an error and nothing is submitted. Every other
// result, including an empty vector, is reported through the Outcome.
func (s *WeightSetter) SetWeights(ctx context.Context, raw weights.RawWeights) (commit.Outcome, error) {
	v, err := s.Process(raw)
	if err != nil {
		logger.Error("failed to process weights", "error", err)
		return commit.Outcome{}, err
	}

	if !v.Empty() {
		s.summarize(v)
	}

	return s.committer.Commit(ctx, v, s.cfg.MaxAttempts), nil
}

// SetWeightsJSON decodes a JSON score document and calls SetWeights.
func (s *WeightSetter) SetWeightsJSON(ctx context.Context, data []byte) (commit.Outcome, error) {
	raw, err := weights.DecodeRawWeights(data)
	if err != nil {
		logger.Error("failed to decode weights", "error", err)
		return commit.Outcome{}, fmt.Errorf("decode weights:\n%w", err)
	}

	return s.SetWeights(ctx, raw)
}

// summarize logs the size of the vector and the share diverted to the reserved identifier.
func (s *WeightSetter) summarize(v weights.Vector) {
	logger.Info(fmt.Sprintf("Setting weights for %d participants (burn=%.1f%%)", v.Len(), s.burn.Percentage*100))

	if s.burn.Percentage == 0 {
		return
	}

	if share, ok := v.Share(weights.ReservedID); ok {
		logger.Info(fmt.Sprintf("UID %d (burn): %.6f", weights.ReservedID, share))
	}
}

// Close releases the ledger client and journal opened by Connect.
func (s *WeightSetter) Close() error {
	var errs []error

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	s.closers = nil

	return errors.Join(errs...)
}
