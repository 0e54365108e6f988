package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/logger"
	"Weighbridge/internal/weights"
)

// Config holds the engine configuration, read from WEIGHBRIDGE_* variables.
type Config struct {
	// BurnPercentage is the fraction of weight diverted to identifier 0.
	BurnPercentage float64 `env:"WEIGHBRIDGE_BURN_PERCENTAGE" envDefault:"0.0"`

	// MinShare zeroes regular shares below it after processing. 0 disables the floor.
	MinShare float64 `env:"WEIGHBRIDGE_MIN_SHARE" envDefault:"0.0"`

	// MaxAttempts is the ledger call budget of one commit.
	MaxAttempts int `env:"WEIGHBRIDGE_MAX_ATTEMPTS" envDefault:"3"`

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration `env:"WEIGHBRIDGE_RETRY_DELAY" envDefault:"60s"`

	// AttemptTimeout bounds one ledger call. 0 leaves it to the ledger client.
	AttemptTimeout time.Duration `env:"WEIGHBRIDGE_ATTEMPT_TIMEOUT" envDefault:"0s"`

	// NetUID is the target network.
	NetUID uint16 `env:"WEIGHBRIDGE_NETUID"`

	// VersionKey is sent with every submission.
	VersionKey uint64 `env:"WEIGHBRIDGE_VERSION_KEY" envDefault:"0"`

	// LedgerAddr is the gateway address (host:port).
	LedgerAddr string `env:"WEIGHBRIDGE_LEDGER_ADDR"`

	// JournalPath is the audit journal directory. Empty disables the journal.
	JournalPath string `env:"WEIGHBRIDGE_JOURNAL_PATH"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `env:"WEIGHBRIDGE_LOG_LEVEL" envDefault:"info"`

	// WaitForInclusion makes each ledger call wait until the update is in a block.
	WaitForInclusion bool `env:"WEIGHBRIDGE_WAIT_FOR_INCLUSION" envDefault:"true"`

	// WaitForFinalization makes each ledger call wait until that block is final.
	WaitForFinalization bool `env:"WEIGHBRIDGE_WAIT_FOR_FINALIZATION" envDefault:"true"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate range-checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error

	if _, err := weights.NewBurnConfig(c.BurnPercentage); err != nil {
		errs = append(errs, err)
	}

	if err := c.Weights().Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max attempts %d must be at least 1", c.MaxAttempts))
	}

	if c.RetryDelay <= 0 {
		errs = append(errs, fmt.Errorf("retry delay %v must be positive", c.RetryDelay))
	}

	if c.AttemptTimeout < 0 {
		errs = append(errs, fmt.Errorf("attempt timeout %v must not be negative", c.AttemptTimeout))
	}

	if c.WaitForFinalization && !c.WaitForInclusion {
		errs = append(errs, fmt.Errorf("waiting for finalization requires waiting for inclusion"))
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n%w", errors.Join(errs...))
	}

	return nil
}

// Burn returns the burn configuration.
func (c Config) Burn() (weights.BurnConfig, error) {
	return weights.NewBurnConfig(c.BurnPercentage)
}

// Weights returns the processor configuration.
func (c Config) Weights() weights.Config {
	return weights.Config{MinShare: c.MinShare}
}

// Wait returns the ledger wait options.
func (c Config) Wait() commit.WaitOptions {
	return commit.WaitOptions{
		WaitForInclusion:    c.WaitForInclusion,
		WaitForFinalization: c.WaitForFinalization,
	}
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}
