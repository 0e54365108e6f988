package weights

import (
	"fmt"
	"math"
	"sort"

	"Weighbridge/internal/logger"
)

// Config holds the processor's policy parameters.
// It is validated once by NewProcessor and never mutated afterwards.
type Config struct {
	// MinShare is the floor below which non-reserved shares are zeroed by Finalize.
	// Zero disables the floor.
	MinShare float64
}

// Validate range-checks every field.
func (c Config) Validate() error {
	if math.IsNaN(c.MinShare) || c.MinShare < 0 || c.MinShare >= 1 {
		return fmt.Errorf("min share %v must be in [0, 1)", c.MinShare)
	}

	return nil
}

// Processor turns raw scores into ledger-legal weight vectors.
// It holds no state between calls and is safe for concurrent use.
type Processor struct {
	cfg Config
}

// NewProcessor validates cfg and returns a processor bound to it.
func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("weights config:\n%w", err)
	}

	return &Processor{cfg: cfg}, nil
}

// Config returns the processor's configuration.
func (p *Processor) Config() Config {
	return p.cfg
}

// participant is a parsed regular entry awaiting normalization.
type participant struct {
	id     int
	weight float64
}

// Process converts raw weights into a normalized vector with burn applied.
//
// Flow:
//  1. Parse entries, dropping malformed or non-positive ones
//  2. Split regular (id >= 0) from system (id < 0) participants
//  3. Normalize against the combined total
//  4. Scale by (1 - burn) and fold burn plus the system share into ReservedID
//
// An input with nothing left after parsing yields an empty vector and no error.
func (p *Processor) Process(raw RawWeights, burn BurnConfig) (Vector, error) {
	if err := burn.Validate(); err != nil {
		return Vector{}, err
	}

	regular, systemTotal := partition(ParseEntries(raw))

	var regularTotal float64
	for _, r := range regular {
		regularTotal += r.weight
	}

	if regularTotal == 0 && systemTotal == 0 {
		logger.Warn("no valid weights found", "entries", len(raw))
		return Vector{}, nil
	}

	total := regularTotal + systemTotal
	if math.IsInf(total, 0) || math.IsNaN(total) || total <= 0 {
		return Vector{}, fmt.Errorf("%w: total %v", ErrNormalization, total)
	}

	keep := 1 - burn.Percentage
	extra := burn.Percentage + (systemTotal/total)*keep

	v := Vector{
		IDs:    make([]int, 0, len(regular)+1),
		Shares: make([]float64, 0, len(regular)+1),
	}

	for _, r := range regular {
		share := (r.weight / total) * keep
		if share == 0 && r.id != ReservedID {
			continue
		}

		v.IDs = append(v.IDs, r.id)
		v.Shares = append(v.Shares, share)
	}

	v = foldReserved(v, extra)

	logger.Debug("weights processed",
		"participants", v.Len(),
		"system_total", systemTotal,
		"burn", burn.Percentage,
	)

	return v, nil
}

// Finalize applies the configured share floor to a processed vector.
func (p *Processor) Finalize(v Vector) Vector {
	if p.cfg.MinShare == 0 {
		return v
	}

	return ApplyFloor(v, p.cfg.MinShare)
}

// partition splits kept entries into ascending regular participants and the
// summed weight of system participants.
func partition(outcomes []EntryOutcome) ([]participant, float64) {
	var (
		regular     []participant
		systemTotal float64
	)

	for _, o := range outcomes {
		if !o.Kept {
			logger.Debug("skipping weight entry", "uid", o.Key, "reason", o.Reason)
			continue
		}

		if o.ID < 0 {
			systemTotal += o.Weight
			continue
		}

		regular = append(regular, participant{id: o.ID, weight: o.Weight})
	}

	sort.Slice(regular, func(i, j int) bool {
		return regular[i].id < regular[j].id
	})

	return regular, systemTotal
}

// foldReserved adds extra to ReservedID, prepending it when absent.
// IDs are ascending, so ReservedID is always first when present.
func foldReserved(v Vector, extra float64) Vector {
	if len(v.IDs) > 0 && v.IDs[0] == ReservedID {
		v.Shares[0] += extra
		return v
	}

	if extra == 0 {
		return v
	}

	return Vector{
		IDs:    append([]int{ReservedID}, v.IDs...),
		Shares: append([]float64{extra}, v.Shares...),
	}
}
