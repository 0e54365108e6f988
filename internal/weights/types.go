package weights

import (
	"errors"
	"fmt"
	"math"
)

const (
	// ReservedID receives burned weight and the folded share of system participants.
	ReservedID = 0

	// sumTolerance is the allowed deviation of a vector's share sum from 1.0.
	sumTolerance = 1e-6
)

var (
	// ErrInvalidBurn is returned when a burn percentage is outside [0, 1].
	ErrInvalidBurn = errors.New("invalid burn percentage")

	// ErrNormalization is returned when the weight total cannot be normalized.
	ErrNormalization = errors.New("weight normalization failed")

	// ErrInvalidVector is returned by Validate for vectors that break ledger rules.
	ErrInvalidVector = errors.New("invalid weight vector")
)

// RawEntry is one participant record as produced by the scoring stage.
// Only the "weight" field is consumed. A nil entry stands for a record that
// was not an object.
type RawEntry map[string]any

// RawWeights maps identifier strings to their raw entries.
type RawWeights map[string]RawEntry

// BurnConfig is the fraction of normalized weight diverted to ReservedID.
type BurnConfig struct {
	Percentage float64 // Percentage is in [0, 1]
}

// NewBurnConfig validates and returns a burn configuration.
func NewBurnConfig(percentage float64) (BurnConfig, error) {
	b := BurnConfig{Percentage: percentage}
	if err := b.Validate(); err != nil {
		return BurnConfig{}, err
	}

	return b, nil
}

// Validate checks the burn percentage range.
func (b BurnConfig) Validate() error {
	if math.IsNaN(b.Percentage) || b.Percentage < 0 || b.Percentage > 1 {
		return fmt.Errorf("%w: %v, must be between 0.0 and 1.0", ErrInvalidBurn, b.Percentage)
	}

	return nil
}

// Vector is an index-aligned list of participant identifiers and their shares.
type Vector struct {
	IDs    []int     // IDs are unique and non-negative
	Shares []float64 // Shares are non-negative and sum to 1.0 when non-empty
}

// Len returns the number of participants in the vector.
func (v Vector) Len() int {
	return len(v.IDs)
}

// Empty reports whether the vector carries no participants.
func (v Vector) Empty() bool {
	return len(v.IDs) == 0
}

// Sum returns the total of all shares.
func (v Vector) Sum() float64 {
	var total float64
	for _, s := range v.Shares {
		total += s
	}

	return total
}

// Share returns the share of id and whether it is present.
func (v Vector) Share(id int) (float64, bool) {
	for i, got := range v.IDs {
		if got == id {
			return v.Shares[i], true
		}
	}

	return 0, false
}

// Clone returns a deep copy of the vector.
func (v Vector) Clone() Vector {
	return Vector{
		IDs:    append([]int(nil), v.IDs...),
		Shares: append([]float64(nil), v.Shares...),
	}
}

// Validate checks the invariants the ledger enforces on a weight vector.
// An empty vector is valid.
func (v Vector) Validate() error {
	if len(v.IDs) != len(v.Shares) {
		return fmt.Errorf("%w: %d identifiers, %d shares", ErrInvalidVector, len(v.IDs), len(v.Shares))
	}

	if len(v.IDs) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(v.IDs))

	for i, id := range v.IDs {
		if id < 0 {
			return fmt.Errorf("%w: negative identifier %d", ErrInvalidVector, id)
		}

		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate identifier %d", ErrInvalidVector, id)
		}
		seen[id] = struct{}{}

		s := v.Shares[i]
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return fmt.Errorf("%w: share %v for identifier %d", ErrInvalidVector, s, id)
		}
	}

	if sum := v.Sum(); math.Abs(sum-1) > sumTolerance {
		return fmt.Errorf("%w: shares sum to %.9f", ErrInvalidVector, sum)
	}

	return nil
}
