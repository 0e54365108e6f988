package weights

import (
	"fmt"
	"math"
)

// MaxFixedPoint is the ledger's fixed-point scale: the largest share maps to it.
const MaxFixedPoint = math.MaxUint16

// FixedPoint converts a vector to the ledger's u16 representation.
// The largest share maps to MaxFixedPoint and others scale proportionally;
// entries that round to zero are omitted.
func FixedPoint(v Vector) ([]uint16, []uint16, error) {
	if err := v.Validate(); err != nil {
		return nil, nil, err
	}

	var maxShare float64
	for _, s := range v.Shares {
		maxShare = math.Max(maxShare, s)
	}

	if maxShare == 0 {
		return nil, nil, nil
	}

	ids := make([]uint16, 0, v.Len())
	vals := make([]uint16, 0, v.Len())

	for i, id := range v.IDs {
		if id > math.MaxUint16 {
			return nil, nil, fmt.Errorf("%w: identifier %d exceeds %d", ErrInvalidVector, id, math.MaxUint16)
		}

		val := math.Round(v.Shares[i] / maxShare * MaxFixedPoint)
		if val == 0 {
			continue
		}

		ids = append(ids, uint16(id))
		vals = append(vals, uint16(val))
	}

	return ids, vals, nil
}
