package weights

// ApplyFloor zeroes every non-reserved share below floor and re-normalizes the rest.
// ReservedID is exempt because it carries burned weight. If the floor would
// zero the whole vector, the input is returned unchanged.
func ApplyFloor(v Vector, floor float64) Vector {
	out := v.Clone()
	if out.Empty() || floor <= 0 {
		return out
	}

	var kept float64

	for i, id := range out.IDs {
		if id != ReservedID && out.Shares[i] < floor {
			out.Shares[i] = 0
			continue
		}

		kept += out.Shares[i]
	}

	if kept <= 0 {
		return v.Clone()
	}

	for i := range out.Shares {
		out.Shares[i] /= kept
	}

	return out
}
