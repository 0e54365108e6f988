package weights

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// approx compares float shares with a tolerance well below the ledger's.
var approx = cmpopts.EquateApprox(0, 1e-12)

// newTestProcessor returns a processor without a share floor.
func newTestProcessor(t *testing.T) *Processor {
	t.Helper()

	p, err := NewProcessor(Config{})
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}

	return p
}

// raw builds RawWeights from identifier -> weight pairs.
func raw(pairs map[string]any) RawWeights {
	out := make(RawWeights, len(pairs))
	for k, w := range pairs {
		out[k] = RawEntry{"weight": w}
	}

	return out
}

// checkInvariants asserts the ledger rules every processed vector must satisfy.
func checkInvariants(t *testing.T, v Vector) {
	t.Helper()

	if err := v.Validate(); err != nil {
		t.Fatalf("vector violates invariants: %v", err)
	}
}

func TestProcessScenario(t *testing.T) {
	p := newTestProcessor(t)

	in := raw(map[string]any{"1": 3.0, "2": 1.0, "-5": 4.0})

	v, err := p.Process(in, BurnConfig{Percentage: 0.25})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	want := Vector{
		IDs:    []int{0, 1, 2},
		Shares: []float64{0.625, 0.28125, 0.09375},
	}

	if diff := cmp.Diff(want, v, approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}

	checkInvariants(t, v)
}

func TestProcessNoBurnSumsToOne(t *testing.T) {
	p := newTestProcessor(t)

	inputs := []RawWeights{
		raw(map[string]any{"1": 1.0}),
		raw(map[string]any{"1": 0.3, "7": 0.3, "9": 0.4}),
		raw(map[string]any{"3": 1e-9, "4": 1e9, "5": 12.5}),
		raw(map[string]any{"0": 2.0, "10": 1.0, "-1": 5.0}),
		raw(map[string]any{"255": 0.1, "128": 0.2, "64": 0.3, "32": 0.4, "16": 0.5}),
	}

	for i, in := range inputs {
		v, err := p.Process(in, BurnConfig{})
		if err != nil {
			t.Fatalf("input %d: process: %v", i, err)
		}

		if math.Abs(v.Sum()-1) > 1e-6 {
			t.Errorf("input %d: sum = %v, want 1", i, v.Sum())
		}

		checkInvariants(t, v)
	}
}

func TestProcessNoBurnNoSystemHasNoReserved(t *testing.T) {
	p := newTestProcessor(t)

	v, err := p.Process(raw(map[string]any{"4": 1.0, "2": 3.0}), BurnConfig{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	want := Vector{IDs: []int{2, 4}, Shares: []float64{0.75, 0.25}}
	if diff := cmp.Diff(want, v, approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessFullBurn(t *testing.T) {
	p := newTestProcessor(t)

	inputs := []RawWeights{
		raw(map[string]any{"1": 3.0, "2": 1.0}),
		raw(map[string]any{"0": 5.0, "2": 1.0, "-3": 2.0}),
		raw(map[string]any{"-1": 1.0}),
	}

	for i, in := range inputs {
		v, err := p.Process(in, BurnConfig{Percentage: 1})
		if err != nil {
			t.Fatalf("input %d: process: %v", i, err)
		}

		want := Vector{IDs: []int{0}, Shares: []float64{1.0}}
		if diff := cmp.Diff(want, v); diff != "" {
			t.Errorf("input %d: vector mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestProcessSystemOnly(t *testing.T) {
	p := newTestProcessor(t)

	v, err := p.Process(raw(map[string]any{"-1": 2.0, "-7": 6.0}), BurnConfig{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	want := Vector{IDs: []int{0}, Shares: []float64{1.0}}
	if diff := cmp.Diff(want, v, approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessReservedPresentIsFolded(t *testing.T) {
	p := newTestProcessor(t)

	v, err := p.Process(raw(map[string]any{"0": 1.0, "1": 1.0}), BurnConfig{Percentage: 0.5})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	// 0: 0.5*0.5 + 0.5 = 0.75, 1: 0.5*0.5 = 0.25
	want := Vector{IDs: []int{0, 1}, Shares: []float64{0.75, 0.25}}
	if diff := cmp.Diff(want, v, approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}

	checkInvariants(t, v)
}

func TestProcessEmptyAndNonPositive(t *testing.T) {
	p := newTestProcessor(t)

	inputs := map[string]RawWeights{
		"nil":      nil,
		"empty":    {},
		"zero":     raw(map[string]any{"1": 0.0, "2": 0}),
		"negative": raw(map[string]any{"1": -1.0, "-2": -3.0}),
		"garbage":  {"x": RawEntry{"weight": 1.0}, "2": RawEntry{"score": 1.0}},
		"entries":  {"1": nil, "2": nil},
	}

	for name, in := range inputs {
		v, err := p.Process(in, BurnConfig{Percentage: 0.5})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}

		if !v.Empty() {
			t.Errorf("%s: got %v, want empty vector", name, v)
		}
	}
}

func TestProcessIgnoresNonNumericIdentifiers(t *testing.T) {
	p := newTestProcessor(t)

	for _, key := range []string{"n5", "N5", "u5", "5n"} {
		v, err := p.Process(RawWeights{key: {"weight": 1.0}}, BurnConfig{})
		if err != nil {
			t.Errorf("%q: unexpected error: %v", key, err)
			continue
		}

		if !v.Empty() {
			t.Errorf("%q: got %v, want empty vector", key, v)
		}
	}

	v, err := p.Process(RawWeights{"n5": {"weight": 1.0}, "-5": {"weight": 1.0}, "2": {"weight": 1.0}}, BurnConfig{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	want := Vector{IDs: []int{0, 2}, Shares: []float64{0.5, 0.5}}
	if diff := cmp.Diff(want, v, approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessInvalidBurn(t *testing.T) {
	p := newTestProcessor(t)

	for _, pct := range []float64{-0.1, 1.01, math.NaN()} {
		if _, err := p.Process(raw(map[string]any{"1": 1.0}), BurnConfig{Percentage: pct}); err == nil {
			t.Errorf("burn %v: expected error", pct)
		}

		if _, err := NewBurnConfig(pct); err == nil {
			t.Errorf("NewBurnConfig(%v): expected error", pct)
		}
	}
}

func TestProcessOverflowIsNormalizationError(t *testing.T) {
	p := newTestProcessor(t)

	in := raw(map[string]any{"1": math.MaxFloat64, "2": math.MaxFloat64})

	_, err := p.Process(in, BurnConfig{})
	if err == nil {
		t.Fatal("expected normalization error")
	}

	if !errors.Is(err, ErrNormalization) {
		t.Errorf("error = %v, want ErrNormalization", err)
	}
}

func TestProcessDeterministic(t *testing.T) {
	p := newTestProcessor(t)

	in := raw(map[string]any{
		"1": 0.1, "2": 0.2, "3": 0.3, "11": 0.7, "-4": 0.9, "0": 0.05, "01": 9.0,
	})

	first, err := p.Process(in, BurnConfig{Percentage: 0.1})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	for i := 0; i < 20; i++ {
		again, err := p.Process(in, BurnConfig{Percentage: 0.1})
		if err != nil {
			t.Fatalf("process: %v", err)
		}

		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}

		if Fingerprint(first) != Fingerprint(again) {
			t.Fatalf("run %d fingerprint differs", i)
		}
	}
}

func TestProcessUniqueIdentifiers(t *testing.T) {
	p := newTestProcessor(t)

	in := raw(map[string]any{"1": 1.0, "01": 2.0, " 1 ": 3.0, "0": 1.0, "+0": 4.0})

	v, err := p.Process(in, BurnConfig{Percentage: 0.2})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	checkInvariants(t, v)

	zeros := 0
	for _, id := range v.IDs {
		if id == ReservedID {
			zeros++
		}
	}

	if zeros != 1 {
		t.Errorf("reserved identifier appears %d times, want 1", zeros)
	}
}

func TestProcessDecodedJSON(t *testing.T) {
	p := newTestProcessor(t)

	doc := []byte(`{"1": {"weight": 3}, "2": {"weight": "1.0"}, "-5": {"weight": 4.0}, "9": {"weight": null}}`)

	in, err := DecodeRawWeights(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	v, err := p.Process(in, BurnConfig{Percentage: 0.25})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	want := Vector{IDs: []int{0, 1, 2}, Shares: []float64{0.625, 0.28125, 0.09375}}
	if diff := cmp.Diff(want, v, approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRawWeightsInvalid(t *testing.T) {
	if _, err := DecodeRawWeights([]byte(`[1, 2]`)); err == nil {
		t.Error("expected error for non-object document")
	}

	if _, err := DecodeRawWeights([]byte(`{`)); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestNewProcessorValidatesConfig(t *testing.T) {
	for _, floor := range []float64{-0.01, 1, math.NaN()} {
		if _, err := NewProcessor(Config{MinShare: floor}); err == nil {
			t.Errorf("MinShare %v: expected error", floor)
		}
	}

	if _, err := NewProcessor(Config{MinShare: 0.01}); err != nil {
		t.Errorf("MinShare 0.01: unexpected error: %v", err)
	}
}
