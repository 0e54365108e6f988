package setter

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/config"
	"Weighbridge/internal/journal"
	"Weighbridge/internal/ledger"
	"Weighbridge/internal/logger"
	"Weighbridge/internal/signer"
	"Weighbridge/internal/weights"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

// recordingLedger confirms every call and keeps the submitted vectors.
type recordingLedger struct {
	mu      sync.Mutex
	vectors []weights.Vector
	netuids []uint16
	err     error
}

func (l *recordingLedger) SetWeights(_ context.Context, _ commit.Signer, netuid uint16, v weights.Vector, _ commit.WaitOptions) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.vectors = append(l.vectors, v.Clone())
	l.netuids = append(l.netuids, netuid)

	if l.err != nil {
		return false, l.err
	}

	return true, nil
}

func (l *recordingLedger) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.vectors)
}

type nopSigner struct{}

func (nopSigner) Sign(m []byte) ([]byte, error) { return m, nil }
func (nopSigner) PublicKey() []byte             { return nil }

// instantClock skips retry waits.
type instantClock struct{}

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// testConfig returns a valid configuration for network 120.
func testConfig(burn, minShare float64) config.Config {
	return config.Config{
		BurnPercentage:      burn,
		MinShare:            minShare,
		MaxAttempts:         3,
		RetryDelay:          time.Second,
		NetUID:              120,
		LogLevel:            "info",
		WaitForInclusion:    true,
		WaitForFinalization: true,
	}
}

// newTestSetter builds a setter over l.
func newTestSetter(t *testing.T, cfg config.Config, l commit.Ledger) *WeightSetter {
	t.Helper()

	s, err := New(Options{Config: cfg, Ledger: l, Signer: nopSigner{}, Clock: instantClock{}})
	if err != nil {
		t.Fatalf("new setter: %v", err)
	}

	return s
}

// captureLogs routes the default logger into a buffer for the test's duration.
func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()

	buf := &syncBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(logger.NewHandler(buf, slog.LevelDebug)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func scores(pairs map[string]any) weights.RawWeights {
	out := make(weights.RawWeights, len(pairs))
	for k, w := range pairs {
		out[k] = weights.RawEntry{"weight": w}
	}

	return out
}

func TestSetWeightsWithBurn(t *testing.T) {
	logs := captureLogs(t)
	l := &recordingLedger{}
	s := newTestSetter(t, testConfig(0.5, 0), l)

	out, err := s.SetWeights(context.Background(), scores(map[string]any{"1": 3.0, "2": 1.0}))
	if err != nil {
		t.Fatalf("set weights: %v", err)
	}

	if !out.Succeeded() || out.Attempts != 1 {
		t.Fatalf("expected success in 1 attempt, got %v", out)
	}

	want := weights.Vector{IDs: []int{0, 1, 2}, Shares: []float64{0.5, 0.375, 0.125}}
	if diff := cmp.Diff(want, l.vectors[0], approx); diff != "" {
		t.Errorf("submitted vector mismatch (-want +got):\n%s", diff)
	}

	if l.netuids[0] != 120 {
		t.Errorf("netuid = %d, want 120", l.netuids[0])
	}

	text := logs.String()
	for _, line := range []string{
		"Setting weights for 3 participants (burn=50.0%)",
		"UID 0 (burn): 0.500000",
		"UID 1: 0.375000",
	} {
		if !strings.Contains(text, line) {
			t.Errorf("log is missing %q", line)
		}
	}
}

func TestSetWeightsAppliesFloor(t *testing.T) {
	l := &recordingLedger{}
	s := newTestSetter(t, testConfig(0.5, 0.2), l)

	out, err := s.SetWeights(context.Background(), scores(map[string]any{"1": 3.0, "2": 1.0}))
	if err != nil || !out.Succeeded() {
		t.Fatalf("set weights: %v, %v", out, err)
	}

	got := l.vectors[0]
	if share, _ := got.Share(2); share != 0 {
		t.Errorf("share of 2 = %v, want 0 after floor", share)
	}

	if sum := got.Sum(); sum < 1-1e-9 || sum > 1+1e-9 {
		t.Errorf("floored vector sums to %v", sum)
	}
}

func TestSetWeightsNothingToCommit(t *testing.T) {
	l := &recordingLedger{}
	s := newTestSetter(t, testConfig(0, 0), l)

	out, err := s.SetWeights(context.Background(), scores(map[string]any{"1": 0.0, "x": 2.0}))
	if err != nil {
		t.Fatalf("set weights: %v", err)
	}

	if out.Failure != commit.FailureNothingToCommit {
		t.Errorf("expected nothing to commit, got %v", out)
	}

	if l.calls() != 0 {
		t.Errorf("ledger contacted %d times for an empty vector", l.calls())
	}
}

func TestSetWeightsProcessingError(t *testing.T) {
	l := &recordingLedger{}
	s := newTestSetter(t, testConfig(0, 0), l)

	_, err := s.SetWeights(context.Background(), scores(map[string]any{"1": 1e308, "2": 1e308}))
	if !errors.Is(err, weights.ErrNormalization) {
		t.Fatalf("expected normalization error, got %v", err)
	}

	if l.calls() != 0 {
		t.Error("ledger contacted after a processing error")
	}
}

func TestSetWeightsExhausted(t *testing.T) {
	l := &recordingLedger{err: commit.ErrUnavailable}
	s := newTestSetter(t, testConfig(0, 0), l)

	out, err := s.SetWeights(context.Background(), scores(map[string]any{"1": 1.0}))
	if err != nil {
		t.Fatalf("set weights: %v", err)
	}

	if !out.Exhausted() || out.Attempts != 3 {
		t.Errorf("expected exhausted after 3 attempts, got %v", out)
	}
}

func TestSetWeightsJSON(t *testing.T) {
	l := &recordingLedger{}
	s := newTestSetter(t, testConfig(0, 0), l)

	out, err := s.SetWeightsJSON(context.Background(), []byte(`{"-1": {"weight": 1}, "4": {"weight": "3"}, "n2": {"weight": 5}, "7": 2.5}`))
	if err != nil || !out.Succeeded() {
		t.Fatalf("set weights: %v, %v", out, err)
	}

	want := weights.Vector{IDs: []int{0, 4}, Shares: []float64{0.25, 0.75}}
	if diff := cmp.Diff(want, l.vectors[0], approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.SetWeightsJSON(context.Background(), []byte(`{`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(1.5, 0)

	if _, err := New(Options{Config: cfg, Ledger: &recordingLedger{}, Signer: nopSigner{}}); err == nil {
		t.Error("expected error for invalid burn")
	}

	if _, err := New(Options{Config: testConfig(0, 0), Signer: nopSigner{}}); err == nil {
		t.Error("expected error for missing ledger")
	}
}

// acceptingChain includes and finalizes every update.
type acceptingChain struct {
	mu      sync.Mutex
	updates []ledger.Update
}

func (c *acceptingChain) ApplyWeights(_ context.Context, u ledger.Update) (ledger.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.updates = append(c.updates, u)

	return ledger.Receipt{Included: true, Finalized: true}, nil
}

func generateKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	return priv
}

func TestConnectEndToEnd(t *testing.T) {
	chain := &acceptingChain{}

	gw, err := ledger.NewGateway(ledger.GatewayConfig{
		Identity:   generateKey(t),
		ListenAddr: "127.0.0.1:0",
		Chain:      chain,
	})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	if err := gw.Start(); err != nil {
		t.Fatalf("start gateway: %v", err)
	}
	defer gw.Close()

	kp, err := signer.Generate()
	if err != nil {
		t.Fatalf("generate signer: %v", err)
	}

	cfg := testConfig(0.2, 0)
	cfg.LedgerAddr = gw.Addr()
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal")

	s, err := Connect(cfg, generateKey(t), gw.PublicKey(), kp)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	h, ok := slog.Default().Handler().(*logger.Handler)
	if !ok {
		t.Fatalf("default handler is %T, want *logger.Handler", slog.Default().Handler())
	}

	if !h.Enabled(context.Background(), slog.LevelInfo) || h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("installed logger does not follow the configured info level")
	}

	out, err := s.SetWeights(context.Background(), scores(map[string]any{"3": 1.0, "5": 1.0}))
	if err != nil || !out.Succeeded() {
		t.Fatalf("set weights: %v, %v", out, err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(chain.updates) != 1 {
		t.Fatalf("expected 1 update on chain, got %d", len(chain.updates))
	}

	if diff := cmp.Diff([]uint16{0, 3, 5}, chain.updates[0].UIDs); diff != "" {
		t.Errorf("uids mismatch (-want +got):\n%s", diff)
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer j.Close()

	last, ok, err := j.Last()
	if err != nil || !ok || !last.Succeeded() {
		t.Errorf("journal does not end with a successful outcome: %+v ok=%v err=%v", last, ok, err)
	}

	if j.Len() != 2 {
		t.Errorf("expected intent and outcome records, got %d", j.Len())
	}
}

func TestConnectRequiresAddress(t *testing.T) {
	if _, err := Connect(testConfig(0, 0), generateKey(t), nil, nopSigner{}); err == nil {
		t.Error("expected error for missing ledger address")
	}
}
