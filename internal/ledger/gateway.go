package ledger

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/logger"
	"Weighbridge/internal/signer"
)

// defaultHandleTimeout bounds one chain call when the gateway config sets none.
const defaultHandleTimeout = 30 * time.Second

// ErrRejected is returned by a Chain that refuses an update under its own rules.
var ErrRejected = errors.New("update rejected by chain")

// Update is a verified weight update handed to the chain.
type Update struct {
	NetUID     uint16             // NetUID is the target network
	VersionKey uint64             // VersionKey is the submitter's weights version
	Validator  []byte             // Validator is the BLS public key that signed the update
	UIDs       []uint16           // UIDs are the participant identifiers
	Weights    []uint16           // Weights are the fixed-point shares, aligned with UIDs
	Wait       commit.WaitOptions // Wait is what the submitter is blocking for
}

// Receipt reports how far an update progressed on the chain.
type Receipt struct {
	Included  bool // Included is set once the update is in a block
	Finalized bool // Finalized is set once that block is final
}

// Chain applies verified weight updates.
// Errors wrapping ErrRejected are reported as rejections, any other error as unavailability.
type Chain interface {
	ApplyWeights(ctx context.Context, u Update) (Receipt, error)
}

// GatewayConfig holds the configuration for a Gateway.
type GatewayConfig struct {
	Identity      ed25519.PrivateKey // Identity is the gateway's transport key
	ListenAddr    string             // ListenAddr is the address to listen on (e.g., "127.0.0.1:0")
	Chain         Chain              // Chain receives verified updates
	HandleTimeout time.Duration      // HandleTimeout bounds one chain call
}

// Gateway is the ledger-side endpoint that verifies weight submissions
// and forwards them to a Chain.
type Gateway struct {
	identity      ed25519.PrivateKey
	listenAddr    string
	chain         Chain
	handleTimeout time.Duration

	tlsConfig  *tls.Config
	quicConfig *quic.Config
	listener   *quic.Listener

	ctx    context.Context    // ctx is cancelled on Close
	cancel context.CancelFunc // cancel cancels ctx
	wg     sync.WaitGroup     // wg waits for connection goroutines
	conns  atomic.Int64       // conns counts connections not yet closed
}

// NewGateway creates a gateway. Call Start to begin accepting connections.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	if len(cfg.Identity) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("identity key is required")
	}

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("listen address is required")
	}

	if cfg.Chain == nil {
		return nil, fmt.Errorf("chain is required")
	}

	tlsConfig, err := tlsConfigFor(cfg.Identity)
	if err != nil {
		return nil, fmt.Errorf("tls config:\n%w", err)
	}

	handleTimeout := cfg.HandleTimeout
	if handleTimeout <= 0 {
		handleTimeout = defaultHandleTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Gateway{
		identity:      cfg.Identity,
		listenAddr:    cfg.ListenAddr,
		chain:         cfg.Chain,
		handleTimeout: handleTimeout,
		tlsConfig:     tlsConfig,
		quicConfig: &quic.Config{
			MaxIdleTimeout:  30 * time.Second,
			KeepAlivePeriod: 10 * time.Second,
		},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// PublicKey returns the gateway's transport public key.
func (g *Gateway) PublicKey() ed25519.PublicKey {
	return g.identity.Public().(ed25519.PublicKey)
}

// Addr returns the listener's address. Returns empty string if not started.
func (g *Gateway) Addr() string {
	if g.listener == nil {
		return ""
	}

	return g.listener.Addr().String()
}

// Start starts listening and accepting connections.
func (g *Gateway) Start() error {
	listener, err := quic.ListenAddr(g.listenAddr, g.tlsConfig, g.quicConfig)
	if err != nil {
		return fmt.Errorf("listen:\n%w", err)
	}

	g.listener = listener

	g.wg.Add(1)
	go g.acceptLoop()

	logger.Info("gateway listening", "addr", g.Addr())

	return nil
}

// Close stops the gateway and waits for in-flight requests.
func (g *Gateway) Close() error {
	g.cancel()

	var err error
	if g.listener != nil {
		err = g.listener.Close()
	}

	g.wg.Wait()

	return err
}

// acceptLoop accepts incoming connections.
func (g *Gateway) acceptLoop() {
	defer g.wg.Done()

	for {
		conn, err := g.listener.Accept(g.ctx)
		if err != nil {
			return // Listener closed
		}

		g.wg.Add(1)
		go g.serveConn(conn)
	}
}

// serveConn handles every request stream of one connection.
func (g *Gateway) serveConn(conn *quic.Conn) {
	defer g.wg.Done()

	g.conns.Add(1)
	g.wg.Add(1)
	go g.closeOnShutdown(conn)

	for {
		stream, err := conn.AcceptStream(g.ctx)
		if err != nil {
			logger.Debug("connection ended", "remote", conn.RemoteAddr().String(), "error", err)
			return
		}

		g.wg.Add(1)
		go g.serveStream(stream)
	}
}

// closeOnShutdown closes conn when the gateway stops. It returns as soon as
// either the gateway or the connection is done.
func (g *Gateway) closeOnShutdown(conn *quic.Conn) {
	defer g.wg.Done()
	defer g.conns.Add(-1)

	select {
	case <-g.ctx.Done():
		conn.CloseWithError(0, "gateway closed")
	case <-conn.Context().Done():
	}
}

// serveStream reads one request and writes one response.
func (g *Gateway) serveStream(stream *quic.Stream) {
	defer g.wg.Done()
	defer stream.Close()

	stream.SetDeadline(time.Now().Add(g.handleTimeout + defaultRequestTimeout))

	var resp Response

	sub, err := readSubmission(stream)
	switch {
	case errors.Is(err, errMalformed):
		resp = Response{Code: CodeMalformed, Message: err.Error()}
	case err != nil:
		logger.Debug("stream read error", "error", err)
		return
	default:
		resp = g.handle(sub)
	}

	if err := writeResponse(stream, resp); err != nil {
		logger.Debug("stream write error", "error", err)
	}
}

// handle verifies a decoded submission and applies it to the chain.
func (g *Gateway) handle(sub Submission) Response {
	if err := validateShape(sub); err != nil {
		return Response{Code: CodeMalformed, Message: err.Error()}
	}

	msg := SigningMessage(sub.NetUID, sub.VersionKey, sub.UIDs, sub.Weights)
	if !signer.Verify(sub.Signature, msg, sub.PublicKey) {
		logger.Warn("invalid submission signature", "netuid", sub.NetUID)
		return Response{Code: CodeBadSignature, Message: "signature does not verify"}
	}

	ctx, cancel := context.WithTimeout(g.ctx, g.handleTimeout)
	defer cancel()

	receipt, err := g.chain.ApplyWeights(ctx, Update{
		NetUID:     sub.NetUID,
		VersionKey: sub.VersionKey,
		Validator:  sub.PublicKey,
		UIDs:       sub.UIDs,
		Weights:    sub.Weights,
		Wait:       sub.Wait,
	})

	if errors.Is(err, ErrRejected) {
		return Response{Code: CodeRejected, Message: err.Error()}
	}

	if err != nil {
		logger.Warn("chain unavailable", "netuid", sub.NetUID, "error", err)
		return Response{Code: CodeUnavailable, Message: err.Error()}
	}

	logger.Info("weights applied",
		"netuid", sub.NetUID,
		"participants", len(sub.UIDs),
		"included", receipt.Included,
		"finalized", receipt.Finalized,
	)

	return Response{Code: CodeOK, Included: receipt.Included, Finalized: receipt.Finalized}
}

// validateShape checks that a submission describes a well-formed vector.
func validateShape(s Submission) error {
	if len(s.UIDs) == 0 {
		return fmt.Errorf("empty weight vector")
	}

	if len(s.UIDs) != len(s.Weights) {
		return fmt.Errorf("length mismatch: %d uids, %d weights", len(s.UIDs), len(s.Weights))
	}

	seen := make(map[uint16]struct{}, len(s.UIDs))
	for _, uid := range s.UIDs {
		if _, dup := seen[uid]; dup {
			return fmt.Errorf("duplicate uid %d", uid)
		}
		seen[uid] = struct{}{}
	}

	if len(s.PublicKey) != signer.PublicKeySize {
		return fmt.Errorf("invalid public key size %d", len(s.PublicKey))
	}

	if len(s.Signature) != signer.SignatureSize {
		return fmt.Errorf("invalid signature size %d", len(s.Signature))
	}

	return nil
}
