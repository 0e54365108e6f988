package ledger

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"Weighbridge/internal/commit"
	"Weighbridge/internal/logger"
	"Weighbridge/internal/weights"
)

const (
	// defaultDialTimeout bounds connection setup when the caller sets no deadline.
	defaultDialTimeout = 10 * time.Second

	// defaultRequestTimeout is the default timeout for one submission round trip.
	defaultRequestTimeout = 30 * time.Second
)

// ErrClosed is returned by SetWeights after Close.
var ErrClosed = errors.New("ledger client closed")

// ClientConfig holds the configuration for a Client.
type ClientConfig struct {
	Identity       ed25519.PrivateKey // Identity is the transport key presented to the gateway
	Addr           string             // Addr is the gateway address (host:port)
	GatewayKey     ed25519.PublicKey  // GatewayKey pins the gateway identity when set
	VersionKey     uint64             // VersionKey is the weights version sent with every submission
	DialTimeout    time.Duration      // DialTimeout bounds connection setup
	RequestTimeout time.Duration      // RequestTimeout bounds one request when ctx has no deadline
}

// Client submits weight vectors to a gateway over QUIC.
// It implements commit.Ledger and keeps one connection, redialing after failures.
type Client struct {
	addr           string
	gatewayKey     ed25519.PublicKey
	versionKey     uint64
	dialTimeout    time.Duration
	requestTimeout time.Duration

	tlsConfig  *tls.Config
	quicConfig *quic.Config

	mu     sync.Mutex // mu protects conn and closed
	conn   *quic.Conn // conn is the current connection, nil when disconnected
	closed bool
}

// NewClient creates a ledger client. No connection is made until the first submission.
func NewClient(cfg ClientConfig) (*Client, error) {
	if len(cfg.Identity) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("identity key is required")
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("gateway address is required")
	}

	if cfg.GatewayKey != nil && len(cfg.GatewayKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid gateway key size %d", len(cfg.GatewayKey))
	}

	tlsConfig, err := tlsConfigFor(cfg.Identity)
	if err != nil {
		return nil, fmt.Errorf("tls config:\n%w", err)
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return &Client{
		addr:           cfg.Addr,
		gatewayKey:     cfg.GatewayKey,
		versionKey:     cfg.VersionKey,
		dialTimeout:    dialTimeout,
		requestTimeout: requestTimeout,
		tlsConfig:      tlsConfig,
		quicConfig: &quic.Config{
			MaxIdleTimeout:  30 * time.Second,
			KeepAlivePeriod: 10 * time.Second,
		},
	}, nil
}

// SetWeights signs v and submits it to the gateway.
// Transport failures and an unavailable chain are returned as retryable errors,
// anything the gateway will never accept as fatal ones.
func (c *Client) SetWeights(ctx context.Context, signer commit.Signer, netuid uint16, v weights.Vector, opts commit.WaitOptions) (bool, error) {
	uids, vals, err := weights.FixedPoint(v)
	if err != nil {
		return false, commit.Fatal(fmt.Errorf("encode weights:\n%w", err))
	}

	sig, err := signer.Sign(SigningMessage(netuid, c.versionKey, uids, vals))
	if err != nil {
		return false, commit.Fatal(fmt.Errorf("sign weights:\n%w", err))
	}

	sub := Submission{
		NetUID:     netuid,
		VersionKey: c.versionKey,
		UIDs:       uids,
		Weights:    vals,
		Wait:       opts,
		PublicKey:  signer.PublicKey(),
		Signature:  sig,
	}

	conn, err := c.connection(ctx)
	if err != nil {
		return false, err
	}

	resp, err := c.request(ctx, conn, sub)
	if err != nil {
		c.drop(conn)
		return false, commit.Retryable(fmt.Errorf("submit to %s:\n%w", c.addr, err))
	}

	return interpret(resp, opts)
}

// interpret maps a gateway response onto the commit.Ledger contract.
func interpret(resp Response, opts commit.WaitOptions) (bool, error) {
	switch resp.Code {
	case CodeOK:
		if opts.WaitForFinalization {
			return resp.Included && resp.Finalized, nil
		}

		if opts.WaitForInclusion {
			return resp.Included, nil
		}

		return true, nil

	case CodeRejected:
		logger.Debug("gateway rejected weights", "message", resp.Message)
		return false, nil

	case CodeUnavailable:
		return false, commit.Retryable(fmt.Errorf("%w: %s", commit.ErrUnavailable, resp.Message))

	default:
		return false, commit.Fatal(fmt.Errorf("gateway refused submission (%s): %s", resp.Code, resp.Message))
	}
}

// connection returns the live connection, dialing a new one when needed.
func (c *Client) connection(ctx context.Context) (*quic.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, commit.Fatal(ErrClosed)
	}

	if c.conn != nil {
		select {
		case <-c.conn.Context().Done():
			c.conn = nil
		default:
			return c.conn, nil
		}
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	conn, err := quic.DialAddr(dialCtx, c.addr, c.tlsConfig, c.quicConfig)
	if err != nil {
		return nil, commit.Retryable(fmt.Errorf("dial %s:\n%w", c.addr, err))
	}

	if err := checkPinned(conn.ConnectionState().TLS, c.gatewayKey); err != nil {
		conn.CloseWithError(1, "unexpected identity")
		return nil, commit.Fatal(err)
	}

	logger.Debug("connected to gateway", "addr", c.addr)
	c.conn = conn

	return conn, nil
}

// request sends sub on a fresh bidirectional stream and reads the gateway's reply.
func (c *Client) request(ctx context.Context, conn *quic.Conn, sub Submission) (Response, error) {
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("open stream:\n%w", err)
	}
	defer stream.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.requestTimeout)
	}
	stream.SetDeadline(deadline)

	if err := writeSubmission(stream, sub); err != nil {
		return Response{}, fmt.Errorf("write request:\n%w", err)
	}

	resp, err := readResponse(stream)
	if err != nil {
		return Response{}, fmt.Errorf("read response:\n%w", err)
	}

	return resp, nil
}

// drop closes conn if it is still the current connection.
func (c *Client) drop(conn *quic.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == conn {
		c.conn = nil
	}

	conn.CloseWithError(0, "dropped")
}

// Close closes the connection. Further submissions fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	if c.conn == nil {
		return nil
	}

	err := c.conn.CloseWithError(0, "closed")
	c.conn = nil

	return err
}
