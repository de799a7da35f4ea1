package api

import (
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rickgao/tickerwatch/internal/metrics"
	"github.com/rickgao/tickerwatch/internal/requestid"
	"github.com/rickgao/tickerwatch/internal/retry"
)

// Client provides access to SubscriptionService.
type Client struct {
	conn    *grpc.ClientConn
	retrier *retry.Driver
	ids     *requestid.Generator
	logger  *slog.Logger

	policy      retry.Policy
	dialOptions []grpc.DialOption
	metrics     *metrics.Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for the server at target. The connection is
// established lazily on the first call.
func NewClient(target string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		ids:    requestid.NewGenerator(nil),
		logger: slog.Default(),
		policy: retry.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, c.dialOptions...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc client: %w", err)
	}
	c.conn = conn

	retryOpts := []retry.Option{retry.WithLogger(c.logger)}
	if c.metrics != nil {
		retryOpts = append(retryOpts, retry.WithObserver(c.metrics))
	}
	c.retrier = retry.NewDriver(c.policy, retryOpts...)

	return c, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// WithRetryPolicy sets the retry policy for mutations.
func WithRetryPolicy(p retry.Policy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDialOptions appends gRPC dial options (tests pass a bufconn dialer).
func WithDialOptions(opts ...grpc.DialOption) ClientOption {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// WithMetrics records every attempt in m.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithIDGenerator sets the request identity generator.
func WithIDGenerator(g *requestid.Generator) ClientOption {
	return func(c *Client) {
		c.ids = g
	}
}
