package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrUnreachable is returned when every attempt failed with a retryable error.
var ErrUnreachable = errors.New("server unreachable")

// Class is the outcome category of one attempt.
type Class int

const (
	Success Class = iota
	Retryable
	Terminal
)

func (c Class) String() string {
	switch c {
	case Success:
		return "success"
	case Retryable:
		return "retryable"
	case Terminal:
		return "terminal"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Classify maps an attempt error to its Class.
func Classify(err error) Class {
	if err == nil {
		return Success
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Retryable
	}
	switch status.Code(err) {
	case codes.DeadlineExceeded, codes.Unavailable:
		return Retryable
	default:
		return Terminal
	}
}

// Policy bounds the retry loop.
type Policy struct {
	MaxAttempts    int           // Total attempts including the first (default: 5)
	AttemptTimeout time.Duration // Deadline applied to each attempt (default: 5s)
	Delay          time.Duration // Wait between attempts (default: 5s)
}

// DefaultPolicy returns the standard client policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    5,
		AttemptTimeout: 5 * time.Second,
		Delay:          5 * time.Second,
	}
}

// Observer is notified after every attempt.
type Observer interface {
	ObserveAttempt(op string, class Class)
}

// Driver runs operations under a Policy.
type Driver struct {
	policy   Policy
	logger   *slog.Logger
	observer Observer
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithObserver sets an attempt observer.
func WithObserver(o Observer) Option {
	return func(d *Driver) {
		d.observer = o
	}
}

// NewDriver creates a Driver. Non-positive policy fields fall back to the defaults,
// except Delay, which may be zero.
func NewDriver(p Policy, opts ...Option) *Driver {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = def.AttemptTimeout
	}
	if p.Delay < 0 {
		p.Delay = 0
	}

	d := &Driver{
		policy: p,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy returns the effective policy.
func (d *Driver) Policy() Policy {
	return d.policy
}

// Do invokes op until it succeeds, fails terminally, or the attempt cap is reached.
func Do[T any](ctx context.Context, d *Driver, name string, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= d.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			d.logger.Debug("retrying request",
				"op", name,
				"attempt", attempt,
				"delay", d.policy.Delay,
			)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(d.policy.Delay):
			}
		}

		resp, err := runAttempt(ctx, d, name, op)
		switch Classify(err) {
		case Success:
			return resp, nil
		case Terminal:
			return zero, err
		}

		lastErr = err
		d.logger.Info("attempt failed",
			"op", name,
			"attempt", attempt,
			"max_attempts", d.policy.MaxAttempts,
			"error", err,
		)

		// The parent context is done; further attempts cannot succeed.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrUnreachable, d.policy.MaxAttempts, lastErr)
}

// Once invokes op a single time under the per-attempt timeout.
func Once[T any](ctx context.Context, d *Driver, name string, op func(context.Context) (T, error)) (T, error) {
	return runAttempt(ctx, d, name, op)
}

func runAttempt[T any](ctx context.Context, d *Driver, name string, op func(context.Context) (T, error)) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, d.policy.AttemptTimeout)
	defer cancel()

	resp, err := op(attemptCtx)
	if d.observer != nil {
		d.observer.ObserveAttempt(name, Classify(err))
	}
	return resp, err
}
