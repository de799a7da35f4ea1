// Package store defines the Store Gateway: transactional access to subscriptions
// and ordered read access to ticker samples.
//
// Implementations:
//   - postgres: pgx connection pool (production)
//   - memory: mutex-guarded maps (development and tests)
package store

import (
	"context"
	"errors"

	"github.com/rickgao/tickerwatch/internal/model"
)

// ErrNotFound is returned when a subscription or sample does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when creating a subscription whose email already exists.
var ErrConflict = errors.New("already exists")

// Gateway is the persistence boundary used by the service layer.
type Gateway interface {
	// WithinTx runs fn in a single transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// FindSubscription reads a subscription outside any transaction.
	FindSubscription(ctx context.Context, email string) (model.Subscription, error)

	// LatestSample returns the most recent sample for ticker.
	LatestSample(ctx context.Context, ticker string) (model.ValueSample, error)

	// RecentSamples returns up to n samples for ticker, most recent first.
	RecentSamples(ctx context.Context, ticker string, n int) ([]model.ValueSample, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error
}

// Tx is the set of subscription operations available inside a transaction.
type Tx interface {
	FindSubscription(ctx context.Context, email string) (model.Subscription, error)
	CreateSubscription(ctx context.Context, sub model.Subscription) error
	UpdateTicker(ctx context.Context, email, ticker string) error
	DeleteSubscription(ctx context.Context, email string) error
}
