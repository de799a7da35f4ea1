// Package postgres implements the Store Gateway on PostgreSQL using pgx.
//
// Tables:
//   - users (email PK, ticker): subscriptions, mutated only inside WithinTx
//   - financial_data (ticker, value, timestamp): samples, read-only here
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/tickerwatch/internal/model"
	"github.com/rickgao/tickerwatch/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a pgx-backed Gateway.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an open pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WithinTx implements store.Gateway.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// FindSubscription implements store.Gateway.
func (s *Store) FindSubscription(ctx context.Context, email string) (model.Subscription, error) {
	return findSubscription(ctx, s.pool, email, false)
}

// LatestSample implements store.Gateway.
func (s *Store) LatestSample(ctx context.Context, ticker string) (model.ValueSample, error) {
	var sample model.ValueSample
	err := s.pool.QueryRow(ctx, `
		SELECT ticker, value, timestamp
		FROM financial_data
		WHERE ticker = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`, ticker).Scan(&sample.Ticker, &sample.Value, &sample.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ValueSample{}, store.ErrNotFound
		}
		return model.ValueSample{}, fmt.Errorf("query latest sample: %w", err)
	}
	return sample, nil
}

// RecentSamples implements store.Gateway.
func (s *Store) RecentSamples(ctx context.Context, ticker string, n int) ([]model.ValueSample, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT ticker, value, timestamp
		FROM financial_data
		WHERE ticker = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, ticker, n)
	if err != nil {
		return nil, fmt.Errorf("query recent samples: %w", err)
	}
	defer rows.Close()

	samples := make([]model.ValueSample, 0, n)
	for rows.Next() {
		var sample model.ValueSample
		if err := rows.Scan(&sample.Ticker, &sample.Value, &sample.Timestamp); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}

// InsertSample writes a sample. The server never calls it; the collector and
// tests do.
func (s *Store) InsertSample(ctx context.Context, sample model.ValueSample) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO financial_data (ticker, value, timestamp)
		VALUES ($1, $2, $3)
	`, sample.Ticker, sample.Value, sample.Timestamp)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Ping implements store.Gateway.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

type pgTx struct {
	q querier
}

func (t *pgTx) FindSubscription(ctx context.Context, email string) (model.Subscription, error) {
	return findSubscription(ctx, t.q, email, true)
}

func (t *pgTx) CreateSubscription(ctx context.Context, sub model.Subscription) error {
	ct, err := t.q.Exec(ctx, `
		INSERT INTO users (email, ticker)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`, sub.Email, sub.Ticker)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return store.ErrConflict
	}
	return nil
}

func (t *pgTx) UpdateTicker(ctx context.Context, email, ticker string) error {
	ct, err := t.q.Exec(ctx, `UPDATE users SET ticker = $2 WHERE email = $1`, email, ticker)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t *pgTx) DeleteSubscription(ctx context.Context, email string) error {
	ct, err := t.q.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func findSubscription(ctx context.Context, q querier, email string, forUpdate bool) (model.Subscription, error) {
	sql := `SELECT email, ticker FROM users WHERE email = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}

	var sub model.Subscription
	if err := q.QueryRow(ctx, sql, email).Scan(&sub.Email, &sub.Ticker); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Subscription{}, store.ErrNotFound
		}
		return model.Subscription{}, fmt.Errorf("query user: %w", err)
	}
	return sub, nil
}
