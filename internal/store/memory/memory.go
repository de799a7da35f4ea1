// Package memory is an in-process Store Gateway backed by maps.
//
// Transactions are serialized by a single mutex and applied through a
// copy-on-commit staging area, so a failed transaction leaves no trace.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rickgao/tickerwatch/internal/model"
	"github.com/rickgao/tickerwatch/internal/store"
)

// Store is an in-memory Gateway. The zero value is not usable; call New.
type Store struct {
	txMu sync.Mutex // serializes transactions

	mu      sync.RWMutex
	users   map[string]string // email -> ticker
	samples map[string][]model.ValueSample

	writes atomic.Int64

	// Fault, when set, is consulted before every transactional operation.
	// A non-nil return aborts the transaction with that error.
	fault atomic.Pointer[func(op string) error]
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:   make(map[string]string),
		samples: make(map[string][]model.ValueSample),
	}
}

// SetFault installs a fault hook; nil clears it.
func (s *Store) SetFault(fn func(op string) error) {
	if fn == nil {
		s.fault.Store(nil)
		return
	}
	s.fault.Store(&fn)
}

// Writes returns how many committed row changes have been applied.
func (s *Store) Writes() int64 {
	return s.writes.Load()
}

// AddSample records a ticker sample (collector side).
func (s *Store) AddSample(sample model.ValueSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[sample.Ticker] = append(s.samples[sample.Ticker], sample)
}

// WithinTx implements store.Gateway.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	t := &tx{store: s, staged: make(map[string]*string)}
	if err := fn(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for email, ticker := range t.staged {
		if ticker == nil {
			delete(s.users, email)
		} else {
			s.users[email] = *ticker
		}
		s.writes.Add(1)
	}
	return nil
}

// FindSubscription implements store.Gateway.
func (s *Store) FindSubscription(ctx context.Context, email string) (model.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticker, ok := s.users[email]
	if !ok {
		return model.Subscription{}, store.ErrNotFound
	}
	return model.Subscription{Email: email, Ticker: ticker}, nil
}

// LatestSample implements store.Gateway.
func (s *Store) LatestSample(ctx context.Context, ticker string) (model.ValueSample, error) {
	samples, err := s.RecentSamples(ctx, ticker, 1)
	if err != nil {
		return model.ValueSample{}, err
	}
	if len(samples) == 0 {
		return model.ValueSample{}, store.ErrNotFound
	}
	return samples[0], nil
}

// RecentSamples implements store.Gateway.
func (s *Store) RecentSamples(ctx context.Context, ticker string, n int) ([]model.ValueSample, error) {
	if n <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	all := make([]model.ValueSample, len(s.samples[ticker]))
	copy(all, s.samples[ticker])
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Ping implements store.Gateway.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

type tx struct {
	store  *Store
	staged map[string]*string // nil value = delete
}

func (t *tx) check(op string) error {
	if fn := t.store.fault.Load(); fn != nil {
		return (*fn)(op)
	}
	return nil
}

func (t *tx) FindSubscription(ctx context.Context, email string) (model.Subscription, error) {
	if err := t.check("find"); err != nil {
		return model.Subscription{}, err
	}
	if ticker, ok := t.staged[email]; ok {
		if ticker == nil {
			return model.Subscription{}, store.ErrNotFound
		}
		return model.Subscription{Email: email, Ticker: *ticker}, nil
	}
	return t.store.FindSubscription(ctx, email)
}

func (t *tx) CreateSubscription(ctx context.Context, sub model.Subscription) error {
	if err := t.check("create"); err != nil {
		return err
	}
	if _, err := t.FindSubscription(ctx, sub.Email); err == nil {
		return store.ErrConflict
	}
	ticker := sub.Ticker
	t.staged[sub.Email] = &ticker
	return nil
}

func (t *tx) UpdateTicker(ctx context.Context, email, ticker string) error {
	if err := t.check("update"); err != nil {
		return err
	}
	if _, err := t.FindSubscription(ctx, email); err != nil {
		return err
	}
	t.staged[email] = &ticker
	return nil
}

func (t *tx) DeleteSubscription(ctx context.Context, email string) error {
	if err := t.check("delete"); err != nil {
		return err
	}
	if _, err := t.FindSubscription(ctx, email); err != nil {
		return err
	}
	t.staged[email] = nil
	return nil
}
