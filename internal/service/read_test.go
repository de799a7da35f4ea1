package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/tickerwatch/internal/dedup"
	"github.com/rickgao/tickerwatch/internal/model"
	"github.com/rickgao/tickerwatch/internal/store/memory"
)

// failingGateway fails every non-transactional read.
type failingGateway struct {
	*memory.Store
	err error
}

func (g *failingGateway) FindSubscription(context.Context, string) (model.Subscription, error) {
	return model.Subscription{}, g.err
}

func TestLogin(t *testing.T) {
	f := newFixture(t, dedup.DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "r-1", "a@x.com", "AAPL")
	require.NoError(t, err)

	tests := []struct {
		email   string
		message string
		success bool
	}{
		{"a@x.com", "Login successful!", true},
		{"b@x.com", "User not found!", false},
		{"bad", "Invalid email format.", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			res, err := f.svc.Login(ctx, tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.success, res.Success)
		})
	}
	assert.Equal(t, 1, f.cache.Len(), "reads must not touch the cache")
}

func TestLatestValue(t *testing.T) {
	f := newFixture(t, dedup.DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.LatestValue(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound, "unknown user")

	_, err = f.svc.Register(ctx, "r-1", "a@x.com", "AAPL")
	require.NoError(t, err)

	_, err = f.svc.LatestValue(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound, "no samples")

	seedSamples(f.store, "AAPL", 30, 20, 10)
	seedSamples(f.store, "MSFT", 99)

	got, err := f.svc.LatestValue(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Ticker)
	assert.Equal(t, 30.0, got.Value)
	assert.Equal(t, "2024-01-01 12:00:00", got.FormatTimestamp())
}

func TestAverageValue(t *testing.T) {
	f := newFixture(t, dedup.DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "r-1", "a@x.com", "AAPL")
	require.NoError(t, err)
	seedSamples(f.store, "AAPL", 10, 20, 30)

	tests := []struct {
		name    string
		count   int
		want    float64
		samples int
		wantErr error
	}{
		{"two most recent", 2, 15.0, 2, nil},
		{"all", 3, 20.0, 3, nil},
		{"more than available", 10, 20.0, 3, nil},
		{"zero count", 0, 0, 0, ErrNotFound},
		{"negative count", -1, 0, 0, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.AverageValue(ctx, "a@x.com", tt.count)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "AAPL", got.Ticker)
			assert.InDelta(t, tt.want, got.Value, 1e-9)
			assert.Equal(t, tt.samples, got.Samples)
		})
	}
}

func TestAverageValue_NoSamples(t *testing.T) {
	f := newFixture(t, dedup.DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "r-1", "a@x.com", "AAPL")
	require.NoError(t, err)

	_, err = f.svc.AverageValue(ctx, "a@x.com", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AverageValue(ctx, "nobody@x.com", 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReads_StoreFault(t *testing.T) {
	f := newFixture(t, dedup.DefaultConfig())
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "r-1", "a@x.com", "AAPL")
	require.NoError(t, err)

	down := &failingGateway{Store: f.store, err: errors.New("pool closed")}
	svc := New(down, f.cache)

	_, err = svc.Login(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrInternal)
	_, err = svc.LatestValue(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrInternal)
	_, err = svc.AverageValue(ctx, "a@x.com", 2)
	assert.ErrorIs(t, err, ErrInternal)
}
