package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rickgao/tickerwatch/internal/model"
	"github.com/rickgao/tickerwatch/internal/store"
)

// Login reports whether email has a subscription.
func (s *Service) Login(ctx context.Context, email string) (LoginResult, error) {
	if !s.validEmail(email) {
		return LoginResult{Message: OutcomeInvalidEmail.Message()}, nil
	}

	_, err := s.store.FindSubscription(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.logger.Info("login for unknown user", "email", email)
		return LoginResult{Message: MessageLoginUnknown}, nil
	case err != nil:
		s.logger.Error("login failed", "email", email, "error", err)
		return LoginResult{}, fmt.Errorf("%w: login: %w", ErrInternal, err)
	}

	s.logger.Info("user logged in", "email", email)
	return LoginResult{Message: MessageLoginOK, Success: true}, nil
}

// LatestValue returns the most recent sample of the ticker email subscribes to.
func (s *Service) LatestValue(ctx context.Context, email string) (model.ValueSample, error) {
	sub, err := s.subscription(ctx, email)
	if err != nil {
		return model.ValueSample{}, err
	}

	sample, err := s.store.LatestSample(ctx, sub.Ticker)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return model.ValueSample{}, fmt.Errorf("no samples for %s: %w", sub.Ticker, ErrNotFound)
	case err != nil:
		return model.ValueSample{}, fmt.Errorf("%w: latest sample: %w", ErrInternal, err)
	}
	return sample, nil
}

// AverageValue returns the mean of the count most recent samples of the
// ticker email subscribes to. Fewer samples than count are averaged as-is.
func (s *Service) AverageValue(ctx context.Context, email string, count int) (Average, error) {
	if count <= 0 {
		return Average{}, fmt.Errorf("count %d: %w", count, ErrNotFound)
	}

	sub, err := s.subscription(ctx, email)
	if err != nil {
		return Average{}, err
	}

	samples, err := s.store.RecentSamples(ctx, sub.Ticker, count)
	if err != nil {
		return Average{}, fmt.Errorf("%w: recent samples: %w", ErrInternal, err)
	}
	if len(samples) == 0 {
		return Average{}, fmt.Errorf("no samples for %s: %w", sub.Ticker, ErrNotFound)
	}

	return Average{
		Ticker:  sub.Ticker,
		Value:   mean(samples),
		Samples: len(samples),
	}, nil
}

func (s *Service) subscription(ctx context.Context, email string) (model.Subscription, error) {
	sub, err := s.store.FindSubscription(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return model.Subscription{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
	case err != nil:
		return model.Subscription{}, fmt.Errorf("%w: find subscription: %w", ErrInternal, err)
	}
	return sub, nil
}

func mean(samples []model.ValueSample) float64 {
	sum := decimal.Zero
	for _, s := range samples {
		sum = sum.Add(decimal.NewFromFloat(s.Value))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(samples)))).Float64()
	return avg
}
