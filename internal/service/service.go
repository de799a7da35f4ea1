package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/rickgao/tickerwatch/internal/dedup"
	"github.com/rickgao/tickerwatch/internal/metrics"
	"github.com/rickgao/tickerwatch/internal/model"
	"github.com/rickgao/tickerwatch/internal/store"
)

// Service handles subscription mutations and reads.
type Service struct {
	store    store.Gateway
	cache    *dedup.Cache[MutationResult]
	validate *validator.Validate
	flights  singleflight.Group
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink. A nil sink disables metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a Service over gw, caching mutation outcomes in cache.
func New(gw store.Gateway, cache *dedup.Cache[MutationResult], opts ...Option) *Service {
	s := &Service{
		store:    gw,
		cache:    cache,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Cache returns the deduplication cache.
func (s *Service) Cache() *dedup.Cache[MutationResult] {
	return s.cache
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Register creates a subscription for email.
func (s *Service) Register(ctx context.Context, requestID, email, ticker string) (MutationResult, error) {
	return s.mutate(ctx, "register", requestID, email, func(ctx context.Context, tx store.Tx) (Outcome, error) {
		if _, err := tx.FindSubscription(ctx, email); err == nil {
			return OutcomeAlreadyRegistered, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("find subscription: %w", err)
		}

		err := tx.CreateSubscription(ctx, model.Subscription{Email: email, Ticker: ticker})
		switch {
		case errors.Is(err, store.ErrConflict):
			return OutcomeAlreadyRegistered, nil
		case err != nil:
			return "", fmt.Errorf("create subscription: %w", err)
		}
		return OutcomeRegistered, nil
	})
}

// Update changes the ticker of an existing subscription.
func (s *Service) Update(ctx context.Context, requestID, email, ticker string) (MutationResult, error) {
	return s.mutate(ctx, "update", requestID, email, func(ctx context.Context, tx store.Tx) (Outcome, error) {
		sub, err := tx.FindSubscription(ctx, email)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return OutcomeNotFound, nil
		case err != nil:
			return "", fmt.Errorf("find subscription: %w", err)
		}
		if sub.Ticker == ticker {
			return OutcomeUnchanged, nil
		}

		err = tx.UpdateTicker(ctx, email, ticker)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return OutcomeNotFound, nil
		case err != nil:
			return "", fmt.Errorf("update ticker: %w", err)
		}
		return OutcomeUpdated, nil
	})
}

// Delete removes the subscription for email.
func (s *Service) Delete(ctx context.Context, requestID, email string) (MutationResult, error) {
	return s.mutate(ctx, "delete", requestID, email, func(ctx context.Context, tx store.Tx) (Outcome, error) {
		if _, err := tx.FindSubscription(ctx, email); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return OutcomeNotFound, nil
			}
			return "", fmt.Errorf("find subscription: %w", err)
		}

		err := tx.DeleteSubscription(ctx, email)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return OutcomeNotFound, nil
		case err != nil:
			return "", fmt.Errorf("delete subscription: %w", err)
		}
		return OutcomeDeleted, nil
	})
}

type applyFunc func(ctx context.Context, tx store.Tx) (Outcome, error)

// mutate brackets apply with the cache lookup and store for requestID.
func (s *Service) mutate(ctx context.Context, op, requestID, email string, apply applyFunc) (MutationResult, error) {
	if requestID == "" {
		return MutationResult{}, ErrMissingRequestID
	}

	if res, ok := s.cache.Lookup(requestID); ok {
		s.replayed(op, requestID, res)
		return res, nil
	}

	v, err, _ := s.flights.Do(requestID, func() (any, error) {
		// A flight for this identity may have finished between the lookup above and here.
		if res, ok := s.cache.Lookup(requestID); ok {
			s.replayed(op, requestID, res)
			return res, nil
		}

		res, err := s.execute(ctx, op, requestID, email, apply)
		if err != nil {
			return MutationResult{}, err
		}
		s.cache.Store(requestID, res)
		s.metrics.ObserveMutation(op, string(res.Outcome))
		return res, nil
	})
	if err != nil {
		return MutationResult{}, err
	}
	return v.(MutationResult), nil
}

func (s *Service) execute(ctx context.Context, op, requestID, email string, apply applyFunc) (MutationResult, error) {
	if !s.validEmail(email) {
		s.logger.Info("invalid email", "op", op, "request_id", requestID, "email", email)
		return result(OutcomeInvalidEmail), nil
	}

	// Work already started completes even if the caller gives up, so the
	// outcome lands in the cache for the caller's retry.
	ctx = context.WithoutCancel(ctx)

	var outcome Outcome
	err := s.store.WithinTx(ctx, func(tx store.Tx) error {
		o, err := apply(ctx, tx)
		if err != nil {
			return err
		}
		outcome = o
		return nil
	})
	if err != nil {
		s.logger.Error("mutation failed", "op", op, "request_id", requestID, "email", email, "error", err)
		return MutationResult{}, fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}

	s.logger.Info("mutation applied", "op", op, "request_id", requestID, "email", email, "outcome", outcome)
	return result(outcome), nil
}

func (s *Service) replayed(op, requestID string, res MutationResult) {
	s.metrics.ObserveReplay(op)
	s.logger.Debug("replaying cached outcome", "op", op, "request_id", requestID, "outcome", res.Outcome)
}

func (s *Service) validEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}
