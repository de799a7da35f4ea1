package dedup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Purger drops expired entries.
type Purger interface {
	Purge() int
}

// Janitor periodically purges expired cache entries so memory held by
// identities that are never replayed is released before capacity eviction.
type Janitor struct {
	interval time.Duration
	target   Purger
	clock    clockwork.Clock
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJanitor creates a Janitor. A nil clock uses the real clock.
func NewJanitor(interval time.Duration, target Purger, clock clockwork.Clock, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		interval: interval,
		target:   target,
		clock:    clock,
		logger:   logger,
	}
}

// Start begins the purge loop.
func (j *Janitor) Start(ctx context.Context) error {
	j.ctx, j.cancel = context.WithCancel(ctx)

	j.wg.Add(1)
	go j.run()

	j.logger.Info("dedup janitor started", "interval", j.interval)
	return nil
}

// Stop shuts down the purge loop.
func (j *Janitor) Stop(ctx context.Context) error {
	if j.cancel != nil {
		j.cancel()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.Info("dedup janitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Janitor) run() {
	defer j.wg.Done()

	ticker := j.clock.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-ticker.Chan():
			if n := j.target.Purge(); n > 0 {
				j.logger.Debug("purged expired request ids", "count", n)
			}
		}
	}
}
