package eventlog

import (
	"context"
	"log/slog"
	"time"

	"railhook/internal/platform/metrics"
)

// Sweeper periodically purges entries older than the retention horizon.
// Housekeeping only: failures are logged and never propagated.
type Sweeper struct {
	store     Store
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewSweeper builds a sweeper. retention is how long rows are kept (60 days
// in production), interval how often the sweep runs.
func NewSweeper(store Store, retention, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		store:     store,
		retention: retention,
		interval:  interval,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Run sweeps on a fixed schedule until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one purge pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.retention)
	deleted, err := s.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "event log sweep failed", "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.SweeperDeleted.Add(float64(deleted))
	}
	s.logger.InfoContext(ctx, "event log sweep completed",
		"deleted", deleted,
		"cutoff", cutoff,
	)
}
