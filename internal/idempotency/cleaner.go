package idempotency

import (
	"context"
	"log/slog"
	"time"
)

// Purger removes stale entries from a store.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// Cleaner purges a store on a fixed interval.
type Cleaner struct {
	store    Purger
	log      *slog.Logger
	interval time.Duration
}

func NewCleaner(store Purger, log *slog.Logger, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}

	return &Cleaner{
		store:    store,
		log:      log,
		interval: interval,
	}
}

// Run purges until ctx is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	removed, err := c.store.Purge(ctx)
	if err != nil {
		c.log.Error("idempotency cleanup failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		c.log.Debug("idempotency records purged", slog.Int("count", removed))
	}
}
