package scheduler

import (
	"context"
	"time"

	"evwarranty_backend/internal/notification/outbox"
	"evwarranty_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultOutboxCleanupInterval    = time.Hour
	defaultOutboxSucceededRetention = 14 * 24 * time.Hour
	defaultOutboxFailedRetention    = 30 * 24 * time.Hour
)

// OutboxCleanup periodically removes finished notification outbox records.
// Failed records are kept longer so delivery problems stay inspectable.
type OutboxCleanup struct {
	repo               *outbox.Repository
	log                *logger.Logger
	interval           time.Duration
	succeededRetention time.Duration
	failedRetention    time.Duration
}

func NewOutboxCleanup(pool *pgxpool.Pool, log *logger.Logger, interval, succeededRetention, failedRetention time.Duration) *OutboxCleanup {
	if interval <= 0 {
		interval = defaultOutboxCleanupInterval
	}
	if succeededRetention <= 0 {
		succeededRetention = defaultOutboxSucceededRetention
	}
	if failedRetention <= 0 {
		failedRetention = defaultOutboxFailedRetention
	}

	return &OutboxCleanup{
		repo:               outbox.New(pool),
		log:                log,
		interval:           interval,
		succeededRetention: succeededRetention,
		failedRetention:    failedRetention,
	}
}

func (c *OutboxCleanup) Run(ctx context.Context) {
	if c == nil || c.repo == nil {
		return
	}

	c.cleanup(ctx)

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

func (c *OutboxCleanup) cleanup(ctx context.Context) {
	now := time.Now().UTC()
	removed, err := c.repo.DeleteFinishedBefore(ctx,
		now.Add(-c.succeededRetention),
		now.Add(-c.failedRetention),
	)
	if err != nil {
		c.log.Warn("outbox cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		c.log.Info("outbox cleanup removed finished records", "count", removed)
	}
}
