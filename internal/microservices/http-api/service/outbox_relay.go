package service

import (
	"context"
	"sync/atomic"
	"time"

	"revivalhub/internal/metrics"
	"revivalhub/internal/microservices/http-api/repository"
	"revivalhub/internal/worker"

	"go.uber.org/zap"
)

type RelayConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	Workers     int
	// Retention > 0 prunes read notifications older than this on every pass.
	Retention time.Duration
}

// OutboxRelay delivers owner notifications whose delivery failed during the
// request that created them.
type OutboxRelay struct {
	outbox        repository.OutboxRepository
	notifications NotificationService
	cfg           RelayConfig
	log           *zap.Logger
	now           func() time.Time
}

func NewOutboxRelay(outbox repository.OutboxRepository, notifications NotificationService, cfg RelayConfig, log *zap.Logger) *OutboxRelay {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &OutboxRelay{
		outbox:        outbox,
		notifications: notifications,
		cfg:           cfg,
		log:           log,
		now:           time.Now,
	}
}

// Run performs a pass every interval until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.log.Info("outbox relay started", zap.Duration("interval", r.cfg.Interval))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Error("outbox relay pass failed", zap.Error(err))
			}
		}
	}
}

// RunOnce delivers one batch and returns how many entries were delivered.
// Entries younger than one interval are skipped; their request may still be
// delivering them.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	start := r.now()
	defer func() {
		metrics.RelayPassDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := r.outbox.ListUndelivered(ctx, start.Add(-r.cfg.Interval), r.cfg.MaxAttempts, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	var delivered int64
	if len(entries) > 0 {
		pool := worker.NewPool(ctx, r.cfg.Workers, r.log)
		pool.Start()
		for i := range entries {
			entry := entries[i]
			pool.Submit(func(ctx context.Context) error {
				if err := r.notifications.Deliver(ctx, &entry); err != nil {
					metrics.NotificationDeliveryFailures.WithLabelValues("relay").Inc()
					if rerr := r.outbox.RecordFailure(ctx, entry.ID, err.Error()); rerr != nil {
						r.log.Error("failed to record outbox failure", zap.String("outbox_id", entry.ID), zap.Error(rerr))
					}
					return err
				}
				atomic.AddInt64(&delivered, 1)
				return nil
			})
		}
		pool.Wait()
		r.log.Info("outbox relay pass",
			zap.Int("candidates", len(entries)),
			zap.Int64("delivered", delivered),
		)
	}

	if backlog, err := r.outbox.CountUndelivered(ctx); err != nil {
		r.log.Warn("failed to count outbox backlog", zap.Error(err))
	} else {
		metrics.OutboxBacklog.Set(float64(backlog))
	}

	if r.cfg.Retention > 0 {
		if _, err := r.notifications.PruneRead(ctx, start.Add(-r.cfg.Retention)); err != nil {
			r.log.Warn("notification retention prune failed", zap.Error(err))
		}
	}
	return int(delivered), nil
}
