package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/notify"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/repository"
	"github.com/retentionhub/churn-console/internal/upstream"
	"github.com/retentionhub/churn-console/internal/workqueue"
)

// SyncHooks carries the callbacks the sync worker publishes to.
type SyncHooks struct {
	OnSummary     func(domain.Summary)
	OnResult      func(ok bool)
	OnQueueDepths func(high, medium, low int)
}

// SyncWorker pulls the pending work queue from upstream every interval,
// stores it and recomputes the queue summary.
type SyncWorker struct {
	client   upstream.Client
	repo     repository.WorkQueueRepository
	engine   *workqueue.Engine
	notes    *notify.Store
	q        *queue.PriorityQueue
	interval time.Duration
	hooks    SyncHooks
	logger   *zap.Logger

	failing bool
}

func NewSyncWorker(
	client upstream.Client,
	repo repository.WorkQueueRepository,
	engine *workqueue.Engine,
	notes *notify.Store,
	q *queue.PriorityQueue,
	interval time.Duration,
	hooks SyncHooks,
	logger *zap.Logger,
) *SyncWorker {
	if hooks.OnSummary == nil {
		hooks.OnSummary = func(domain.Summary) {}
	}
	if hooks.OnResult == nil {
		hooks.OnResult = func(bool) {}
	}
	if hooks.OnQueueDepths == nil {
		hooks.OnQueueDepths = func(int, int, int) {}
	}
	return &SyncWorker{
		client: client, repo: repo, engine: engine, notes: notes, q: q,
		interval: interval, hooks: hooks, logger: logger,
	}
}

// Run syncs once immediately, then every interval until ctx is cancelled.
func (sw *SyncWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.logger.Info("sync worker started", zap.Duration("interval", sw.interval))
	sw.Sync(ctx)

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info("sync worker stopping")
			return
		case <-ticker.C:
			sw.Sync(ctx)
		}
	}
}

// Sync performs one upstream sync. Only the first failure of a streak
// raises an error notification; the next success clears the streak.
func (sw *SyncWorker) Sync(ctx context.Context) error {
	sw.hooks.OnQueueDepths(sw.q.Depths())

	summary, err := sw.sync(ctx)
	sw.hooks.OnResult(err == nil)
	if err != nil {
		sw.logger.Error("work queue sync failed", zap.Error(err))
		if !sw.failing {
			sw.notes.Add(domain.Notification{
				Type:    domain.NotificationError,
				Title:   "Failed to load work queue",
				Message: "Retrying in " + sw.interval.String(),
			})
		}
		sw.failing = true
		return err
	}

	if sw.failing {
		sw.logger.Info("work queue sync recovered")
	}
	sw.failing = false
	sw.hooks.OnSummary(summary)
	return nil
}

func (sw *SyncWorker) sync(ctx context.Context) (domain.Summary, error) {
	items, err := sw.client.FetchPending(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("fetch pending: %w", err)
	}

	if _, err := sw.repo.UpsertItems(ctx, items); err != nil {
		return domain.Summary{}, fmt.Errorf("upsert items: %w", err)
	}

	keep := make([]string, len(items))
	for i, it := range items {
		keep[i] = it.ID
	}
	resolved, err := sw.repo.ResolveMissing(ctx, keep)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("resolve missing: %w", err)
	}

	now := sw.engine.Now()
	pending, err := sw.repo.ListPending(ctx, now)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("list pending: %w", err)
	}

	summary := workqueue.BuildSummary(pending, now, sw.engine.Thresholds())
	sw.logger.Debug("work queue synced",
		zap.Int("fetched", len(items)),
		zap.Int("resolved", resolved),
		zap.Int("pending", summary.PendingApprovals),
	)
	return summary, nil
}
