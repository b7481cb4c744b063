package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/repository"
)

// RetryWorker polls the repository for failed actions whose next_retry_at
// has passed and puts them back on the queue. Retry times are persisted, so
// pending retries survive restarts.
type RetryWorker struct {
	repo     repository.WorkQueueRepository
	q        *queue.PriorityQueue
	interval time.Duration
	logger   *zap.Logger
}

func NewRetryWorker(
	repo repository.WorkQueueRepository,
	q *queue.PriorityQueue,
	interval time.Duration,
	logger *zap.Logger,
) *RetryWorker {
	return &RetryWorker{repo: repo, q: q, interval: interval, logger: logger}
}

// Run ticks every interval until ctx is cancelled.
func (rw *RetryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.logger.Info("retry worker started", zap.Duration("interval", rw.interval))

	for {
		select {
		case <-ctx.Done():
			rw.logger.Info("retry worker stopping")
			return
		case <-ticker.C:
			rw.Poll(ctx, time.Now().UTC())
		}
	}
}

// Poll re-enqueues every retry due at now and returns how many were queued.
func (rw *RetryWorker) Poll(ctx context.Context, now time.Time) int {
	actions, err := rw.repo.FindDueRetries(ctx, now)
	if err != nil {
		rw.logger.Error("retry poll error", zap.Error(err))
		return 0
	}

	queued := 0
	for _, a := range actions {
		if err := rw.q.Enqueue(queue.Item{
			ActionID: a.ID,
			Kind:     a.Kind,
			Priority: a.Priority,
		}); err != nil {
			rw.logger.Warn("could not re-enqueue retry",
				zap.String("id", a.ID), zap.Error(err))
			continue
		}

		if err := rw.repo.UpdateActionStatus(ctx, a.ID, domain.ActionQueued); err != nil {
			rw.logger.Error("failed to update status after re-enqueue",
				zap.String("id", a.ID), zap.Error(err))
		}
		queued++
	}

	if queued > 0 {
		rw.logger.Info("re-enqueued due retries", zap.Int("count", queued))
	}
	return queued
}
