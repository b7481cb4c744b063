package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/ratelimiter"
	"github.com/retentionhub/churn-console/internal/repository"
	"github.com/retentionhub/churn-console/internal/upstream"
)

// Worker pulls actions off the priority queue, waits for the per-kind rate
// limiter and submits each decision to the upstream API.
type Worker struct {
	id      int
	q       *queue.PriorityQueue
	repo    repository.WorkQueueRepository
	client  upstream.Client
	limiter *ratelimiter.ActionLimiters
	backoff []time.Duration
	logger  *zap.Logger
	now     func() time.Time

	onSent   func(kind domain.ActionKind, latency time.Duration)
	onFailed func(kind domain.ActionKind)
}

// NewWorker constructs a worker. onSent and onFailed may be nil.
func NewWorker(
	id int,
	q *queue.PriorityQueue,
	repo repository.WorkQueueRepository,
	client upstream.Client,
	limiter *ratelimiter.ActionLimiters,
	backoff []time.Duration,
	logger *zap.Logger,
	onSent func(domain.ActionKind, time.Duration),
	onFailed func(domain.ActionKind),
) *Worker {
	if onSent == nil {
		onSent = func(domain.ActionKind, time.Duration) {}
	}
	if onFailed == nil {
		onFailed = func(domain.ActionKind) {}
	}
	if len(backoff) == 0 {
		backoff = []time.Duration{5 * time.Second}
	}
	return &Worker{
		id: id, q: q, repo: repo, client: client,
		limiter: limiter, backoff: backoff, logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		onSent: onSent, onFailed: onFailed,
	}
}

// Run blocks until ctx is cancelled, processing one queue item per iteration.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started", zap.Int("id", w.id))
	for {
		item, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Info("worker stopping", zap.Int("id", w.id))
			return
		}
		w.process(ctx, item)
	}
}

func (w *Worker) process(ctx context.Context, item queue.Item) {
	start := time.Now()
	log := w.logger.With(
		zap.String("action_id", item.ActionID),
		zap.String("kind", string(item.Kind)),
	)

	a, err := w.repo.GetAction(ctx, item.ActionID)
	if err != nil {
		log.Error("failed to fetch action", zap.Error(err))
		return
	}

	// Delivered by an earlier attempt that was re-enqueued concurrently.
	if a.Status == domain.ActionSent {
		log.Debug("action already delivered")
		return
	}

	if err := w.repo.UpdateActionStatus(ctx, a.ID, domain.ActionProcessing); err != nil {
		log.Error("failed to mark as processing", zap.Error(err))
		return
	}

	if err := w.limiter.Wait(ctx, a.Kind); err != nil {
		return
	}

	resp, err := w.client.SubmitAction(ctx, a)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("upstream submit failed",
			zap.Error(err),
			zap.Int("retry_count", a.RetryCount),
		)
		w.handleFailure(ctx, a, err)
		w.onFailed(a.Kind)
		return
	}

	if err := w.repo.MarkActionSent(ctx, a.ID, resp.Reference, w.now()); err != nil {
		log.Error("failed to mark as sent", zap.Error(err))
		return
	}

	w.onSent(a.Kind, elapsed)
	log.Info("action delivered", zap.String("upstream_ref", resp.Reference), zap.Duration("latency", elapsed))
}

// handleFailure schedules a retry while retries remain, otherwise marks the
// action permanently failed. Attempt N waits backoff[N], clamped to the last
// entry.
func (w *Worker) handleFailure(ctx context.Context, a *domain.Action, sendErr error) {
	if a.RetryCount >= a.MaxRetries {
		if err := w.repo.MarkActionFailed(ctx, a.ID, sendErr.Error()); err != nil {
			w.logger.Error("failed to mark action as failed",
				zap.String("id", a.ID), zap.Error(err))
		}
		return
	}

	if err := w.repo.ScheduleActionRetry(ctx, a.ID, a.RetryCount+1, w.now().Add(Backoff(w.backoff, a.RetryCount)), sendErr.Error()); err != nil {
		w.logger.Error("failed to schedule retry",
			zap.String("id", a.ID), zap.Error(err))
	}
}

// Backoff returns the delay before retry attempt n.
func Backoff(schedule []time.Duration, n int) time.Duration {
	if len(schedule) == 0 {
		return 0
	}
	if n < 0 {
		n = 0
	}
	if n >= len(schedule) {
		n = len(schedule) - 1
	}
	return schedule[n]
}
