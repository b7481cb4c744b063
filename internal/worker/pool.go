package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/config"
	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/ratelimiter"
	"github.com/retentionhub/churn-console/internal/repository"
	"github.com/retentionhub/churn-console/internal/upstream"
)

// MetricHooks carries the metric callbacks injected by main.
type MetricHooks struct {
	OnSent   func(kind domain.ActionKind, latency time.Duration)
	OnFailed func(kind domain.ActionKind)
}

// Pool manages the lifecycle of the action delivery workers.
// All workers share one priority queue; the queue's double-select handles
// ordering.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

func NewPool(
	cfg *config.Config,
	q *queue.PriorityQueue,
	repo repository.WorkQueueRepository,
	client upstream.Client,
	limiter *ratelimiter.ActionLimiters,
	logger *zap.Logger,
	hooks MetricHooks,
) *Pool {
	n := cfg.ActionWorkers
	if n < 1 {
		n = 1
	}
	workers := make([]*Worker, n)

	for i := range workers {
		workers[i] = NewWorker(
			i, q, repo, client, limiter,
			cfg.RetryBackoff,
			logger.With(zap.Int("worker_id", i)),
			hooks.OnSent,
			hooks.OnFailed,
		)
	}

	return &Pool{workers: workers}
}

// Start launches all workers. Cancelling ctx shuts the pool down.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) Size() int { return len(p.workers) }
