package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/notify"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/repository"
	"github.com/retentionhub/churn-console/internal/workqueue"
)

// WorkQueueService coordinates the repository, the derivation engine, the
// action queue and the notification store. HTTP handlers depend on this
// service, not on each other.
type WorkQueueService struct {
	repo       repository.WorkQueueRepository
	q          *queue.PriorityQueue
	engine     *workqueue.Engine
	notes      *notify.Store
	maxRetries int
	logger     *zap.Logger
}

func NewWorkQueueService(
	repo repository.WorkQueueRepository,
	q *queue.PriorityQueue,
	engine *workqueue.Engine,
	notes *notify.Store,
	maxRetries int,
	logger *zap.Logger,
) *WorkQueueService {
	return &WorkQueueService{
		repo: repo, q: q, engine: engine, notes: notes,
		maxRetries: maxRetries, logger: logger,
	}
}

// List returns the pending queue in default order with derived fields,
// narrowed by filter.
func (s *WorkQueueService) List(ctx context.Context, filter domain.ListFilter) ([]workqueue.ItemView, error) {
	items, err := s.repo.ListPending(ctx, s.engine.Now())
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	views := s.engine.Views(items)
	out := views[:0]
	for _, v := range views {
		if filter.Priority != nil && v.Priority != *filter.Priority {
			continue
		}
		if filter.Severity != nil && v.AgeSeverity != *filter.Severity {
			continue
		}
		out = append(out, v)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Summary aggregates the whole pending queue; filters do not apply.
func (s *WorkQueueService) Summary(ctx context.Context) (workqueue.SummaryView, error) {
	items, err := s.repo.ListPending(ctx, s.engine.Now())
	if err != nil {
		return workqueue.SummaryView{}, fmt.Errorf("list pending: %w", err)
	}
	return s.engine.Summary(items), nil
}

func (s *WorkQueueService) Get(ctx context.Context, id string) (workqueue.ItemView, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return workqueue.ItemView{}, err
	}
	return s.engine.Derive(item, s.engine.Now()), nil
}

// Act records an operator decision on a pending item, moves the item out of
// the pending list and queues the decision for upstream delivery.
func (s *WorkQueueService) Act(ctx context.Context, itemID string, req domain.ActionRequest) (*domain.Action, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.engine.Now().UTC()
	if !item.IsPending(now) {
		return nil, domain.ErrItemNotPending
	}

	a := &domain.Action{
		ID:         uuid.New().String(),
		ItemID:     item.ID,
		Kind:       req.Kind,
		Priority:   workqueue.PriorityFromItem(item),
		Status:     domain.ActionPending,
		MaxRetries: s.maxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Kind == domain.ActionSnooze {
		minutes := req.SnoozeMinutes
		if minutes == 0 {
			minutes = domain.DefaultSnoozeMinutes
		}
		until := now.Add(time.Duration(minutes) * time.Minute)
		a.SnoozeUntil = &until
	}

	// Re-checked atomically: a concurrent decision on the item loses here.
	if err := s.repo.RecordDecision(ctx, a, now); err != nil {
		if errors.Is(err, domain.ErrItemNotPending) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("record decision: %w", err)
	}

	s.enqueue(ctx, a, now)

	s.notes.Add(domain.Notification{
		Type:    domain.NotificationSuccess,
		Title:   actionTitle(req.Kind),
		Message: describeItem(item),
	})
	s.logger.Info("work queue action recorded",
		zap.String("item_id", item.ID),
		zap.String("action_id", a.ID),
		zap.String("kind", string(a.Kind)),
		zap.String("priority", string(a.Priority)),
	)
	return a, nil
}

func (s *WorkQueueService) GetAction(ctx context.Context, id string) (*domain.Action, error) {
	return s.repo.GetAction(ctx, id)
}

// enqueue places the action on the queue and marks it queued. When the
// queue is full the action is parked, due at now, and the retry worker
// picks it up on its next poll whatever its retry budget.
func (s *WorkQueueService) enqueue(ctx context.Context, a *domain.Action, now time.Time) {
	err := s.q.Enqueue(queue.Item{ActionID: a.ID, Kind: a.Kind, Priority: a.Priority})
	if err != nil {
		s.logger.Warn("action queue full: parking for retry",
			zap.String("action_id", a.ID), zap.Error(err))
		if err := s.repo.ParkAction(ctx, a.ID, now, err.Error()); err != nil {
			s.logger.Error("failed to park action", zap.String("action_id", a.ID), zap.Error(err))
		}
		return
	}

	if err := s.repo.UpdateActionStatus(ctx, a.ID, domain.ActionQueued); err != nil {
		s.logger.Error("failed to update action status to queued", zap.String("action_id", a.ID), zap.Error(err))
		return
	}
	a.Status = domain.ActionQueued
}

func actionTitle(k domain.ActionKind) string {
	switch k {
	case domain.ActionApprove:
		return "Action approved"
	case domain.ActionSnooze:
		return "Action snoozed"
	default:
		return "Action dismissed"
	}
}

func describeItem(it *domain.WorkQueueItem) string {
	switch {
	case it.CustomerName != "" && it.Title != "":
		return it.Title + " for " + it.CustomerName
	case it.Title != "":
		return it.Title
	case it.CustomerName != "":
		return it.CustomerName
	}
	return it.ID
}
