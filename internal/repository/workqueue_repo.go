package repository

import (
	"context"
	"time"

	"github.com/retentionhub/churn-console/internal/domain"
)

// WorkQueueRepository defines all persistence for work queue items and the
// operator actions taken on them.
// The pgx implementation is in pg_workqueue_repo.go.
// Tests use a hand-written in-memory implementation (mock_workqueue_repo.go).
type WorkQueueRepository interface {
	// UpsertItems stores items synced from upstream. Items already decided
	// locally keep their status; resolved items that reappear go back to
	// pending; everything else is refreshed.
	UpsertItems(ctx context.Context, items []*domain.WorkQueueItem) (int, error)
	// ResolveMissing marks pending items whose id is not in keep as resolved.
	ResolveMissing(ctx context.Context, keep []string) (int, error)
	GetItem(ctx context.Context, id string) (*domain.WorkQueueItem, error)
	// ListPending returns pending items plus snoozed items whose snooze
	// ended at or before now.
	ListPending(ctx context.Context, now time.Time) ([]*domain.WorkQueueItem, error)

	// RecordDecision moves the action's item out of the pending list and
	// stores the action, atomically. It fails with domain.ErrItemNotPending
	// when the item is no longer pending at now, so two decisions on one
	// item cannot both be recorded.
	RecordDecision(ctx context.Context, a *domain.Action, now time.Time) error
	GetAction(ctx context.Context, id string) (*domain.Action, error)
	UpdateActionStatus(ctx context.Context, id string, status domain.ActionStatus) error
	MarkActionSent(ctx context.Context, id, upstreamRef string, sentAt time.Time) error
	MarkActionFailed(ctx context.Context, id, errMsg string) error
	ScheduleActionRetry(ctx context.Context, id string, retryCount int, nextRetry time.Time, errMsg string) error
	// ParkAction leaves a never-queued action pending until at. Parked
	// actions are due regardless of their retry budget.
	ParkAction(ctx context.Context, id string, at time.Time, reason string) error
	// FindDueRetries returns failed actions with retries left and parked
	// actions, whose next attempt is at or before now.
	FindDueRetries(ctx context.Context, now time.Time) ([]*domain.Action, error)
}
