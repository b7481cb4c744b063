package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/retentionhub/churn-console/internal/domain"
)

// MockWorkQueueRepository is a hand-written, in-memory implementation of
// WorkQueueRepository used in unit tests.
type MockWorkQueueRepository struct {
	mu      sync.RWMutex
	items   map[string]*domain.WorkQueueItem
	order   []string
	actions map[string]*domain.Action

	// Optional error overrides: set in tests to simulate failure paths.
	UpsertErr   error
	ListErr     error
	DecisionErr error
}

func NewMockWorkQueueRepository() *MockWorkQueueRepository {
	return &MockWorkQueueRepository{
		items:   make(map[string]*domain.WorkQueueItem),
		actions: make(map[string]*domain.Action),
	}
}

func (m *MockWorkQueueRepository) UpsertItems(_ context.Context, items []*domain.WorkQueueItem) (int, error) {
	if m.UpsertErr != nil {
		return 0, m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, it := range items {
		clone := *it
		clone.UpdatedAt = now
		if existing, ok := m.items[it.ID]; ok {
			if existing.Status != domain.ItemPending && existing.Status != domain.ItemResolved {
				clone.Status = existing.Status
				clone.SnoozedUntil = existing.SnoozedUntil
			}
		} else {
			m.order = append(m.order, it.ID)
		}
		if clone.Status == "" || clone.Status == domain.ItemResolved {
			clone.Status = domain.ItemPending
		}
		m.items[it.ID] = &clone
	}
	return len(items), nil
}

func (m *MockWorkQueueRepository) ResolveMissing(_ context.Context, keep []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make(map[string]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}
	resolved := 0
	for id, it := range m.items {
		if it.Status == domain.ItemPending && !kept[id] {
			it.Status = domain.ItemResolved
			resolved++
		}
	}
	return resolved, nil
}

func (m *MockWorkQueueRepository) GetItem(_ context.Context, id string) (*domain.WorkQueueItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *it
	return &clone, nil
}

// ListPending returns items in insertion order.
func (m *MockWorkQueueRepository) ListPending(_ context.Context, now time.Time) ([]*domain.WorkQueueItem, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WorkQueueItem
	for _, id := range m.order {
		it := m.items[id]
		if it.IsPending(now) {
			clone := *it
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *MockWorkQueueRepository) RecordDecision(_ context.Context, a *domain.Action, now time.Time) error {
	if m.DecisionErr != nil {
		return m.DecisionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[a.ItemID]
	if !ok {
		return domain.ErrNotFound
	}
	if !it.IsPending(now) {
		return domain.ErrItemNotPending
	}
	it.Status = a.Kind.ItemStatus()
	it.SnoozedUntil = a.SnoozeUntil
	it.UpdatedAt = time.Now().UTC()

	clone := *a
	m.actions[a.ID] = &clone
	return nil
}

func (m *MockWorkQueueRepository) GetAction(_ context.Context, id string) (*domain.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.actions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *MockWorkQueueRepository) UpdateActionStatus(_ context.Context, id string, status domain.ActionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actions[id]; ok {
		a.Status = status
	}
	return nil
}

func (m *MockWorkQueueRepository) MarkActionSent(_ context.Context, id, upstreamRef string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actions[id]; ok {
		a.Status = domain.ActionSent
		a.UpstreamRef = &upstreamRef
		a.SentAt = &sentAt
		a.ErrorMessage = nil
		a.NextRetryAt = nil
	}
	return nil
}

func (m *MockWorkQueueRepository) MarkActionFailed(_ context.Context, id, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actions[id]; ok {
		a.Status = domain.ActionFailed
		a.ErrorMessage = &errMsg
		a.NextRetryAt = nil
	}
	return nil
}

func (m *MockWorkQueueRepository) ScheduleActionRetry(_ context.Context, id string, retryCount int, nextRetry time.Time, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actions[id]; ok {
		a.Status = domain.ActionFailed
		a.RetryCount = retryCount
		a.NextRetryAt = &nextRetry
		a.ErrorMessage = &errMsg
	}
	return nil
}

func (m *MockWorkQueueRepository) ParkAction(_ context.Context, id string, at time.Time, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actions[id]; ok {
		a.Status = domain.ActionPending
		a.NextRetryAt = &at
		a.ErrorMessage = &reason
	}
	return nil
}

func (m *MockWorkQueueRepository) FindDueRetries(_ context.Context, now time.Time) ([]*domain.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []*domain.Action
	for _, a := range m.actions {
		retryable := a.Status == domain.ActionFailed && a.RetryCount < a.MaxRetries
		parked := a.Status == domain.ActionPending
		if (retryable || parked) && a.NextRetryAt != nil && !a.NextRetryAt.After(now) {
			clone := *a
			due = append(due, &clone)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextRetryAt.Before(*due[j].NextRetryAt) })
	return due, nil
}
