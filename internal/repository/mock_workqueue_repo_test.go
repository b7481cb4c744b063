package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/repository"
)

func TestMockRepository_ResolvedItemsReturnWhenSeenAgain(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := repository.NewMockWorkQueueRepository()

	items := []*domain.WorkQueueItem{{ID: "a", CreatedAt: now}, {ID: "b", CreatedAt: now}}
	if _, err := repo.UpsertItems(ctx, items); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	n, err := repo.ResolveMissing(ctx, []string{"a"})
	if err != nil || n != 1 {
		t.Fatalf("resolve missing = %d, %v", n, err)
	}
	pending, _ := repo.ListPending(ctx, now)
	if len(pending) != 1 || pending[0].ID != "a" {
		t.Fatalf("pending after resolve = %v", pending)
	}

	if _, err := repo.UpsertItems(ctx, items[1:]); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	b, _ := repo.GetItem(ctx, "b")
	if b.Status != domain.ItemPending {
		t.Fatalf("reappeared item status = %s, want pending", b.Status)
	}
}

func TestMockRepository_SnoozedItemsResurface(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := repository.NewMockWorkQueueRepository()
	if _, err := repo.UpsertItems(ctx, []*domain.WorkQueueItem{{ID: "a", CreatedAt: now}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	until := now.Add(time.Hour)
	snooze := &domain.Action{ID: "act-1", ItemID: "a", Kind: domain.ActionSnooze, SnoozeUntil: &until}
	if err := repo.RecordDecision(ctx, snooze, now); err != nil {
		t.Fatalf("snooze: %v", err)
	}

	tests := []struct {
		at   time.Time
		want int
	}{
		{now, 0},
		{until.Add(-time.Second), 0},
		{until, 1},
	}
	for _, tt := range tests {
		got, _ := repo.ListPending(ctx, tt.at)
		if len(got) != tt.want {
			t.Errorf("ListPending(%v) = %d items, want %d", tt.at, len(got), tt.want)
		}
	}

	// A sync must not undo the local snooze.
	if _, err := repo.UpsertItems(ctx, []*domain.WorkQueueItem{{ID: "a", CreatedAt: now}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	a, _ := repo.GetItem(ctx, "a")
	if a.Status != domain.ItemSnoozed {
		t.Fatalf("status after sync = %s, want snoozed", a.Status)
	}
}

func TestMockRepository_RecordDecisionRequiresPending(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := repository.NewMockWorkQueueRepository()
	if _, err := repo.UpsertItems(ctx, []*domain.WorkQueueItem{{ID: "a", CreatedAt: now}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	tests := []struct {
		name    string
		action  *domain.Action
		wantErr error
	}{
		{"first decision", &domain.Action{ID: "1", ItemID: "a", Kind: domain.ActionApprove}, nil},
		{"second decision", &domain.Action{ID: "2", ItemID: "a", Kind: domain.ActionDismiss}, domain.ErrItemNotPending},
		{"unknown item", &domain.Action{ID: "3", ItemID: "zz", Kind: domain.ActionDismiss}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.RecordDecision(ctx, tt.action, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RecordDecision = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := repo.GetAction(ctx, "2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("rejected decision was stored: %v", err)
	}
	a, _ := repo.GetItem(ctx, "a")
	if a.Status != domain.ItemApproved {
		t.Fatalf("status = %s, want approved", a.Status)
	}
}

func TestMockRepository_ParkedActionsAreDue(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := repository.NewMockWorkQueueRepository()
	if _, err := repo.UpsertItems(ctx, []*domain.WorkQueueItem{{ID: "a", CreatedAt: now}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	a := &domain.Action{ID: "1", ItemID: "a", Kind: domain.ActionApprove, Status: domain.ActionPending}
	if err := repo.RecordDecision(ctx, a, now); err != nil {
		t.Fatalf("record: %v", err)
	}

	if due, _ := repo.FindDueRetries(ctx, now); len(due) != 0 {
		t.Fatalf("unparked action reported due: %v", due)
	}
	if err := repo.ParkAction(ctx, "1", now, "queue full"); err != nil {
		t.Fatalf("park: %v", err)
	}
	due, _ := repo.FindDueRetries(ctx, now)
	if len(due) != 1 || due[0].ID != "1" {
		t.Fatalf("due = %v, want parked action", due)
	}
}
