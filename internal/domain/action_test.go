package domain_test

import (
	"testing"

	"github.com/retentionhub/churn-console/internal/domain"
)

func TestActionRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  domain.ActionRequest
		want error
	}{
		{"approve", domain.ActionRequest{Kind: domain.ActionApprove}, nil},
		{"dismiss", domain.ActionRequest{Kind: domain.ActionDismiss}, nil},
		{"snooze default duration", domain.ActionRequest{Kind: domain.ActionSnooze}, nil},
		{"snooze with duration", domain.ActionRequest{Kind: domain.ActionSnooze, SnoozeMinutes: 30}, nil},
		{"snooze at max", domain.ActionRequest{Kind: domain.ActionSnooze, SnoozeMinutes: domain.MaxSnoozeMinutes}, nil},
		{"snooze over max", domain.ActionRequest{Kind: domain.ActionSnooze, SnoozeMinutes: domain.MaxSnoozeMinutes + 1}, domain.ErrInvalidSnooze},
		{"negative snooze", domain.ActionRequest{Kind: domain.ActionSnooze, SnoozeMinutes: -1}, domain.ErrInvalidSnooze},
		{"snooze minutes on approve", domain.ActionRequest{Kind: domain.ActionApprove, SnoozeMinutes: 5}, domain.ErrInvalidSnooze},
		{"unknown kind", domain.ActionRequest{Kind: "escalate"}, domain.ErrInvalidActionKind},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestActionKind_ItemStatus(t *testing.T) {
	cases := map[domain.ActionKind]domain.ItemStatus{
		domain.ActionApprove: domain.ItemApproved,
		domain.ActionSnooze:  domain.ItemSnoozed,
		domain.ActionDismiss: domain.ItemDismissed,
	}
	for kind, want := range cases {
		if got := kind.ItemStatus(); got != want {
			t.Fatalf("kind %q: expected %q, got %q", kind, want, got)
		}
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]domain.Priority{
		"High":   domain.PriorityHigh,
		"medium": domain.PriorityMedium,
		" LOW ":  domain.PriorityLow,
	} {
		got, ok := domain.ParsePriority(in)
		if !ok || got != want {
			t.Fatalf("ParsePriority(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := domain.ParsePriority("urgent"); ok {
		t.Fatal("expected urgent to be rejected")
	}
}

func TestCreateNotificationRequest_Validate(t *testing.T) {
	valid := domain.CreateNotificationRequest{Type: domain.NotificationInfo, Title: "Synced"}

	if err := valid.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	r := valid
	r.Type = "banner"
	if err := r.Validate(); err != domain.ErrInvalidNotificationType {
		t.Fatalf("expected ErrInvalidNotificationType, got %v", err)
	}

	r = valid
	r.Title = ""
	if err := r.Validate(); err != domain.ErrInvalidNotificationTitle {
		t.Fatalf("expected ErrInvalidNotificationTitle, got %v", err)
	}

	r = valid
	r.DurationMs = -5
	if err := r.Validate(); err != domain.ErrInvalidNotificationDuration {
		t.Fatalf("expected ErrInvalidNotificationDuration, got %v", err)
	}
}
