package domain

import "time"

// ActionKind is the operator decision taken on a work queue item.
type ActionKind string

const (
	ActionApprove ActionKind = "approve"
	ActionSnooze  ActionKind = "snooze"
	ActionDismiss ActionKind = "dismiss"
)

func (k ActionKind) IsValid() bool {
	switch k {
	case ActionApprove, ActionSnooze, ActionDismiss:
		return true
	}
	return false
}

// ItemStatus returns the status an item moves to once this action is taken.
func (k ActionKind) ItemStatus() ItemStatus {
	switch k {
	case ActionApprove:
		return ItemApproved
	case ActionSnooze:
		return ItemSnoozed
	default:
		return ItemDismissed
	}
}

// ActionStatus tracks delivery of a decision back to the upstream API.
type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionQueued     ActionStatus = "queued"
	ActionProcessing ActionStatus = "processing"
	ActionSent       ActionStatus = "sent"
	ActionFailed     ActionStatus = "failed"
)

const (
	MaxSnoozeMinutes     = 7 * 24 * 60
	DefaultSnoozeMinutes = 60
)

// Action is an operator decision queued for delivery upstream.
type Action struct {
	ID           string       `json:"id"`
	ItemID       string       `json:"item_id"`
	Kind         ActionKind   `json:"kind"`
	Priority     Priority     `json:"priority"`
	Status       ActionStatus `json:"status"`
	SnoozeUntil  *time.Time   `json:"snooze_until,omitempty"`
	RetryCount   int          `json:"retry_count"`
	MaxRetries   int          `json:"max_retries"`
	NextRetryAt  *time.Time   `json:"next_retry_at,omitempty"`
	SentAt       *time.Time   `json:"sent_at,omitempty"`
	UpstreamRef  *string      `json:"upstream_ref,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ActionRequest is the inbound payload for acting on an item.
type ActionRequest struct {
	Kind          ActionKind `json:"kind"`
	SnoozeMinutes int        `json:"snooze_minutes,omitempty"`
}

func (r *ActionRequest) Validate() error {
	if !r.Kind.IsValid() {
		return ErrInvalidActionKind
	}
	if r.SnoozeMinutes < 0 || r.SnoozeMinutes > MaxSnoozeMinutes {
		return ErrInvalidSnooze
	}
	if r.Kind != ActionSnooze && r.SnoozeMinutes != 0 {
		return ErrInvalidSnooze
	}
	return nil
}
