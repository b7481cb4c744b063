package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority is the coarse urgency class that drives default queue ordering.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority accepts any casing of High, Medium or Low.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	}
	return "", false
}

// AgeSeverity buckets how long an item has been waiting.
type AgeSeverity string

const (
	AgeFresh    AgeSeverity = "fresh"
	AgeWarning  AgeSeverity = "warning"
	AgeStale    AgeSeverity = "stale"
	AgeCritical AgeSeverity = "critical"
)

func (s AgeSeverity) IsValid() bool {
	switch s {
	case AgeFresh, AgeWarning, AgeStale, AgeCritical:
		return true
	}
	return false
}

// ItemStatus tracks an item through operator review.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemApproved  ItemStatus = "approved"
	ItemSnoozed   ItemStatus = "snoozed"
	ItemDismissed ItemStatus = "dismissed"
	// ItemResolved marks an item upstream stopped reporting as pending.
	ItemResolved  ItemStatus = "resolved"
)

// WorkQueueItem is a pending automated action synced from the upstream
// retention API. CreatedAt is the zero time when upstream sent a value that
// could not be parsed.
type WorkQueueItem struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	ActionType     string          `json:"action_type,omitempty"`
	Title          string          `json:"title,omitempty"`
	Description    string          `json:"description,omitempty"`
	Priority       *Priority       `json:"priority,omitempty"`
	Confidence     string          `json:"confidence,omitempty"`
	PotentialValue *float64        `json:"potential_value,omitempty"`
	ChurnScore     *float64        `json:"churn_score,omitempty"`
	LastActivityAt *time.Time      `json:"last_activity_at,omitempty"`
	Status         ItemStatus      `json:"status"`
	SnoozedUntil   *time.Time      `json:"snoozed_until,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Summary is the aggregate view of the queue, recomputed on every read.
type Summary struct {
	PendingApprovals int     `json:"pending_approvals"`
	HighValueCount   int     `json:"high_value_count"`
	StaleCount       int     `json:"stale_count"`
	TotalValueAtRisk float64 `json:"total_value_at_risk"`
	OldestPendingAge *string `json:"oldest_pending_age"`
}

// ListFilter narrows the derived queue listing. Zero values mean no filter.
type ListFilter struct {
	Priority *Priority
	Severity *AgeSeverity
	Limit    int
}

// IsPending reports whether the item awaits a decision at now: pending, or
// snoozed with the snooze already over.
func (it *WorkQueueItem) IsPending(now time.Time) bool {
	switch it.Status {
	case ItemPending:
		return true
	case ItemSnoozed:
		return it.SnoozedUntil != nil && !it.SnoozedUntil.After(now)
	}
	return false
}
