// Package workqueue derives priority, age and summary data from snapshots of
// pending work queue items. Every function is pure: the current instant is
// passed in and inputs are never mutated.
package workqueue

import (
	"strings"

	"github.com/retentionhub/churn-console/internal/domain"
)

// ClassifyConfidence maps the upstream confidence text onto a priority.
// Rules are checked in order against the lowercased text:
// "excellent" or "high" → High, "good" → Medium, anything else → Low.
func ClassifyConfidence(confidence string) domain.Priority {
	c := strings.ToLower(confidence)
	switch {
	case strings.Contains(c, "excellent"), strings.Contains(c, "high"):
		return domain.PriorityHigh
	case strings.Contains(c, "good"):
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// PriorityFromItem returns the item's explicit priority when set, otherwise
// the priority implied by its confidence.
func PriorityFromItem(item *domain.WorkQueueItem) domain.Priority {
	if item.Priority != nil && *item.Priority != "" {
		return *item.Priority
	}
	return ClassifyConfidence(item.Confidence)
}

// PriorityRank orders priorities: High 3, Medium 2, Low 1.
func PriorityRank(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 3
	case domain.PriorityMedium:
		return 2
	case domain.PriorityLow:
		return 1
	}
	return 0
}

// ItemRank is PriorityRank of the item's effective priority.
func ItemRank(item *domain.WorkQueueItem) int {
	return PriorityRank(PriorityFromItem(item))
}
