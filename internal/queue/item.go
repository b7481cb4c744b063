package queue

import "github.com/retentionhub/churn-console/internal/domain"

// Item is the minimal data placed on the queue.
// Workers load the full Action from the repository by ID, so a decision
// changed after enqueue is always delivered in its latest form.
type Item struct {
	ActionID string
	Kind     domain.ActionKind
	Priority domain.Priority
}
