package upstream

import (
	"context"

	"github.com/retentionhub/churn-console/internal/domain"
)

// SubmitRequest is the JSON body posted upstream for an operator decision.
type SubmitRequest struct {
	ActionID    string  `json:"actionId"`
	Kind        string  `json:"kind"`
	SnoozeUntil *string `json:"snoozeUntil,omitempty"`
}

// SubmitResponse is what the upstream API acknowledges a decision with.
type SubmitResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Client is the retention API as seen by this service.
// Tests substitute an in-process fake for the HTTP implementation.
type Client interface {
	FetchPending(ctx context.Context) ([]*domain.WorkQueueItem, error)
	SubmitAction(ctx context.Context, a *domain.Action) (*SubmitResponse, error)
}
