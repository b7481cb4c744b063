package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound                    = errors.New("not found")
	ErrItemNotPending              = errors.New("work queue item is not pending")
	ErrInvalidActionKind           = errors.New("invalid action kind: must be approve, snooze, or dismiss")
	ErrInvalidSnooze               = errors.New("snooze_minutes must be between 0 and 10080 and only set for snooze")
	ErrInvalidPriority             = errors.New("invalid priority: must be High, Medium, or Low")
	ErrInvalidSeverity             = errors.New("invalid severity: must be fresh, warning, stale, or critical")
	ErrInvalidNotificationType     = errors.New("invalid notification type: must be info, success, warning, or error")
	ErrInvalidNotificationTitle    = errors.New("notification title must not be empty")
	ErrInvalidNotificationDuration = errors.New("duration_ms must not be negative")
	ErrQueueFull                   = errors.New("queue is at capacity, try again later")
	ErrUpstreamUnavailable         = errors.New("upstream retention API unavailable")
)
