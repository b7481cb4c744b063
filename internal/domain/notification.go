package domain

// NotificationType selects how the dashboard renders a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}

// Notification is a transient message shown to the operator.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message,omitempty"`
	ActionLabel string           `json:"action_label,omitempty"`
	ActionHref  string           `json:"action_href,omitempty"`
}

// CreateNotificationRequest is the inbound payload for posting a notification.
type CreateNotificationRequest struct {
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message,omitempty"`
	ActionLabel string           `json:"action_label,omitempty"`
	ActionHref  string           `json:"action_href,omitempty"`
	AutoDismiss *bool            `json:"auto_dismiss,omitempty"`
	DurationMs  int              `json:"duration_ms,omitempty"`
}

func (r *CreateNotificationRequest) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidNotificationType
	}
	if r.Title == "" {
		return ErrInvalidNotificationTitle
	}
	if r.DurationMs < 0 {
		return ErrInvalidNotificationDuration
	}
	return nil
}
