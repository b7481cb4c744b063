package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/notify"
)

// NotificationHandler exposes the transient notification list the
// dashboard renders as toasts.
type NotificationHandler struct {
	store  *notify.Store
	logger *zap.Logger
}

func NewNotificationHandler(store *notify.Store, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{store: store, logger: logger}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"data": h.store.List()})
}

// Create handles POST /api/v1/notifications
//
// @Summary  Show a notification
// @Tags     notifications
// @Accept   json
// @Produce  json
// @Param    body  body      domain.CreateNotificationRequest  true  "Notification"
// @Success  201   {object}  domain.Notification
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/notifications [post]
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		mapError(w, err)
		return
	}

	var opts []notify.AddOption
	if req.AutoDismiss != nil && !*req.AutoDismiss {
		opts = append(opts, notify.WithoutAutoDismiss())
	}
	if req.DurationMs > 0 {
		opts = append(opts, notify.WithDuration(time.Duration(req.DurationMs)*time.Millisecond))
	}

	n := domain.Notification{
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		ActionLabel: req.ActionLabel,
		ActionHref:  req.ActionHref,
	}
	n.ID = h.store.Add(n, opts...)
	respondJSON(w, http.StatusCreated, n)
}

// Dismiss handles DELETE /api/v1/notifications/{id}. Unknown ids succeed.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.store.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
