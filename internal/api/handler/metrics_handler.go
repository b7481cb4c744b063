package handler

import (
	"net/http"

	"github.com/retentionhub/churn-console/internal/notify"
	"github.com/retentionhub/churn-console/internal/queue"
)

// MetricsHandler serves a JSON snapshot of the action queue and
// notification list. Prometheus metrics live at /metrics.
type MetricsHandler struct {
	q     *queue.PriorityQueue
	notes *notify.Store
}

func NewMetricsHandler(q *queue.PriorityQueue, notes *notify.Store) *MetricsHandler {
	return &MetricsHandler{q: q, notes: notes}
}

// GetMetrics handles GET /api/v1/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	high, medium, low := h.q.Depths()
	respondJSON(w, http.StatusOK, map[string]any{
		"action_queue_depth": map[string]int{
			"high":   high,
			"medium": medium,
			"low":    low,
			"total":  high + medium + low,
		},
		"notifications_visible": h.notes.Len(),
	})
}
