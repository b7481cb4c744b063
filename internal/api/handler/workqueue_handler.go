package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/retentionhub/churn-console/internal/api/middleware"
	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/service"
)

const maxListLimit = 500

// WorkQueueHandler serves the derived work queue and operator actions.
type WorkQueueHandler struct {
	svc    *service.WorkQueueService
	logger *zap.Logger
}

func NewWorkQueueHandler(svc *service.WorkQueueService, logger *zap.Logger) *WorkQueueHandler {
	return &WorkQueueHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/work-queue
//
// @Summary  Pending items in default order with derived fields
// @Tags     work-queue
// @Produce  json
// @Param    priority  query     string  false  "High, Medium or Low"
// @Param    severity  query     string  false  "fresh, warning, stale or critical"
// @Param    limit     query     int     false  "Maximum items returned"
// @Success  200       {object}  map[string]any
// @Failure  422       {object}  map[string]string
// @Router   /api/v1/work-queue [get]
func (h *WorkQueueHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		mapError(w, err)
		return
	}

	views, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list work queue failed",
			zap.String("request_id", apimw.GetRequestID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"data":  views,
		"total": len(views),
	})
}

// Summary handles GET /api/v1/work-queue/summary
//
// @Summary  Aggregate figures over the pending queue
// @Tags     work-queue
// @Produce  json
// @Success  200  {object}  workqueue.SummaryView
// @Router   /api/v1/work-queue/summary [get]
func (h *WorkQueueHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context())
	if err != nil {
		h.logger.Error("work queue summary failed", zap.Error(err))
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Get handles GET /api/v1/work-queue/{id}
func (h *WorkQueueHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// Act handles POST /api/v1/work-queue/{id}/actions
//
// @Summary  Approve, snooze or dismiss a pending item
// @Tags     work-queue
// @Accept   json
// @Produce  json
// @Param    id    path      string                true  "Work queue item id"
// @Param    body  body      domain.ActionRequest  true  "Decision"
// @Success  202   {object}  domain.Action
// @Failure  404   {object}  map[string]string
// @Failure  409   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/work-queue/{id}/actions [post]
func (h *WorkQueueHandler) Act(w http.ResponseWriter, r *http.Request) {
	var req domain.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a, err := h.svc.Act(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Warn("work queue action failed",
			zap.String("request_id", apimw.GetRequestID(r.Context())),
			zap.String("item_id", chi.URLParam(r, "id")),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, a)
}

// GetAction handles GET /api/v1/actions/{id}
func (h *WorkQueueHandler) GetAction(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func parseListFilter(r *http.Request) (domain.ListFilter, error) {
	q := r.URL.Query()
	var filter domain.ListFilter

	if p := q.Get("priority"); p != "" {
		pr, ok := domain.ParsePriority(p)
		if !ok {
			return filter, domain.ErrInvalidPriority
		}
		filter.Priority = &pr
	}
	if s := q.Get("severity"); s != "" {
		sev := domain.AgeSeverity(s)
		if !sev.IsValid() {
			return filter, domain.ErrInvalidSeverity
		}
		filter.Severity = &sev
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		filter.Limit = min(l, maxListLimit)
	}
	return filter, nil
}
