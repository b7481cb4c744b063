package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/api"
	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/metrics"
	"github.com/retentionhub/churn-console/internal/notify"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/repository"
	"github.com/retentionhub/churn-console/internal/service"
	"github.com/retentionhub/churn-console/internal/workqueue"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type env struct {
	srv   *httptest.Server
	repo  *repository.MockWorkQueueRepository
	notes *notify.Store
}

func newEnv(t *testing.T, db pinger) *env {
	t.Helper()
	repo := repository.NewMockWorkQueueRepository()
	q := queue.New()
	notes := notify.NewStore(notify.WithDismissAfter(time.Hour))
	engine := workqueue.NewEngine(workqueue.WithClock(func() time.Time { return now }))
	svc := service.NewWorkQueueService(repo, q, engine, notes, 3, zap.NewNop())

	reg := prometheus.NewRegistry()
	metrics.New(reg)

	h := api.NewRouter(api.Deps{
		Service:  svc,
		Queue:    q,
		Notes:    notes,
		DB:       db,
		Gatherer: reg,
		Logger:   zap.NewNop(),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &env{srv: srv, repo: repo, notes: notes}
}

func (e *env) seed(t *testing.T, items ...*domain.WorkQueueItem) {
	t.Helper()
	_, err := e.repo.UpsertItems(context.Background(), items)
	require.NoError(t, err)
}

func (e *env) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func item(id string, p domain.Priority, age time.Duration, value float64) *domain.WorkQueueItem {
	return &domain.WorkQueueItem{
		ID:             id,
		CustomerName:   "Customer " + id,
		Title:          "Offer discount",
		Priority:       &p,
		PotentialValue: &value,
		Status:         domain.ItemPending,
		CreatedAt:      now.Add(-age),
	}
}

func TestHealth(t *testing.T) {
	resp, body := newEnv(t, pinger{}).do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = newEnv(t, pinger{err: errors.New("down")}).do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
}

func TestWorkQueue_ListAndSummary(t *testing.T) {
	e := newEnv(t, pinger{})
	e.seed(t,
		item("low", domain.PriorityLow, 30*time.Hour, 40),
		item("high", domain.PriorityHigh, 90*time.Minute, 1234.5),
	)

	resp, body := e.do(t, http.MethodGet, "/api/v1/work-queue", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total"])
	data := body["data"].([]any)
	first := data[0].(map[string]any)
	assert.Equal(t, "High", first["priority"])
	assert.Equal(t, "warning", first["age_severity"])
	assert.Equal(t, "1h 30m ago", first["relative_age"])
	assert.Contains(t, first["potential_value_text"], "1,234.50")

	resp, body = e.do(t, http.MethodGet, "/api/v1/work-queue?severity=critical", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	resp, _ = e.do(t, http.MethodGet, "/api/v1/work-queue?priority=urgent", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/api/v1/work-queue/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["pending_approvals"])
	assert.EqualValues(t, 1, body["high_value_count"])
	assert.EqualValues(t, 2, body["stale_count"])
	assert.Equal(t, "30:00:00", body["oldest_pending_age"])
	assert.Contains(t, body["total_value_at_risk_text"], "1,274.50")
}

func TestWorkQueue_ActFlow(t *testing.T) {
	e := newEnv(t, pinger{})
	e.seed(t, item("a", domain.PriorityMedium, time.Hour, 10))

	resp, _ := e.do(t, http.MethodGet, "/api/v1/work-queue/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/v1/work-queue/a/actions", map[string]any{"kind": "escalate"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/v1/work-queue/a/actions",
		map[string]any{"kind": "snooze", "snooze_minutes": 30})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "queued", body["status"])
	actionID := body["id"].(string)

	resp, body = e.do(t, http.MethodGet, "/api/v1/actions/"+actionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "snooze", body["kind"])

	resp, _ = e.do(t, http.MethodPost, "/api/v1/work-queue/a/actions", map[string]any{"kind": "approve"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = e.do(t, http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	depth := body["action_queue_depth"].(map[string]any)
	assert.EqualValues(t, 1, depth["medium"])
	assert.EqualValues(t, 1, body["notifications_visible"])
}

func TestNotifications(t *testing.T) {
	e := newEnv(t, pinger{})

	resp, _ := e.do(t, http.MethodPost, "/api/v1/notifications", map[string]any{"type": "loud", "title": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/v1/notifications", map[string]any{"type": "info"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/v1/notifications", map[string]any{
		"type": "warning", "title": "Sync slow", "auto_dismiss": false,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	assert.NotEmpty(t, id)

	resp, body = e.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	resp, _ = e.do(t, http.MethodDelete, "/api/v1/notifications/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, e.notes.Len())

	resp, _ = e.do(t, http.MethodDelete, "/api/v1/notifications/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestPrometheusEndpoint(t *testing.T) {
	resp, _ := newEnv(t, pinger{}).do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
