package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/upstream"
)

func TestHTTPClient_FetchPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/work-queue", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[{"id":"wq-1","createdAt":"2026-03-01T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	c := upstream.NewHTTPClient(srv.URL+"/api/", "secret", time.Second, zap.NewNop())
	items, err := c.FetchPending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "wq-1", items[0].ID)
}

func TestHTTPClient_FetchPending_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := upstream.NewHTTPClient(srv.URL, "", time.Second, zap.NewNop())
	_, err := c.FetchPending(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestHTTPClient_SubmitAction(t *testing.T) {
	until := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/work-queue/wq-1/actions", r.URL.Path)
		assert.Equal(t, "act-1", r.Header.Get("Idempotency-Key"))

		var req upstream.SubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "snooze", req.Kind)
		require.NotNil(t, req.SnoozeUntil)
		assert.Equal(t, "2026-03-01T13:00:00Z", *req.SnoozeUntil)

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"reference":"up-77","status":"queued"}`))
	}))
	defer srv.Close()

	c := upstream.NewHTTPClient(srv.URL, "", time.Second, zap.NewNop())
	resp, err := c.SubmitAction(context.Background(), &domain.Action{
		ID: "act-1", ItemID: "wq-1", Kind: domain.ActionSnooze, SnoozeUntil: &until,
	})
	require.NoError(t, err)
	assert.Equal(t, "up-77", resp.Reference)
	assert.Equal(t, "queued", resp.Status)
}

func TestHTTPClient_SubmitAction_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := upstream.NewHTTPClient(srv.URL, "", time.Second, zap.NewNop())
	_, err := c.SubmitAction(context.Background(), &domain.Action{ID: "a", ItemID: "i", Kind: domain.ActionApprove})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
