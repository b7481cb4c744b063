package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
)

const maxResponseBytes = 16 << 20

// HTTPClient talks to the retention API over HTTP with bearer auth.
// The base URL is injected from config so tests can point at httptest.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchPending returns every pending work queue item upstream knows about.
func (c *HTTPClient) FetchPending(ctx context.Context) ([]*domain.WorkQueueItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/work-queue?status=pending", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("fetch pending: %w", err)
	}

	items, err := DecodeItems(body, c.logger)
	if err != nil {
		return nil, fmt.Errorf("fetch pending: %w", err)
	}
	return items, nil
}

// SubmitAction posts an operator decision for a.ItemID and returns the
// upstream acknowledgement.
func (c *HTTPClient) SubmitAction(ctx context.Context, a *domain.Action) (*SubmitResponse, error) {
	payload := SubmitRequest{ActionID: a.ID, Kind: string(a.Kind)}
	if a.SnoozeUntil != nil {
		s := a.SnoozeUntil.UTC().Format(time.RFC3339)
		payload.SnoozeUntil = &s
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/work-queue/"+url.PathEscape(a.ItemID)+"/actions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", a.ID)

	respBody, err := c.do(req, http.StatusOK, http.StatusCreated, http.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("submit action: %w", err)
	}

	resp := &SubmitResponse{Status: "accepted"}
	if len(respBody) > 0 && gjson.ValidBytes(respBody) {
		parsed := gjson.ParseBytes(respBody)
		resp.Reference = firstOf(parsed, "reference", "id").String()
		if s := parsed.Get("status").String(); s != "" {
			resp.Status = s
		}
	}
	return resp, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, okStatus ...int) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	for _, code := range okStatus {
		if resp.StatusCode == code {
			return body, nil
		}
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	return nil, fmt.Errorf("unexpected upstream status: %d", resp.StatusCode)
}

// compile-time check that HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
