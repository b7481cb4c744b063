package upstream

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/format"
)

var errInvalidPayload = errors.New("invalid work queue payload")

// DecodeItems reads a work queue payload. It accepts a bare array or an
// object wrapping the array in "items" or "data", and both camelCase and
// snake_case field names. Numbers may arrive as strings. Items without an id
// are skipped; an unparseable createdAt decodes to the zero time.
func DecodeItems(body []byte, logger *zap.Logger) ([]*domain.WorkQueueItem, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidPayload
	}

	root := gjson.ParseBytes(body)
	list := root
	if !root.IsArray() {
		list = firstOf(root, "items", "data")
		if !list.IsArray() {
			return nil, errInvalidPayload
		}
	}

	var items []*domain.WorkQueueItem
	list.ForEach(func(_, r gjson.Result) bool {
		item, ok := decodeItem(r, logger)
		if ok {
			items = append(items, item)
		}
		return true
	})
	return items, nil
}

func decodeItem(r gjson.Result, logger *zap.Logger) (*domain.WorkQueueItem, bool) {
	id := firstOf(r, "id").String()
	if id == "" {
		logger.Warn("skipping work queue item without id")
		return nil, false
	}

	item := &domain.WorkQueueItem{
		ID:            id,
		CustomerID:    firstOf(r, "customer.id", "customerId", "customer_id").String(),
		CustomerName:  firstOf(r, "customer.name", "customerName", "customer_name").String(),
		CustomerEmail: firstOf(r, "customer.email", "customerEmail", "customer_email").String(),
		ActionType:    firstOf(r, "actionType", "action_type", "type").String(),
		Title:         firstOf(r, "title").String(),
		Description:   firstOf(r, "description").String(),
		Confidence:    firstOf(r, "confidence").String(),
		Status:        domain.ItemPending,
		Payload:       json.RawMessage(r.Raw),
	}

	if p, ok := domain.ParsePriority(firstOf(r, "priority").String()); ok {
		item.Priority = &p
	}
	item.PotentialValue = number(firstOf(r, "potentialValue", "potential_value"))
	item.ChurnScore = number(firstOf(r, "churnScore", "churn_score", "customer.churnScore"))

	raw := firstOf(r, "createdAt", "created_at").String()
	if t, ok := format.ParseTimestamp(raw); ok {
		item.CreatedAt = t
	} else {
		logger.Warn("unparseable createdAt on work queue item",
			zap.String("item_id", id), zap.String("created_at", raw))
	}

	if v := firstOf(r, "customer.lastActivityAt", "lastActivityAt", "last_activity_at"); v.Exists() && v.Type != gjson.Null {
		t, _ := format.ParseTimestamp(v.String())
		item.LastActivityAt = &t
	}
	return item, true
}

// firstOf returns the first of paths present in r.
func firstOf(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func number(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		return &f
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}
