package workqueue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/format"
	"github.com/retentionhub/churn-console/internal/workqueue"
)

func fixedEngine() *workqueue.Engine {
	return workqueue.NewEngine(workqueue.WithClock(func() time.Time { return now }))
}

func TestEngine_Views(t *testing.T) {
	seen := ago(3 * time.Hour)
	items := []*domain.WorkQueueItem{
		{ID: "low", CreatedAt: ago(30 * time.Hour)},
		{ID: "high", Confidence: "High", PotentialValue: valuePtr(1234.5), CreatedAt: ago(90 * time.Minute), LastActivityAt: &seen},
	}

	views := fixedEngine().Views(items)
	require.Len(t, views, 2)

	v := views[0]
	assert.Equal(t, "high", v.Item.ID)
	assert.Equal(t, domain.PriorityHigh, v.Priority)
	assert.Equal(t, domain.AgeWarning, v.AgeSeverity)
	assert.Equal(t, "1h 30m ago", v.RelativeAge)
	assert.Contains(t, v.PotentialValueText, "1,234.50")
	assert.Equal(t, "Active 3h ago", v.Activity.Label)
	assert.Equal(t, format.ActivityHealthy, v.Activity.Severity)
	assert.Equal(t, "Mar 1, 2026, 10:30", v.CreatedAtText)

	low := views[1]
	assert.Equal(t, domain.PriorityLow, low.Priority)
	assert.Equal(t, domain.AgeCritical, low.AgeSeverity)
	assert.Equal(t, format.Placeholder, low.PotentialValueText)
	assert.Equal(t, "No recent activity", low.Activity.Label)
}

func TestEngine_Summary(t *testing.T) {
	e := workqueue.NewEngine(
		workqueue.WithClock(func() time.Time { return now }),
		workqueue.WithThresholds(workqueue.Thresholds{HighValue: 10, StaleAfter: time.Minute}),
	)
	items := []*domain.WorkQueueItem{
		{ID: "a", PotentialValue: valuePtr(20), CreatedAt: ago(2 * time.Minute)},
	}

	s := e.Summary(items)
	assert.Equal(t, 1, s.HighValueCount)
	assert.Equal(t, 1, s.StaleCount)
	assert.Contains(t, s.TotalValueAtRiskText, "20.00")
	assert.Equal(t, "00:02:00", *s.OldestPendingAge)
}
