package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/metrics"
)

func TestMetrics_ObserveSummary(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveSummary(domain.Summary{PendingApprovals: 3, HighValueCount: 1, StaleCount: 2, TotalValueAtRisk: 200})

	if got := testutil.ToFloat64(m.PendingApprovals); got != 3 {
		t.Fatalf("pending approvals = %v", got)
	}
	if got := testutil.ToFloat64(m.StaleItems); got != 2 {
		t.Fatalf("stale items = %v", got)
	}
	if got := testutil.ToFloat64(m.ValueAtRisk); got != 200 {
		t.Fatalf("value at risk = %v", got)
	}
}

func TestMetrics_Hooks(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	onSent, onFailed := m.WorkerHooks()
	onSent(domain.ActionApprove, 20*time.Millisecond)
	onSent(domain.ActionApprove, 30*time.Millisecond)
	onFailed(domain.ActionDismiss)

	if got := testutil.ToFloat64(m.ActionsSent.WithLabelValues("approve")); got != 2 {
		t.Fatalf("approve sent = %v", got)
	}
	if got := testutil.ToFloat64(m.ActionsFailed.WithLabelValues("dismiss")); got != 1 {
		t.Fatalf("dismiss failed = %v", got)
	}

	_, onResult := m.SyncHooks()
	onResult(true)
	onResult(false)
	onResult(false)
	if got := testutil.ToFloat64(m.SyncRuns.WithLabelValues("error")); got != 2 {
		t.Fatalf("sync errors = %v", got)
	}

	m.ObserveQueueDepths(1, 2, 3)
	if got := testutil.ToFloat64(m.QueueDepth.WithLabelValues("Low")); got != 3 {
		t.Fatalf("low depth = %v", got)
	}

	m.NotificationHook()(4)
	if got := testutil.ToFloat64(m.NotificationsVisible); got != 4 {
		t.Fatalf("notifications visible = %v", got)
	}
}
