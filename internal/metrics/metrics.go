package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/retentionhub/churn-console/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	PendingApprovals     prometheus.Gauge
	HighValueItems       prometheus.Gauge
	StaleItems           prometheus.Gauge
	ValueAtRisk          prometheus.Gauge
	ActionsSent          *prometheus.CounterVec
	ActionsFailed        *prometheus.CounterVec
	ActionLatency        *prometheus.HistogramVec
	QueueDepth           *prometheus.GaugeVec
	SyncRuns             *prometheus.CounterVec
	NotificationsVisible prometheus.Gauge
}

// New registers all instruments with reg. A per-process registry keeps
// tests isolated from prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PendingApprovals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "work_queue_pending_approvals",
			Help: "Items currently awaiting an operator decision.",
		}),
		HighValueItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "work_queue_high_value_items",
			Help: "Pending items whose potential value exceeds the high-value threshold.",
		}),
		StaleItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "work_queue_stale_items",
			Help: "Pending items older than the staleness threshold.",
		}),
		ValueAtRisk: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "work_queue_value_at_risk",
			Help: "Sum of potential value across pending items.",
		}),

		ActionsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "work_queue_actions_sent_total",
			Help: "Operator decisions acknowledged by the upstream API.",
		}, []string{"kind"}),
		ActionsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "work_queue_actions_failed_total",
			Help: "Failed upstream deliveries of operator decisions, retried or not.",
		}, []string{"kind"}),
		ActionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "work_queue_action_delivery_seconds",
			Help:    "Latency from dequeue to upstream acknowledgement.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "action_queue_depth",
			Help: "Decisions waiting for delivery, by priority tier.",
		}, []string{"priority"}),

		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "work_queue_sync_runs_total",
			Help: "Upstream sync attempts by result.",
		}, []string{"result"}),

		NotificationsVisible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifications_visible",
			Help: "Notifications currently held for the dashboard.",
		}),
	}

	reg.MustRegister(
		m.PendingApprovals,
		m.HighValueItems,
		m.StaleItems,
		m.ValueAtRisk,
		m.ActionsSent,
		m.ActionsFailed,
		m.ActionLatency,
		m.QueueDepth,
		m.SyncRuns,
		m.NotificationsVisible,
	)

	return m
}

// ObserveSummary publishes a freshly computed work queue summary.
func (m *Metrics) ObserveSummary(s domain.Summary) {
	m.PendingApprovals.Set(float64(s.PendingApprovals))
	m.HighValueItems.Set(float64(s.HighValueCount))
	m.StaleItems.Set(float64(s.StaleCount))
	m.ValueAtRisk.Set(s.TotalValueAtRisk)
}

// ObserveQueueDepths publishes the action queue tier depths.
func (m *Metrics) ObserveQueueDepths(high, medium, low int) {
	m.QueueDepth.WithLabelValues(string(domain.PriorityHigh)).Set(float64(high))
	m.QueueDepth.WithLabelValues(string(domain.PriorityMedium)).Set(float64(medium))
	m.QueueDepth.WithLabelValues(string(domain.PriorityLow)).Set(float64(low))
}

// WorkerHooks returns the callbacks expected by worker.MetricHooks so the
// worker package stays free of prometheus imports.
func (m *Metrics) WorkerHooks() (
	onSent func(domain.ActionKind, time.Duration),
	onFailed func(domain.ActionKind),
) {
	onSent = func(k domain.ActionKind, latency time.Duration) {
		m.ActionsSent.WithLabelValues(string(k)).Inc()
		m.ActionLatency.WithLabelValues(string(k)).Observe(latency.Seconds())
	}
	onFailed = func(k domain.ActionKind) {
		m.ActionsFailed.WithLabelValues(string(k)).Inc()
	}
	return
}

// SyncHooks returns the callbacks expected by worker.SyncHooks.
func (m *Metrics) SyncHooks() (onSummary func(domain.Summary), onResult func(ok bool)) {
	onSummary = m.ObserveSummary
	onResult = func(ok bool) {
		result := "ok"
		if !ok {
			result = "error"
		}
		m.SyncRuns.WithLabelValues(result).Inc()
	}
	return
}

// NotificationHook feeds the visible-notification gauge.
func (m *Metrics) NotificationHook() func(int) {
	return func(n int) { m.NotificationsVisible.Set(float64(n)) }
}
