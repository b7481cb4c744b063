package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/api/handler"
	apimw "github.com/retentionhub/churn-console/internal/api/middleware"
	"github.com/retentionhub/churn-console/internal/notify"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/service"
)

// Deps bundles what the HTTP surface needs from main.
type Deps struct {
	Service  *service.WorkQueueService
	Queue    *queue.PriorityQueue
	Notes    *notify.Store
	DB       handler.Pinger
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestSize(1 << 20))
	r.Use(apimw.RequestID)
	r.Use(apimw.RequestLogger(d.Logger))

	wh := handler.NewWorkQueueHandler(d.Service, d.Logger)
	nh := handler.NewNotificationHandler(d.Notes, d.Logger)
	mh := handler.NewMetricsHandler(d.Queue, d.Notes)
	hh := handler.NewHealthHandler(d.DB)

	r.Get("/health", hh.Health)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// /summary is registered before /{id} so it is not read as an id.
		r.Get("/work-queue", wh.List)
		r.Get("/work-queue/summary", wh.Summary)
		r.Get("/work-queue/{id}", wh.Get)
		r.Post("/work-queue/{id}/actions", wh.Act)

		r.Get("/actions/{id}", wh.GetAction)

		r.Get("/notifications", nh.List)
		r.Post("/notifications", nh.Create)
		r.Delete("/notifications/{id}", nh.Dismiss)

		r.Get("/metrics", mh.GetMetrics)
	})

	return r
}
