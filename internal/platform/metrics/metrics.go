package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sync outcome labels.
const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// Metrics owns a private registry and the collectors the service exports.
type Metrics struct {
	registry *prometheus.Registry

	SyncTotal        *prometheus.CounterVec
	SyncRaceRetries  prometheus.Counter
	GuardRejections  *prometheus.CounterVec
	RequestDurations *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_sync_total",
			Help: "Identity synchronizations by outcome.",
		}, []string{"outcome"}),
		SyncRaceRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "identity_sync_race_retries_total",
			Help: "Creates that lost a race on the external id and were retried as updates.",
		}),
		GuardRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_guard_rejections_total",
			Help: "Requests rejected by the auth guard by reason.",
		}, []string{"reason"}),
		RequestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.SyncTotal,
		m.SyncRaceRetries,
		m.GuardRejections,
		m.RequestDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSync counts one synchronization outcome. Safe on a nil receiver.
func (m *Metrics) ObserveSync(outcome string) {
	if m == nil {
		return
	}
	m.SyncTotal.WithLabelValues(outcome).Inc()
}

// ObserveRaceRetry counts a create race that fell back to the update path.
func (m *Metrics) ObserveRaceRetry() {
	if m == nil {
		return
	}
	m.SyncRaceRetries.Inc()
}

// ObserveGuardRejection counts a request the auth guard turned away.
func (m *Metrics) ObserveGuardRejection(reason string) {
	if m == nil {
		return
	}
	m.GuardRejections.WithLabelValues(reason).Inc()
}

// GinMiddleware records request latency keyed by the matched route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDurations.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
