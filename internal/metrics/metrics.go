// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventdesk"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	venueConflicts  prometheus.Counter
	conflictErrors  prometheus.Counter
	budgetOverages  prometheus.Counter
	publishFailures prometheus.Counter
	consumed        *prometheus.CounterVec
	reportExports   *prometheus.CounterVec
	security        *prometheus.CounterVec
}

// New registers all collectors plus the Go and process collectors on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Successful writes by entity and action.",
		}, []string{"entity", "action"}),
		venueConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "venue_conflicts_total",
			Help:      "Event writes rejected because the venue slot was taken.",
		}),
		conflictErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "venue_conflict_check_errors_total",
			Help:      "Conflict checks that failed and were treated as no conflict.",
		}),
		budgetOverages: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_overages_total",
			Help:      "Expenses that pushed a budget over its total.",
		}),
		publishFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_publish_failures_total",
			Help:      "Change messages that could not be published.",
		}),
		consumed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_messages_consumed_total",
			Help:      "Change messages handled by the worker, by result.",
		}, []string{"result"}),
		reportExports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "Dashboard report exports, by result.",
		}, []string{"result"}),
		security: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "security_events_total",
			Help:      "Requests rate limited or flagged as suspicious.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) Mutation(entity, action string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(entity, action).Inc()
}

func (m *Metrics) VenueConflict() {
	if m != nil {
		m.venueConflicts.Inc()
	}
}

func (m *Metrics) ConflictCheckFailed() {
	if m != nil {
		m.conflictErrors.Inc()
	}
}

func (m *Metrics) BudgetOverage() {
	if m != nil {
		m.budgetOverages.Inc()
	}
}

func (m *Metrics) PublishFailed() {
	if m != nil {
		m.publishFailures.Inc()
	}
}

func (m *Metrics) Consumed(ok bool) {
	if m == nil {
		return
	}
	m.consumed.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) ReportExported(ok bool) {
	if m == nil {
		return
	}
	m.reportExports.WithLabelValues(result(ok)).Inc()
}

// RateLimited counts a request rejected by the rate limiter.
func (m *Metrics) RateLimited() {
	if m != nil {
		m.security.WithLabelValues("rate_limited").Inc()
	}
}

func (m *Metrics) Suspicious() {
	if m != nil {
		m.security.WithLabelValues("suspicious").Inc()
	}
}

// RegisterCacheStats exposes hit and miss counters read from stats.
func (m *Metrics) RegisterCacheStats(name string, stats func() (hits, misses uint64)) {
	if m == nil {
		return
	}
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_hits_total",
			Help:        "Cache hits.",
			ConstLabels: prometheus.Labels{"cache": name},
		}, func() float64 { h, _ := stats(); return float64(h) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_misses_total",
			Help:        "Cache misses.",
			ConstLabels: prometheus.Labels{"cache": name},
		}, func() float64 { _, miss := stats(); return float64(miss) }),
	)
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
