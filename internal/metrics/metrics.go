// Package metrics collects Prometheus metrics for collection operations, the
// HTTP API, timers and backups.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daylog/internal/collection"
	"daylog/internal/domain"
	"daylog/internal/errors"
)

const namespace = "daylog"

// Metrics holds every collector registered by daylog.
type Metrics struct {
	gatherer prometheus.Gatherer

	operations       *prometheus.CounterVec
	requests         *prometheus.HistogramVec
	timerCompletions *prometheus.CounterVec
	backups          *prometheus.CounterVec
	lastBackup       prometheus.Gauge
}

// New registers the collectors with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors with reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_operations_total",
			Help:      "Collection operations by collection, operation and result.",
		}, []string{"collection", "op", "result"}),
		requests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
		timerCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timer_completions_total",
			Help:      "Countdown timers that reached zero, by category.",
		}, []string{"category"}),
		backups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Scheduled backups by result.",
		}, []string{"result"}),
		lastBackup: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_backup_timestamp_seconds",
			Help:      "Unix time of the last successful backup.",
		}),
	}
}

// Observe counts a collection operation. It satisfies collection.Observer.
func (m *Metrics) Observe(name string, op collection.Op, err error) {
	m.operations.WithLabelValues(name, string(op), result(err)).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Observe(d.Seconds())
}

// TimerFinished counts a completed countdown.
func (m *Metrics) TimerFinished(t domain.Timer) {
	m.timerCompletions.WithLabelValues(string(t.Category)).Inc()
}

// BackupDone records the outcome of a backup run.
func (m *Metrics) BackupDone(at time.Time, err error) {
	m.backups.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.lastBackup.Set(float64(at.Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Type.String()
	}
	return "error"
}
