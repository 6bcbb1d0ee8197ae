// Package metrics exposes Prometheus collectors for the HTTP server and
// for todo and account operations.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gotodo"

// Result label values.
const (
	ResultOK        = "ok"
	ResultNotFound  = "not_found"
	ResultImmutable = "immutable"
	ResultInvalid   = "invalid"
	ResultDenied    = "denied"
	ResultConflict  = "conflict"
	ResultError     = "error"
)

type Metrics struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	todoOps      *prometheus.CounterVec
	authOps      *prometheus.CounterVec
}

// New builds a private registry holding the application collectors plus
// the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		todoOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "todo_operations_total",
			Help:      "Todo operations by kind and result.",
		}, []string{"op", "result"}),
		authOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "Signups and logins by result.",
		}, []string{"op", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.todoOps,
		m.authOps,
	)
	return m
}

// ObserveHTTP records one served request. route is the registered path
// pattern, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TodoOp counts a todo operation with the result derived from err.
func (m *Metrics) TodoOp(op string, err error) {
	m.todoOps.WithLabelValues(op, Result(err)).Inc()
}

// AuthOp counts a signup or login with the result derived from err.
func (m *Metrics) AuthOp(op string, err error) {
	m.authOps.WithLabelValues(op, Result(err)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Result maps an operation error onto a result label value.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, common.ErrorNotFound):
		return ResultNotFound
	case errors.Is(err, common.ErrPastTaskImmutable):
		return ResultImmutable
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrInvalidDate):
		return ResultInvalid
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrorUnauthorized):
		return ResultDenied
	case errors.Is(err, common.ErrDuplicateEmail), errors.Is(err, common.ErrDuplicateUsername):
		return ResultConflict
	default:
		return ResultError
	}
}
