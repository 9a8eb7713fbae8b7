// Package metrics records storefront client traffic as Prometheus metrics.
//
// The collectors plug into the client through its request hooks:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	client, _ := storefront.NewClient(&storefront.ClientOptions{Hooks: m.Hooks()})
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/souqly/storefront-go/internal/types"
)

const (
	namespace = "storefront"
	subsystem = "client"
)

// Metrics holds Prometheus collectors for client requests.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
}

// New creates the client collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of API responses received.",
		}, []string{"method", "route", "status_class"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_errors_total",
			Help:      "Total number of API requests that got no response.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.ErrorsTotal)
	return m
}

// Hooks returns client hooks feeding these collectors.
func (m *Metrics) Hooks() *types.Hooks {
	return &types.Hooks{
		OnResponse: m.observeResponse,
		OnError:    m.observeError,
	}
}

func (m *Metrics) observeResponse(_ context.Context, resp *http.Response, duration time.Duration) {
	method, route := http.MethodGet, "unknown"
	if resp.Request != nil {
		method = resp.Request.Method
		route = Route(resp.Request.URL.Path)
	}

	m.RequestsTotal.WithLabelValues(method, route, statusClass(resp.StatusCode)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) observeError(_ context.Context, err error) {
	m.ErrorsTotal.WithLabelValues(reason(err)).Inc()
}

// staticSegments are path segments that name an endpoint rather than a resource.
var staticSegments = map[string]bool{
	"api":       true,
	"users":     true,
	"signup":    true,
	"login":     true,
	"me":        true,
	"stores":    true,
	"my-store":  true,
	"products":  true,
	"ratings":   true,
	"comments":  true,
	"orders":    true,
	"my-orders": true,
	"status":    true,
	"upload":    true,
	"stats":     true,
}

// Route collapses resource ids in an API path so label cardinality stays
// bounded, e.g. /api/products/6650c1/ratings becomes /api/products/:id/ratings.
func Route(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg != "" && !staticSegments[seg] {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}

func reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "network"
	}
}
