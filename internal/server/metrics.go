package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/stacklayout/pkg/observability"
)

// Metrics implements the observability hooks on top of Prometheus
// collectors.
type Metrics struct {
	orders      *prometheus.CounterVec
	orderTime   prometheus.Histogram
	crossings   prometheus.Histogram
	relations   prometheus.Histogram
	renders     *prometheus.CounterVec
	renderTime  *prometheus.HistogramVec
	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec
	requests    *prometheus.CounterVec
	inflight    prometheus.Gauge
	reqTime     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stacklayout", Name: "orders_total",
			Help: "Ordering runs by outcome.",
		}, []string{"outcome"}),
		orderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stacklayout", Name: "order_duration_seconds",
			Help:    "Time spent configuring, normalizing and ordering a graph.",
			Buckets: prometheus.DefBuckets,
		}),
		crossings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stacklayout", Name: "order_crossings",
			Help:    "Edge crossings of ordered layouts.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		relations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stacklayout", Name: "order_relations",
			Help:    "Order relations recorded by the comparator per run.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stacklayout", Name: "renders_total",
			Help: "Renderings by format and outcome.",
		}, []string{"format", "outcome"}),
		renderTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stacklayout", Name: "render_duration_seconds",
			Help:    "Rendering time by format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stacklayout", Name: "cache_events_total",
			Help: "Cache lookups and writes by entry type.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stacklayout", Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache by entry type.",
		}, []string{"type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stacklayout", Name: "http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stacklayout", Name: "http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
		reqTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stacklayout", Name: "http_request_duration_seconds",
			Help:    "Request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.orders, m.orderTime, m.crossings, m.relations,
		m.renders, m.renderTime,
		m.cacheEvents, m.cacheBytes,
		m.requests, m.inflight, m.reqTime,
	)
	return m
}

// Register installs m as the process-wide pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnOrderStart(context.Context, int) {}

func (m *Metrics) OnOrderComplete(_ context.Context, ev observability.OrderEvent, d time.Duration, err error) {
	m.orders.WithLabelValues(outcome(err)).Inc()
	m.orderTime.Observe(d.Seconds())
	if err == nil {
		m.crossings.Observe(float64(ev.Crossings))
		m.relations.Observe(float64(ev.Relations))
	}
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	m.renders.WithLabelValues(format, outcome(err)).Inc()
	m.renderTime.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inflight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inflight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqTime.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
