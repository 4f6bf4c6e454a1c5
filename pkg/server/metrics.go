package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics has its own registry, so several servers (tests) can live in
// one process.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	clicks   *prometheus.CounterVec
	selSize  prometheus.Histogram
	scanTime prometheus.Histogram
	sessions prometheus.Gauge
	evicted  prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdbnear_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdbnear_clicks_total",
			Help: "Clicks by outcome: highlighted, empty, superseded or error.",
		}, []string{"outcome"}),
		selSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pdbnear_selection_residues",
			Help:    "Residues selected per click.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		scanTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pdbnear_click_seconds",
			Help:    "Time to handle a click, scan and highlighting.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pdbnear_sessions",
			Help: "Sessions currently held.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pdbnear_sessions_evicted_total",
			Help: "Sessions dropped to make room for new ones.",
		}),
	}
	reg.MustRegister(m.requests, m.clicks, m.selSize, m.scanTime, m.sessions, m.evicted)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) observeHTTP(method, route string, status int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
