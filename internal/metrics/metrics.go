// Package metrics 定義 Prometheus 指標。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleet_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleet_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// 業務指標
var (
	ReportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_reports_generated_total",
			Help: "Generated vehicle reports by output format",
		},
		[]string{"format"},
	)

	StatusRecordsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_status_records_ingested_total",
			Help: "Ingested vehicle status records by movement status",
		},
		[]string{"status"},
	)

	LiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleet_live_subscribers",
			Help: "Connected live status websocket clients",
		},
	)

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_auth_failures_total",
			Help: "Rejected authentication attempts by reason",
		},
		[]string{"reason"},
	)
)
