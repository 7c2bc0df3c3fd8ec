package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend API calls
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "am5tv_backend_requests_total",
			Help: "Total number of requests sent to the content backend",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "am5tv_backend_request_duration_seconds",
			Help:    "Content backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SkippedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "am5tv_backend_skipped_records_total",
			Help: "Total number of malformed content records dropped from backend lists",
		},
		[]string{"kind"},
	)

	// Bot
	BotCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "am5tv_bot_commands_total",
			Help: "Total number of bot commands handled",
		},
		[]string{"command", "result"},
	)

	// Views
	HomeReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "am5tv_home_reloads_total",
			Help: "Total number of home view loads by feed and outcome",
		},
		[]string{"feed", "result"},
	)

	ActiveViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "am5tv_active_views",
			Help: "Number of chat views with a running carousel",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "am5tv_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)
)
