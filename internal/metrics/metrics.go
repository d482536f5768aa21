package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barrage_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barrage_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ReportQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barrage_report_query_duration_seconds",
			Help:    "Duration of dashboard aggregate queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report"},
	)

	BarrageListTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barrage_list_truncated_total",
			Help: "Number of barrage listings cut at the row cap",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barrage_login_attempts_total",
			Help: "Token issuance attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func ObserveReport(report string, start time.Time) {
	ReportQueryDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}
