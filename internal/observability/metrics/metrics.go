package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	metricPrefix = "winery_"

	resultSuccess  = "success"
	resultError    = "error"
	resultNotFound = "not_found"

	notifySent       = "sent"
	notifySuppressed = "suppressed"
	notifyFailed     = "failed"
)

var (
	registerOnce sync.Once

	evaluationTotal   *prometheus.CounterVec
	evaluationLatency *prometheus.HistogramVec

	recommendationsTotal *prometheus.CounterVec

	sweepTotal   *prometheus.CounterVec
	sweepLatency prometheus.Histogram
	sweepLots    prometheus.Counter

	notificationsTotal *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger logrus.FieldLogger) {
	registerOnce.Do(func() {
		evaluationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "advisory_evaluations_total",
				Help: "Total lot advisory evaluations by result",
			},
			[]string{"result"},
		)
		evaluationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "advisory_evaluation_latency_seconds",
				Help:    "Lot advisory evaluation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		recommendationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "advisory_recommendations_total",
				Help: "Total recommendations produced by priority and kind",
			},
			[]string{"priority", "kind"},
		)

		sweepTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "advisory_sweep_total",
				Help: "Total advisory sweeps by result",
			},
			[]string{"result"},
		)
		sweepLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "advisory_sweep_latency_seconds",
				Help:    "Advisory sweep latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		sweepLots = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "advisory_sweep_lots_total",
				Help: "Total lots evaluated by sweeps",
			},
		)

		notificationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "advisory_notifications_total",
				Help: "Total advisory notifications by channel and result",
			},
			[]string{"channel", "result"},
		)

		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status",
			},
			[]string{"method", "status"},
		)

		prometheus.MustRegister(
			evaluationTotal,
			evaluationLatency,
			recommendationsTotal,
			sweepTotal,
			sweepLatency,
			sweepLots,
			notificationsTotal,
			httpRequests,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveEvaluation records evaluation latency and result.
func ObserveEvaluation(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if evaluationTotal != nil {
		evaluationTotal.WithLabelValues(result).Inc()
	}
	if evaluationLatency != nil {
		evaluationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncRecommendation counts one produced recommendation.
func IncRecommendation(priority, kind string) {
	if priority == "" {
		priority = "unknown"
	}
	if kind == "" {
		kind = "unknown"
	}
	if recommendationsTotal != nil {
		recommendationsTotal.WithLabelValues(priority, kind).Inc()
	}
}

// ObserveSweep records sweep latency, result and lot count.
func ObserveSweep(result string, lots int, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if sweepTotal != nil {
		sweepTotal.WithLabelValues(result).Inc()
	}
	if sweepLatency != nil {
		sweepLatency.Observe(duration.Seconds())
	}
	if sweepLots != nil && lots > 0 {
		sweepLots.Add(float64(lots))
	}
}

// IncNotification increments notification counters.
func IncNotification(channel, result string) {
	if channel == "" {
		channel = "unknown"
	}
	if result == "" {
		result = notifySent
	}
	if notificationsTotal != nil {
		notificationsTotal.WithLabelValues(channel, result).Inc()
	}
}

// IncHTTPRequest counts a served HTTP request.
func IncHTTPRequest(method string, status int) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, statusClass(status)).Inc()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Exported constants for callers.
const (
	ResultSuccess  = resultSuccess
	ResultError    = resultError
	ResultNotFound = resultNotFound

	NotifySent       = notifySent
	NotifySuppressed = notifySuppressed
	NotifyFailed     = notifyFailed
)
