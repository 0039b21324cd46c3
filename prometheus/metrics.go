package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"marketing-api/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Authentication / authorization error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", "role_denied", ...
	)

	// Campaign operation counter
	CampaignOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_campaign_operations_total",
			Help: "Total number of campaign operations",
		},
		[]string{"operation"}, // "list", "get", "create"
	)

	// Telemetry event counter by kind
	EventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_events_recorded_total",
			Help: "Total number of telemetry events recorded",
		},
		[]string{"kind"}, // "app_event", "analytics_event", "recommendation"
	)

	// Best-effort write failures (never surfaced to callers)
	BestEffortFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_best_effort_failures_total",
			Help: "Total number of failed best-effort writes by sink",
		},
		[]string{"sink"}, // "audit_log", "analytics_event", "recommendation_log"
	)

	// Upstream AI service calls by operation and outcome
	UpstreamRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_ai_upstream_requests_total",
			Help: "Total number of AI service calls by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome is "ok" or "error"
	)

	// Analytics read cache hits/misses
	CacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketing_analytics_cache_total",
			Help: "Total number of analytics cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketing_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketing_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "aggregate"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketing_info",
			Help: "Information about the marketing analytics API",
		},
		[]string{"version", "environment"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(CampaignOperationCounter)
	prometheus.MustRegister(EventCounter)
	prometheus.MustRegister(BestEffortFailureCounter)
	prometheus.MustRegister(UpstreamRequestCounter)
	prometheus.MustRegister(CacheCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(InfoGauge)
}

// InitMetrics sets the static service info gauge
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{
		"version":     "1.0.0",
		"environment": cfg.Server.Env,
	}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordCampaignOperation records a campaign operation
func RecordCampaignOperation(operation string) {
	CampaignOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordEvent records a recorded telemetry event by kind
func RecordEvent(kind string) {
	EventCounter.With(prometheus.Labels{"kind": kind}).Inc()
}

// RecordBestEffortFailure records a failed best-effort write by sink
func RecordBestEffortFailure(sink string) {
	BestEffortFailureCounter.With(prometheus.Labels{"sink": sink}).Inc()
}

// RecordUpstreamRequest records an AI service call outcome
func RecordUpstreamRequest(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestCounter.With(prometheus.Labels{
		"operation": operation,
		"outcome":   outcome,
	}).Inc()
}

// RecordCacheLookup records an analytics cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheCounter.With(prometheus.Labels{"result": result}).Inc()
}
