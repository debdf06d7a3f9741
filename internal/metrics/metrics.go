package metrics

import "github.com/prometheus/client_golang/prometheus"

// Метрики сервиса для Prometheus
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "takeawaybill_http_requests_total",
			Help: "Total number of handled dashboard HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "takeawaybill_http_request_duration_seconds",
			Help:    "Duration of dashboard HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	PlatformRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "takeawaybill_platform_requests_total",
			Help: "Total number of requests sent to the Takeaway.com API",
		},
	)

	PlatformRequestsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "takeawaybill_platform_requests_failed_total",
			Help: "Total number of Takeaway.com API calls failed after retries",
		},
	)

	TokenRefreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "takeawaybill_token_refreshes_total",
			Help: "Total number of successful access token refreshes",
		},
	)

	TokenRefreshFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "takeawaybill_token_refresh_failures_total",
			Help: "Total number of failed access token refreshes",
		},
	)

	LiveOrdersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "takeawaybill_live_orders_active",
			Help: "Number of live orders seen on the last poll",
		},
	)

	LivePollFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "takeawaybill_live_poll_failures_total",
			Help: "Total number of failed live order polls",
		},
	)
)

// Register регистрирует все метрики сервиса
func Register() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(PlatformRequestsTotal)
	prometheus.MustRegister(PlatformRequestsFailedTotal)
	prometheus.MustRegister(TokenRefreshesTotal)
	prometheus.MustRegister(TokenRefreshFailuresTotal)
	prometheus.MustRegister(LiveOrdersActive)
	prometheus.MustRegister(LivePollFailuresTotal)
}
