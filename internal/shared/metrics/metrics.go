package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	gatewayOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quickai_gateway_operations_total",
		Help: "Gateway operations by outcome",
	}, []string{"operation", "outcome"})

	gatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quickai_gateway_duration_seconds",
		Help:    "Gateway operation latency including the provider call",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation"})

	quotaDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quickai_quota_denials_total",
		Help: "Requests denied by the quota ledger",
	}, []string{"reason"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quickai_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
)

// ObserveOperation records one gateway run.
func ObserveOperation(operation, outcome string, elapsed time.Duration) {
	gatewayOperations.WithLabelValues(operation, outcome).Inc()
	gatewayDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncQuotaDenied counts a quota_exceeded or plan_required denial.
func IncQuotaDenied(reason string) {
	quotaDenials.WithLabelValues(reason).Inc()
}

// ObserveRequest counts an HTTP request against its route template.
func ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
