package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soundstage",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "soundstage",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soundstage",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger flow executions by flow and outcome.",
		},
		[]string{"flow", "outcome"},
	)

	coinsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soundstage",
			Subsystem: "ledger",
			Name:      "coins_total",
			Help:      "Coins credited or debited by committed ledger flows.",
		},
		[]string{"flow", "direction"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ledgerOperations,
		coinsMoved,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordOperation counts one execution of a ledger flow.
func RecordOperation(flow, outcome string) {
	ledgerOperations.WithLabelValues(flow, outcome).Inc()
}

func RecordCredit(flow string, coins int64) {
	if coins > 0 {
		coinsMoved.WithLabelValues(flow, "credit").Add(float64(coins))
	}
}

func RecordDebit(flow string, coins int64) {
	if coins > 0 {
		coinsMoved.WithLabelValues(flow, "debit").Add(float64(coins))
	}
}
