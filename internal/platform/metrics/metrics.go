// Package metrics holds the Prometheus collectors of the ledger service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "temple_ledger"

// EntriesChained counts entries appended to a temple's hash chain, by action.
var EntriesChained = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "entries_chained_total",
	Help:      "Total journal entries appended to the hash chain.",
}, []string{"action"})

// EntriesRejected counts posting attempts rejected by validation, by reason.
var EntriesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "entries_rejected_total",
	Help:      "Total journal entries rejected before posting.",
}, []string{"reason"})

// ChainVerifications counts hash chain and audit mirror verifications, by kind and result.
var ChainVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "integrity",
	Name:      "verifications_total",
	Help:      "Total integrity verifications run.",
}, []string{"kind", "result"})

// IntegrityAlerts counts detected integrity violations.
var IntegrityAlerts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "integrity",
	Name:      "alerts_total",
	Help:      "Total integrity violations detected.",
})

// AuditMirrorFailures counts audit records that could not be appended after commit.
var AuditMirrorFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "integrity",
	Name:      "audit_mirror_failures_total",
	Help:      "Total audit records that failed to append to the audit artifact.",
})

// StatementsImported counts imported bank statements.
var StatementsImported = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "reconciliation",
	Name:      "statements_imported_total",
	Help:      "Total bank statements imported.",
})

// PeriodsClosed counts period closings by type.
var PeriodsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "periods",
	Name:      "closed_total",
	Help:      "Total periods closed.",
}, []string{"type"})

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route, method and status.",
}, []string{"route", "method", "status"})

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method"})

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
