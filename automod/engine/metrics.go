package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_event_process_count",
	Help: "Number of messages processed by the moderation engine",
})

var eventProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "warden_event_process_duration_seconds",
	Help:    "Duration of message rule evaluation and effect persistence",
	Buckets: prometheus.ExponentialBucketsRange(0.0001, 2.0, 15),
})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_event_error_count",
	Help: "Number of message processing errors",
}, []string{"type"})

var configErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_config_error_count",
	Help: "Number of community config fetch failures",
})

var filterMatchCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_filter_match_count",
	Help: "Number of messages matched, by filter",
}, []string{"filter"})

var warningIssuedCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_warning_issued_count",
	Help: "Number of warnings recorded in the ledger",
})

var escalationFiredCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_escalation_fired_count",
	Help: "Number of escalation punishments applied, by kind",
}, []string{"kind"})

var quotaTrippedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_quota_tripped_count",
	Help: "Number of punishments suppressed by the daily quota circuit breaker",
}, []string{"kind"})

var platformErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_platform_error_count",
	Help: "Number of failed platform API calls, by operation",
}, []string{"op"})
