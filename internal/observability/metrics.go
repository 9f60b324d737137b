package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"example.com/leaderboard/internal/domain"
)

var (
	passDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "leaderboard_service",
		Subsystem: "recompute",
		Name:      "pass_duration_seconds",
		Help:      "Wall time of a full recompute pass.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	usersProcessedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "leaderboard_service",
		Subsystem: "recompute",
		Name:      "users_processed",
		Help:      "Users enumerated by the most recent recompute pass.",
	})
	entriesWrittenGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "leaderboard_service",
		Subsystem: "recompute",
		Name:      "entries_written",
		Help:      "Leaderboard entries published by the most recent pass.",
	})
	aggregationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leaderboard_service",
		Subsystem: "recompute",
		Name:      "aggregation_errors_total",
		Help:      "Users excluded from a pass because their records could not be aggregated.",
	})
	lastPassGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "leaderboard_service",
		Subsystem: "recompute",
		Name:      "last_pass_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed recompute pass.",
	})
	triggerCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leaderboard_service",
		Subsystem: "recompute",
		Name:      "triggers_total",
		Help:      "Recompute passes requested, by source.",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(passDuration, usersProcessedGauge, entriesWrittenGauge, aggregationErrors, lastPassGauge, triggerCounter)
}

// RecordRecomputePass publishes the outcome of a completed pass.
func RecordRecomputePass(report domain.RecomputeReport) {
	if !report.FinishedAt.IsZero() {
		passDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
		lastPassGauge.Set(float64(report.FinishedAt.Unix()))
	}
	usersProcessedGauge.Set(float64(report.UsersProcessed))
	entriesWrittenGauge.Set(float64(report.EntriesWritten))
	aggregationErrors.Add(float64(len(report.Errors)))
}

// RecordRecomputeTriggered counts a requested pass by its source ("api",
// "consumer", "startup").
func RecordRecomputeTriggered(source string) {
	triggerCounter.WithLabelValues(source).Inc()
}
