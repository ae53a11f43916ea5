package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	snapshotStoredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "roster_service",
		Subsystem: "persistence",
		Name:      "last_snapshot_stored_timestamp_seconds",
		Help:      "Unix timestamp of the most recent roster snapshot written to Postgres.",
	})
	snapshotRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "schedule",
		Name:      "rows_total",
		Help:      "Raw roster rows seen while building schedules, by outcome.",
	}, []string{"outcome"})
	scheduleBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "roster_service",
		Subsystem: "schedule",
		Name:      "build_duration_seconds",
		Help:      "Time spent loading and partitioning a snapshot revision.",
		Buckets:   prometheus.DefBuckets,
	})
	scheduleCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roster_service",
		Subsystem: "schedule",
		Name:      "cache_lookups_total",
		Help:      "Schedule cache lookups by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(snapshotStoredGauge, snapshotRows, scheduleBuildSeconds, scheduleCache)
}

// RecordSnapshotStored updates the persistence watermark gauge.
func RecordSnapshotStored(ts time.Time) {
	if ts.IsZero() {
		return
	}
	snapshotStoredGauge.Set(float64(ts.Unix()))
}

// RecordPartition counts kept and skipped rows of one schedule build.
func RecordPartition(kept, skippedWeekday, skippedStartTime int) {
	snapshotRows.WithLabelValues("kept").Add(float64(kept))
	snapshotRows.WithLabelValues("skipped_weekday").Add(float64(skippedWeekday))
	snapshotRows.WithLabelValues("skipped_start_time").Add(float64(skippedStartTime))
}

// ObserveScheduleBuild records how long a schedule build took.
func ObserveScheduleBuild(d time.Duration) {
	scheduleBuildSeconds.Observe(d.Seconds())
}

// RecordCacheLookup counts a schedule cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	scheduleCache.WithLabelValues(result).Inc()
}
