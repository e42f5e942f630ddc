// Package metrics provides centralized Prometheus metrics registry for the rating engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SnapshotsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Name:      "snapshots_ingested_total",
		Help:      "Total number of league snapshots ingested from the ranking feed",
	})
	SnapshotsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Name:      "snapshots_rejected_total",
		Help:      "Total number of snapshots rejected by validation",
	})
	RecomputePassesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Name:      "recompute_passes_total",
		Help:      "Total number of season recompute passes",
	})
	RecomputeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Name:      "recompute_failures_total",
		Help:      "Total number of failed recompute passes",
	})
	PredictionsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Name:      "predictions_generated_total",
		Help:      "Total number of head-to-head game predictions generated",
	})
)

// Gauge metrics
var (
	RankedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckcast",
		Name:      "ranked_teams",
		Help:      "Number of teams in the most recent valid snapshot",
	})
	RatedPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckcast",
		Name:      "rated_players",
		Help:      "Number of players rated in the most recent recompute pass",
	})
	SnapshotAge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckcast",
		Name:      "snapshot_age_seconds",
		Help:      "Age of the most recent valid snapshot in seconds",
	})
	BoardCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckcast",
		Name:      "board_cache_hit_ratio",
		Help:      "Hit ratio of the odds board cache",
	})
)

// Histogram metrics
var (
	RecomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "puckcast",
		Name:      "recompute_duration_seconds",
		Help:      "Duration of full season recompute passes in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	FeedPollDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "puckcast",
		Name:      "feed_poll_duration_seconds",
		Help:      "Duration of ranking feed poll operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SnapshotsIngestedTotal)
		registry.MustRegister(SnapshotsRejectedTotal)
		registry.MustRegister(RecomputePassesTotal)
		registry.MustRegister(RecomputeFailuresTotal)
		registry.MustRegister(PredictionsGeneratedTotal)

		// Register gauge metrics
		registry.MustRegister(RankedTeams)
		registry.MustRegister(RatedPlayers)
		registry.MustRegister(SnapshotAge)
		registry.MustRegister(BoardCacheHitRatio)

		// Register histogram metrics
		registry.MustRegister(RecomputeDuration)
		registry.MustRegister(FeedPollDuration)

		// Register compute metrics
		registry.MustRegister(RatingsComputedTotal)
		registry.MustRegister(ForecastsComputedTotal)
		registry.MustRegister(OverallRatingDistribution)
		registry.MustRegister(EliteChampMass)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSnapshotIngested records a successfully ingested snapshot.
func RecordSnapshotIngested(teamCount int) {
	SnapshotsIngestedTotal.Inc()
	RankedTeams.Set(float64(teamCount))
}

// RecordSnapshotRejected records a snapshot rejected by validation.
func RecordSnapshotRejected() {
	SnapshotsRejectedTotal.Inc()
}

// RecordRecomputePass records a completed recompute pass.
func RecordRecomputePass(durationSeconds float64, playersRated int) {
	RecomputePassesTotal.Inc()
	RecomputeDuration.Observe(durationSeconds)
	RatedPlayers.Set(float64(playersRated))
}

// RecordRecomputeFailure records a failed recompute pass.
func RecordRecomputeFailure() {
	RecomputeFailuresTotal.Inc()
}

// RecordFeedPoll records a ranking feed poll.
func RecordFeedPoll(durationSeconds float64) {
	FeedPollDuration.Observe(durationSeconds)
}

// RecordPredictionGenerated records a generated game prediction.
func RecordPredictionGenerated() {
	PredictionsGeneratedTotal.Inc()
}

// UpdateSnapshotAge updates the snapshot age gauge.
func UpdateSnapshotAge(seconds float64) {
	SnapshotAge.Set(seconds)
}

// UpdateBoardCacheHitRatio updates the board cache hit ratio gauge.
func UpdateBoardCacheHitRatio(ratio float64) {
	BoardCacheHitRatio.Set(ratio)
}
