// Package metrics defines compute-pass specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Compute-specific counter vectors
var (
	RatingsComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckcast",
		Name:      "ratings_computed_total",
		Help:      "Total number of player ratings computed by position and variant",
	}, []string{"position", "variant"})

	ForecastsComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckcast",
		Name:      "forecasts_computed_total",
		Help:      "Total number of team tournament forecasts computed by classification",
	}, []string{"classification"})
)

// Compute-specific histogram vectors
var (
	OverallRatingDistribution = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "puckcast",
		Name:      "overall_rating",
		Help:      "Distribution of computed overall ratings by position",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 99},
	}, []string{"position"})
)

// Compute-specific gauges
var (
	EliteChampMass = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puckcast",
		Name:      "elite_champ_probability_mass",
		Help:      "Sum of elite championship probabilities over the contender pool, in percent",
	})
)

// RecordRatingComputed records a computed player rating.
func RecordRatingComputed(position, variant string, overall int) {
	RatingsComputedTotal.WithLabelValues(position, variant).Inc()
	OverallRatingDistribution.WithLabelValues(position).Observe(float64(overall))
}

// RecordForecastComputed records a computed team forecast.
func RecordForecastComputed(classification string) {
	ForecastsComputedTotal.WithLabelValues(classification).Inc()
}

// UpdateEliteChampMass updates the elite championship probability mass gauge.
// A healthy pass keeps this within one point of 100.
func UpdateEliteChampMass(percent float64) {
	EliteChampMass.Set(percent)
}
