package rankfeed

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Feed-client collectors, registered by the daemon alongside the global set.
var (
	fetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "fetches_total",
		Help:      "Total number of successful ranking fetches by source",
	}, []string{"source"})

	fetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "fetch_errors_total",
		Help:      "Total number of failed ranking fetches by source",
	}, []string{"source"})

	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of ranking fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	rowsFetched = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "rows_fetched",
		Help:      "Number of ranking rows in the most recent fetch by source",
	}, []string{"source"})

	streamConnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "stream_connects_total",
		Help:      "Total number of stream connections established",
	})

	streamDisconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "stream_disconnects_total",
		Help:      "Total number of stream disconnections",
	})

	streamMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "stream_messages_total",
		Help:      "Total number of stream messages processed",
	})

	streamMessageErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puckcast",
		Subsystem: "rankfeed",
		Name:      "stream_message_errors_total",
		Help:      "Total number of stream message processing errors",
	})
)

// RegisterMetrics registers the feed-client collectors with a registry
func RegisterMetrics(reg *prometheus.Registry) {
	reg.MustRegister(fetchesTotal)
	reg.MustRegister(fetchErrorsTotal)
	reg.MustRegister(fetchDuration)
	reg.MustRegister(rowsFetched)
	reg.MustRegister(streamConnectsTotal)
	reg.MustRegister(streamDisconnectsTotal)
	reg.MustRegister(streamMessagesTotal)
	reg.MustRegister(streamMessageErrorsTotal)
}

// RecordFetch records a successful ranking fetch
func RecordFetch(source string, durationSeconds float64, rows int) {
	fetchesTotal.WithLabelValues(source).Inc()
	fetchDuration.WithLabelValues(source).Observe(durationSeconds)
	rowsFetched.WithLabelValues(source).Set(float64(rows))
}

// RecordFetchError records a failed ranking fetch
func RecordFetchError(source string) {
	fetchErrorsTotal.WithLabelValues(source).Inc()
}

// RecordStreamConnect records an established stream connection
func RecordStreamConnect() {
	streamConnectsTotal.Inc()
}

// RecordStreamDisconnect records a dropped stream connection
func RecordStreamDisconnect() {
	streamDisconnectsTotal.Inc()
}

// RecordStreamMessage records a processed stream message
func RecordStreamMessage() {
	streamMessagesTotal.Inc()
}

// RecordStreamMessageError records a stream message processing error
func RecordStreamMessageError() {
	streamMessageErrorsTotal.Inc()
}
