package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rollTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dice_rolls_total",
			Help: "Total settled or rejected rolls by result",
		},
		[]string{"result"},
	)

	rollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dice_roll_duration_ms",
			Help:    "Roll transaction duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"result"},
	)

	diceTotals = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dice_roll_total_value",
			Help:    "Distribution of three-die sums",
			Buckets: prometheus.LinearBuckets(3, 1, 16),
		},
	)
)

// RecordRoll records a settled roll. result is "win" or "loss".
func RecordRoll(result string, total int, started time.Time) {
	rollTotal.WithLabelValues(result).Inc()
	rollDuration.WithLabelValues(result).Observe(float64(time.Since(started).Milliseconds()))
	diceTotals.Observe(float64(total))
}

// RecordRollRejected records a roll that did not settle, labelled by error code.
func RecordRollRejected(code string, started time.Time) {
	rollTotal.WithLabelValues(code).Inc()
	rollDuration.WithLabelValues(code).Observe(float64(time.Since(started).Milliseconds()))
}
