package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	challengeEventTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_events_total",
			Help: "Challenge open/accept/cancel calls by result",
		},
		[]string{"action", "result"},
	)

	challengeFeesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_fees_total",
			Help: "Coins taken from settled challenges by recipient",
		},
		[]string{"recipient"},
	)
)

// RecordChallengeEvent counts a challenge action. result is an outcome label
// or an error code.
func RecordChallengeEvent(action, result string) {
	challengeEventTotal.WithLabelValues(action, result).Inc()
}

// RecordChallengeFees adds the house and inviter cuts of a settled challenge.
func RecordChallengeFees(house, inviter decimal.Decimal) {
	challengeFeesTotal.WithLabelValues("house").Add(house.InexactFloat64())
	challengeFeesTotal.WithLabelValues("inviter").Add(inviter.InexactFloat64())
}
