package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_registrations_total",
			Help: "Total registrations by result and whether a referral code was given",
		},
		[]string{"result", "referred"},
	)

	roomEventTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_events_total",
			Help: "Room create/join calls by result",
		},
		[]string{"action", "result"},
	)
)

// RecordRegistration counts a register call. result is "success" or an error code.
func RecordRegistration(result string, referred bool) {
	ref := "false"
	if referred {
		ref = "true"
	}
	registrationTotal.WithLabelValues(result, ref).Inc()
}

// RecordRoomEvent counts a room action ("create", "join").
func RecordRoomEvent(action, result string) {
	roomEventTotal.WithLabelValues(action, result).Inc()
}
