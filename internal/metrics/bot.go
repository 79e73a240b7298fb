package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var botCommandTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Bot commands handled by command and result",
	},
	[]string{"command", "result"},
)

// RecordBotCommand counts one handled chat command.
func RecordBotCommand(command, result string) {
	botCommandTotal.WithLabelValues(command, result).Inc()
}
