package table

import "github.com/prometheus/client_golang/prometheus"

var mutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "user_table_mutations_total",
		Help: "Count of user table mutations by operation and result",
	},
	[]string{"op", "result"},
)

func init() { prometheus.MustRegister(mutationsTotal) }

const (
	resultOK       = "ok"
	resultFailed   = "failed"
	resultDeclined = "declined"
	resultNoop     = "noop"
)

func observe(op, result string) { mutationsTotal.WithLabelValues(op, result).Inc() }
