package fanlog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the collectors a Logger updates on every dispatch. They are
// always created so the hot path never checks for nil; registering them is
// optional (see WithMetrics).
type metrics struct {
	messages     *prometheus.CounterVec
	sendFailures prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanlog",
			Name:      "messages_total",
			Help:      "Log lines dispatched to the sink registry, by level tag",
		}, []string{"level"}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fanlog",
			Name:      "sink_send_failures_total",
			Help:      "Log lines a sink failed to emit",
		}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	if err := reg.Register(m.messages); err != nil {
		return err
	}
	return reg.Register(m.sendFailures)
}

// levelLabel collapses verbose levels into a single "V" label to keep the
// label set bounded.
func levelLabel(s Severity) string {
	if s > INFO {
		return "V"
	}
	return s.Tag()
}
