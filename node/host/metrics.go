package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "bridged"

// Metrics are the runtime counters exported on /metrics.
type Metrics struct {
	transactions      *prometheus.CounterVec
	instructions      *prometheus.CounterVec
	accountsCommitted prometheus.Counter
}

// NewMetrics registers the runtime collectors on reg. A nil registerer
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transactions_total",
			Help:      "Executed transactions by result.",
		}, []string{"result"}),
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "instructions_total",
			Help:      "Executed instructions by program and result.",
		}, []string{"program", "result"}),
		accountsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "accounts_committed_total",
			Help:      "Accounts written by committed transactions.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.transactions, m.instructions, m.accountsCommitted)
	}
	return m
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
