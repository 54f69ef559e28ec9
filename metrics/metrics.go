// Package metrics wraps the prometheus counters and gauges that observe the
// recoverable half of the spec.md section 7 error taxonomy
// (MessageMalformed, ViewIncomplete) plus basic DAG/acceptance size gauges.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors a running simulation reports to.
type Metrics struct {
	Registry prometheus.Registerer

	MalformedTotal     prometheus.Counter
	ViewIncompleteTotal prometheus.Counter
	DAGSize            prometheus.Gauge
	AcceptedSize       prometheus.Gauge
}

// New creates and registers a Metrics instance against reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Registry: reg,
		MalformedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vdfconsensus",
			Name:      "messages_malformed_total",
			Help:      "Messages dropped for failing DAG invariants.",
		}),
		ViewIncompleteTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vdfconsensus",
			Name:      "view_incomplete_total",
			Help:      "Ticks a well-behaved process skipped emission for an incomplete view.",
		}),
		DAGSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vdfconsensus",
			Name:      "dag_messages",
			Help:      "Number of messages currently in the DAG.",
		}),
		AcceptedSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vdfconsensus",
			Name:      "accepted_messages",
			Help:      "Number of messages in the most recently computed Accepted set.",
		}),
	}
	for _, c := range []prometheus.Collector{m.MalformedTotal, m.ViewIncompleteTotal, m.DAGSize, m.AcceptedSize} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
