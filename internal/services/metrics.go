package services

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts checkout outcomes. A nil *Metrics is valid and counts
// nothing, which keeps tests free of registry bookkeeping.
type Metrics struct {
	created    prometheus.Counter
	duplicates prometheus.Counter
	failures   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders successfully created.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_duplicate_total",
			Help: "Purchase intents collapsed onto an existing order.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_failures_total",
			Help: "Failed order creations by error kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.created, m.duplicates, m.failures)
	return m
}

func (m *Metrics) orderCreated() {
	if m != nil {
		m.created.Inc()
	}
}

func (m *Metrics) orderDuplicate() {
	if m != nil {
		m.duplicates.Inc()
	}
}

func (m *Metrics) orderFailed(kind string) {
	if m != nil {
		m.failures.WithLabelValues(kind).Inc()
	}
}
