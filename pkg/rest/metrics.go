package rest

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dispatcher counters. A nil *Metrics records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	faults      *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchkit",
			Subsystem: "rest",
			Name:      "invocations_total",
			Help:      "Remote operations dispatched, by client and method.",
		}, []string{"client", "method"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchkit",
			Subsystem: "rest",
			Name:      "faults_total",
			Help:      "Faults raised while building or executing a remote operation.",
		}, []string{"client", "method", "stage"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchkit",
			Subsystem: "rest",
			Name:      "fallbacks_total",
			Help:      "Faults replaced by a substitute value from an exception parser.",
		}, []string{"client", "method"}),
	}
	if reg != nil {
		m.invocations = register(reg, m.invocations)
		m.faults = register(reg, m.faults)
		m.fallbacks = register(reg, m.fallbacks)
	}
	return m
}

// register adds c to reg, or returns the equivalent collector registered before, so
// several clients of one process share the same counters.
func register(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing
		}
	}
	panic(err)
}

func (m *Metrics) invoked(client, method string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(client, method).Inc()
}

func (m *Metrics) faulted(client, method, stage string) {
	if m == nil {
		return
	}
	m.faults.WithLabelValues(client, method, stage).Inc()
}

func (m *Metrics) substituted(client, method string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(client, method).Inc()
}
