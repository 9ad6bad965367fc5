// Package metrics holds the prometheus collectors for the diary. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry      *prometheus.Registry
	entryLoads    *prometheus.CounterVec
	editRequests  *prometheus.CounterVec
	factorsPushed prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		entryLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sleepdiary",
			Name:      "entry_loads_total",
			Help:      "Entries resolved for display, by source and outcome.",
		}, []string{"source", "outcome"}),
		editRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sleepdiary",
			Name:      "edit_requests_total",
			Help:      "Edit navigation requests, by result.",
		}, []string{"result"}),
		factorsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sleepdiary",
			Name:      "seed_factors_pushed_total",
			Help:      "Sleep factor records pushed by the seeder.",
		}),
	}
	reg.MustRegister(
		m.entryLoads,
		m.editRequests,
		m.factorsPushed,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) EntryLoaded(source, outcome string) {
	if m == nil {
		return
	}
	m.entryLoads.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) EditRequested(result string) {
	if m == nil {
		return
	}
	m.editRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) FactorPushed() {
	if m == nil {
		return
	}
	m.factorsPushed.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
