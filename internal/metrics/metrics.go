// Package metrics holds the Prometheus collectors of the worker. Collectors
// live on a dedicated registry so tests can build as many as they like.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orkg/internal/graph"
	"orkg/internal/template"
)

type Metrics struct {
	registry *prometheus.Registry

	ThingsCreated     *prometheus.CounterVec
	StatementsCreated prometheus.Counter
	PropertyEdits     *prometheus.CounterVec
	CommandFailures   *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ThingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orkg",
			Name:      "things_created_total",
			Help:      "Things created by content-type commands, by kind.",
		}, []string{"kind"}),
		StatementsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orkg",
			Name:      "statements_created_total",
			Help:      "Statements created by content-type commands.",
		}),
		PropertyEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orkg",
			Name:      "template_property_edits_total",
			Help:      "Applied template property edits, by operation.",
		}, []string{"op"}),
		CommandFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orkg",
			Name:      "command_failures_total",
			Help:      "Failed commands, by error kind.",
		}, []string{"kind"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orkg",
			Name:      "command_duration_seconds",
			Help:      "Duration of content-type commands.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}
	m.registry.MustRegister(
		m.ThingsCreated,
		m.StatementsCreated,
		m.PropertyEdits,
		m.CommandFailures,
		m.CommandDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCommand records the duration of a command and, when err is set, a
// failure labelled with the error kind.
func (m *Metrics) ObserveCommand(command string, start time.Time, err error) {
	m.CommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
	if err != nil {
		m.CommandFailures.WithLabelValues(graph.KindName(err)).Inc()
	}
}

// ObserveEdits counts every applied edit except noops.
func (m *Metrics) ObserveEdits(edits []template.Edit) {
	for _, e := range edits {
		if e.Op != template.EditNoop {
			m.PropertyEdits.WithLabelValues(string(e.Op)).Inc()
		}
	}
}
