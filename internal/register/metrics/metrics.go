package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the register module.
type Metrics struct {
	DefinitionsCreated *prometheus.CounterVec
	SchemaReplaced     prometheus.Counter
	DefinitionsRetired prometheus.Counter
	SchemaRejected     *prometheus.CounterVec
}

// New creates the register metrics and registers them with reg (nil leaves them unregistered).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DefinitionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_register_definitions_created_total",
			Help: "Register definitions created, by provenance",
		}, []string{"provenance"}),
		SchemaReplaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_register_schema_replaced_total",
			Help: "Schema replacements on authored registers",
		}),
		DefinitionsRetired: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_register_definitions_retired_total",
			Help: "Register definitions retired",
		}),
		SchemaRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_register_schema_rejected_total",
			Help: "Candidate schemas rejected by validation, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementCreated(provenance string) {
	if m == nil {
		return
	}
	m.DefinitionsCreated.WithLabelValues(provenance).Inc()
}

func (m *Metrics) IncrementSchemaReplaced() {
	if m == nil {
		return
	}
	m.SchemaReplaced.Inc()
}

func (m *Metrics) IncrementRetired() {
	if m == nil {
		return
	}
	m.DefinitionsRetired.Inc()
}

func (m *Metrics) IncrementRejected(reason string) {
	if m == nil {
		return
	}
	m.SchemaRejected.WithLabelValues(reason).Inc()
}
