package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	NoteChanges *prometheus.CounterVec
}

// New creates the clinical note metrics and registers them with reg (nil leaves them unregistered).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		NoteChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_clinical_notes_total",
			Help: "Clinical note writes, by action (created, updated, deleted)",
		}, []string{"action"}),
	}
}

func (m *Metrics) IncrementChange(action string) {
	if m == nil {
		return
	}
	m.NoteChanges.WithLabelValues(action).Inc()
}
