package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AssignmentsCreated     *prometheus.CounterVec
	AssignmentsDeactivated prometheus.Counter
	DuplicateRejections    prometheus.Counter
}

// New creates the assignment metrics and registers them with reg (nil leaves them unregistered).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AssignmentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_assignments_created_total",
			Help: "Assignments created, by cadence",
		}, []string{"cadence"}),
		AssignmentsDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_assignments_deactivated_total",
			Help: "Assignments deactivated by their supervisor",
		}),
		DuplicateRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_assignments_duplicate_rejected_total",
			Help: "Create calls rejected because an active assignment already existed",
		}),
	}
}

func (m *Metrics) IncrementCreated(cadence string, n int) {
	if m == nil {
		return
	}
	m.AssignmentsCreated.WithLabelValues(cadence).Add(float64(n))
}

func (m *Metrics) IncrementDeactivated() {
	if m == nil {
		return
	}
	m.AssignmentsDeactivated.Inc()
}

func (m *Metrics) IncrementDuplicate() {
	if m == nil {
		return
	}
	m.DuplicateRejections.Inc()
}
