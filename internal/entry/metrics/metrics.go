package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EntriesSubmitted prometheus.Counter
	EntriesUpdated   prometheus.Counter
	EntriesDeleted   prometheus.Counter
	EntriesRejected  *prometheus.CounterVec
}

// New creates the entry metrics and registers them with reg (nil leaves them unregistered).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EntriesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_entries_submitted_total",
			Help: "Entries accepted",
		}),
		EntriesUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_entries_updated_total",
			Help: "Entries revised by their subject",
		}),
		EntriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_entries_deleted_total",
			Help: "Entries deleted by their subject",
		}),
		EntriesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_entries_rejected_total",
			Help: "Submissions and revisions rejected, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementSubmitted() {
	if m == nil {
		return
	}
	m.EntriesSubmitted.Inc()
}

func (m *Metrics) IncrementUpdated() {
	if m == nil {
		return
	}
	m.EntriesUpdated.Inc()
}

func (m *Metrics) IncrementDeleted() {
	if m == nil {
		return
	}
	m.EntriesDeleted.Inc()
}

func (m *Metrics) IncrementRejected(reason string) {
	if m == nil {
		return
	}
	m.EntriesRejected.WithLabelValues(reason).Inc()
}
