package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Published    *prometheus.CounterVec
	Dropped      *prometheus.CounterVec
	Delivered    *prometheus.CounterVec
	Failed       *prometheus.CounterVec
	BreakerState prometheus.Gauge
}

// NewMetrics registers the dispatch metrics with reg (nil leaves them unregistered).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_notifications_published_total",
			Help: "Events accepted for dispatch",
		}, []string{"kind"}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_notifications_dropped_total",
			Help: "Events dropped, by cause (queue_full, circuit_open)",
		}, []string{"cause"}),
		Delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_notifications_delivered_total",
			Help: "Events delivered to the sink",
		}, []string{"kind"}),
		Failed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_notifications_failed_total",
			Help: "Sink delivery failures",
		}, []string{"kind"}),
		BreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "moodlog_notifications_breaker_open",
			Help: "1 while the delivery circuit is open",
		}),
	}
}

func (m *Metrics) incPublished(kind Kind) {
	if m == nil {
		return
	}
	m.Published.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) incDropped(cause string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(cause).Inc()
}

func (m *Metrics) incDelivered(kind Kind) {
	if m == nil {
		return
	}
	m.Delivered.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) incFailed(kind Kind) {
	if m == nil {
		return
	}
	m.Failed.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
		return
	}
	m.BreakerState.Set(0)
}
