package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CacheLookups     *prometheus.CounterVec
	ReportDuration   prometheus.Histogram
	EntriesPerReport prometheus.Histogram
	OverviewDuration prometheus.Histogram
}

// New creates the adherence metrics and registers them with reg (nil leaves them unregistered).
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_adherence_cache_lookups_total",
			Help: "Report cache lookups, by result (hit, miss, error)",
		}, []string{"result"}),
		ReportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodlog_adherence_report_duration_seconds",
			Help:    "Time to compute an adherence report from stored entries",
			Buckets: prometheus.DefBuckets,
		}),
		EntriesPerReport: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodlog_adherence_report_entries",
			Help:    "Entries read to compute one report",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		OverviewDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodlog_adherence_overview_duration_seconds",
			Help:    "Time to aggregate a supervisor's practice overview",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveReport(seconds float64, entries int) {
	if m == nil {
		return
	}
	m.ReportDuration.Observe(seconds)
	m.EntriesPerReport.Observe(float64(entries))
}

func (m *Metrics) ObserveOverview(seconds float64, entries int) {
	if m == nil {
		return
	}
	m.OverviewDuration.Observe(seconds)
	m.EntriesPerReport.Observe(float64(entries))
}
