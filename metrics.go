package rtree

import "github.com/prometheus/client_golang/prometheus"

// metrics is a self-contained prometheus.Collector tracking the engine's
// structural events. It is never registered against the global
// registerer by the package itself — a caller opts in via
// (*Tree).Metrics() and registers it with whatever registry they use.
// Grounded on gloudx/ues-lite's use of client_golang for ambient counters.
type metrics struct {
	inserts  prometheus.Counter
	searches prometheus.Counter
	rebuilds prometheus.Counter
	removed  prometheus.Counter
}

func newMetrics(namespace string) *metrics {
	mk := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rtree",
			Name:      name,
			Help:      help,
		})
	}
	return &metrics{
		inserts:  mk("inserts_total", "Number of records inserted."),
		searches: mk("searches_total", "Number of range searches performed."),
		rebuilds: mk("rebuilds_total", "Number of full static rebuilds performed."),
		removed:  mk("records_removed_total", "Number of records soft-deleted via Retain or MarkAsRemoved."),
	}
}

// Describe implements prometheus.Collector.
func (m *metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.inserts, m.searches, m.rebuilds, m.removed}
}
