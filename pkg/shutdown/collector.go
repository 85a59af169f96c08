package shutdown

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes the queue state to Prometheus.
type Collector struct {
	queue    *Queue
	pending  *prometheus.Desc
	failures *prometheus.Desc
	state    *prometheus.Desc
}

// NewCollector describes q under namespace. Register the result with a
// prometheus.Registerer.
func NewCollector(q *Queue, namespace string) *Collector {
	return &Collector{
		queue: q,
		pending: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shutdown", "pending_handlers"),
			"Shutdown handlers waiting to run.",
			nil, nil,
		),
		failures: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shutdown", "handler_failures_total"),
			"Shutdown handlers that failed by error, rejection or panic.",
			nil, nil,
		),
		state: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "shutdown", "state"),
			"Drain state: 0 idle, 1 draining, 2 terminating.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pending
	ch <- c.failures
	ch <- c.state
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(c.queue.Pending()))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(c.queue.failureCount()))
	ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, float64(c.queue.State()))
}
