package hnsw

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is the interface the index drives after every
// insert/erase/search/radius-search. Implement this to
// integrate with an external monitoring system.
type MetricsCollector interface {
	RecordInsert(duration time.Duration, err error)
	RecordErase(duration time.Duration)
	RecordSearch(k int, duration time.Duration, err error)
	RecordRadiusSearch(duration time.Duration, err error)
	SetNodeCount(count int)
}

// NoopMetricsCollector discards everything. Used when metrics
// collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)       {}
func (NoopMetricsCollector) RecordErase(time.Duration)               {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordRadiusSearch(time.Duration, error) {}
func (NoopMetricsCollector) SetNodeCount(int)                        {}

// BasicMetricsCollector is a dependency-free in-memory collector: plain
// atomic counters and cumulative nanoseconds, with averages derived at
// read time.
type BasicMetricsCollector struct {
	InsertCount        atomic.Int64
	InsertErrors       atomic.Int64
	InsertTotalNanos   atomic.Int64
	EraseCount         atomic.Int64
	SearchCount        atomic.Int64
	SearchErrors       atomic.Int64
	SearchTotalNanos   atomic.Int64
	RadiusSearchCount  atomic.Int64
	RadiusSearchErrors atomic.Int64
	RadiusSearchNanos  atomic.Int64
	NodeCount          atomic.Int64
}

func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordErase(duration time.Duration) {
	b.EraseCount.Add(1)
}

func (b *BasicMetricsCollector) RecordSearch(k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordRadiusSearch(duration time.Duration, err error) {
	b.RadiusSearchCount.Add(1)
	b.RadiusSearchNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RadiusSearchErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) SetNodeCount(count int) {
	b.NodeCount.Store(int64(count))
}

// Stats is a point-in-time snapshot of BasicMetricsCollector, with
// averages expressed in microseconds (matching the original's
// get_avg_insert_ms-style accessors, scaled to the precision Go's
// time.Duration naturally gives us).
type Stats struct {
	InsertCount           int64
	InsertErrors          int64
	InsertAvgMicros       int64
	EraseCount            int64
	SearchCount           int64
	SearchErrors          int64
	SearchAvgMicros       int64
	RadiusSearchCount     int64
	RadiusSearchErrors    int64
	RadiusSearchAvgMicros int64
	NodeCount             int64
}

func (b *BasicMetricsCollector) Stats() Stats {
	return Stats{
		InsertCount:           b.InsertCount.Load(),
		InsertErrors:          b.InsertErrors.Load(),
		InsertAvgMicros:       avgMicros(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		EraseCount:            b.EraseCount.Load(),
		SearchCount:           b.SearchCount.Load(),
		SearchErrors:          b.SearchErrors.Load(),
		SearchAvgMicros:       avgMicros(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		RadiusSearchCount:     b.RadiusSearchCount.Load(),
		RadiusSearchErrors:    b.RadiusSearchErrors.Load(),
		RadiusSearchAvgMicros: avgMicros(b.RadiusSearchNanos.Load(), b.RadiusSearchCount.Load()),
		NodeCount:             b.NodeCount.Load(),
	}
}

func avgMicros(totalNanos, count int64) int64 {
	if count == 0 {
		return 0
	}
	return (totalNanos / count) / int64(time.Microsecond)
}

// PrometheusCollector implements MetricsCollector on top of
// client_golang, giving the index a second, simultaneously-usable
// metrics sink; the index itself only ever talks to the
// MetricsCollector interface.
type PrometheusCollector struct {
	inserts        prometheus.Counter
	insertErrors   prometheus.Counter
	insertLatency  prometheus.Histogram
	erases         prometheus.Counter
	searches       prometheus.Counter
	searchErrors   prometheus.Counter
	searchLatency  prometheus.Histogram
	radiusSearches prometheus.Counter
	radiusErrors   prometheus.Counter
	radiusLatency  prometheus.Histogram
	nodeCount      prometheus.Gauge
}

// NewPrometheusCollector builds a collector and registers its metrics
// with reg. Pass prometheus.DefaultRegisterer for the global registry.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	c := &PrometheusCollector{
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hnsw_inserts_total", Help: "Total insert operations.",
		}),
		insertErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hnsw_insert_errors_total", Help: "Insert operations that failed.",
		}),
		insertLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "hnsw_insert_duration_seconds", Help: "Insert latency.",
		}),
		erases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hnsw_erases_total", Help: "Total erase operations.",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hnsw_searches_total", Help: "Total k-NN search operations.",
		}),
		searchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hnsw_search_errors_total", Help: "k-NN searches that failed.",
		}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "hnsw_search_duration_seconds", Help: "k-NN search latency.",
		}),
		radiusSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hnsw_radius_searches_total", Help: "Total radius search operations.",
		}),
		radiusErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hnsw_radius_search_errors_total", Help: "Radius searches that failed.",
		}),
		radiusLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "hnsw_radius_search_duration_seconds", Help: "Radius search latency.",
		}),
		nodeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "hnsw_node_count", Help: "Current number of indexed nodes.",
		}),
	}
	reg.MustRegister(c.inserts, c.insertErrors, c.insertLatency, c.erases,
		c.searches, c.searchErrors, c.searchLatency,
		c.radiusSearches, c.radiusErrors, c.radiusLatency, c.nodeCount)
	return c
}

func (c *PrometheusCollector) RecordInsert(duration time.Duration, err error) {
	c.inserts.Inc()
	c.insertLatency.Observe(duration.Seconds())
	if err != nil {
		c.insertErrors.Inc()
	}
}

func (c *PrometheusCollector) RecordErase(duration time.Duration) {
	c.erases.Inc()
}

func (c *PrometheusCollector) RecordSearch(k int, duration time.Duration, err error) {
	c.searches.Inc()
	c.searchLatency.Observe(duration.Seconds())
	if err != nil {
		c.searchErrors.Inc()
	}
}

func (c *PrometheusCollector) RecordRadiusSearch(duration time.Duration, err error) {
	c.radiusSearches.Inc()
	c.radiusLatency.Observe(duration.Seconds())
	if err != nil {
		c.radiusErrors.Inc()
	}
}

func (c *PrometheusCollector) SetNodeCount(count int) {
	c.nodeCount.Set(float64(count))
}
