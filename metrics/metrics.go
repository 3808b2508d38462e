// Package metrics exports batch processing statistics to Prometheus.
// Collector implements batch.StatsCollector, so it can be passed directly as
// Config.Stats. It lives outside the batch package so the core engine does
// not depend on a metrics backend.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is a Prometheus-backed batch.StatsCollector.
type Collector struct {
	batchesStarted   prometheus.Counter
	batchesCompleted prometheus.Counter
	batchDuration    prometheus.Histogram
	batchSize        prometheus.Gauge
	itemsProcessed   prometheus.Counter
	itemsDropped     prometheus.Counter
	cacheHits        prometheus.Counter
	retries          prometheus.Counter
}

// NewCollector registers the engine's metrics with reg and returns the
// Collector. Pass prometheus.DefaultRegisterer to use the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		batchesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "batch_batches_started_total",
			Help: "Number of batches that began processing.",
		}),
		batchesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "batch_batches_completed_total",
			Help: "Number of batches that finished processing.",
		}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "batch_duration_seconds",
			Help:    "Wall-clock duration of completed batches.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		batchSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "batch_current_size",
			Help: "Batch size after the controller's latest adjustment.",
		}),
		itemsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "batch_items_processed_total",
			Help: "Number of items that produced results.",
		}),
		itemsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "batch_items_dropped_total",
			Help: "Number of items dropped after exhausted retries.",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "batch_cache_hits_total",
			Help: "Number of items served from the result cache.",
		}),
		retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "batch_retries_total",
			Help: "Number of retry attempts across all items.",
		}),
	}
}

// RecordBatchStart implements the batch.StatsCollector interface.
func (c *Collector) RecordBatchStart(batchSize int) {
	c.batchesStarted.Inc()
}

// RecordBatchComplete implements the batch.StatsCollector interface.
func (c *Collector) RecordBatchComplete(batchSize int, duration time.Duration) {
	c.batchesCompleted.Inc()
	c.batchDuration.Observe(duration.Seconds())
}

// RecordItemProcessed implements the batch.StatsCollector interface.
func (c *Collector) RecordItemProcessed() {
	c.itemsProcessed.Inc()
}

// RecordItemDropped implements the batch.StatsCollector interface.
func (c *Collector) RecordItemDropped() {
	c.itemsDropped.Inc()
}

// RecordCacheHit implements the batch.StatsCollector interface.
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordRetry implements the batch.StatsCollector interface.
func (c *Collector) RecordRetry() {
	c.retries.Inc()
}

// RecordBatchSizeChange implements the batch.StatsCollector interface.
func (c *Collector) RecordBatchSizeChange(size int) {
	c.batchSize.Set(float64(size))
}

// Handler returns an HTTP handler serving the given gatherer's metrics in
// Prometheus exposition format. With a *prometheus.Registry used as both
// Registerer and Gatherer:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector(reg)
//	http.Handle("/metrics", metrics.Handler(reg))
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
