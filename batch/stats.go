package batch

import (
	"sync"
	"sync/atomic"
	"time"
)

// StatsCollector receives processing events from the engine. Implementations
// can keep counters in memory (BasicStatsCollector) or export them to a
// monitoring system (the metrics package provides a Prometheus-backed
// implementation). The StatsCollector is optional; when none is configured
// the engine uses NoOpStatsCollector.
//
// Methods may be called concurrently from batch goroutines and must be safe
// for concurrent use.
type StatsCollector interface {
	// RecordBatchStart is called when a batch begins processing.
	RecordBatchStart(batchSize int)

	// RecordBatchComplete is called when a batch finishes, with the number
	// of items it contained and its wall-clock duration.
	RecordBatchComplete(batchSize int, duration time.Duration)

	// RecordItemProcessed is called for each item that produced a result.
	RecordItemProcessed()

	// RecordItemDropped is called for each item excluded from the output
	// after its retries were exhausted.
	RecordItemDropped()

	// RecordCacheHit is called when a cached result short-circuits an item.
	RecordCacheHit()

	// RecordRetry is called for each retry attempt (not for first attempts).
	RecordRetry()

	// RecordBatchSizeChange is called with the configured size when a
	// Processor is built, and with the new size whenever the controller
	// adjusts it.
	RecordBatchSizeChange(size int)
}

// Stats is a snapshot of the counters kept by BasicStatsCollector.
type Stats struct {
	// BatchesStarted is the number of batches that began processing.
	BatchesStarted uint64

	// BatchesCompleted is the number of batches that finished.
	BatchesCompleted uint64

	// ItemsProcessed is the number of items that produced results.
	ItemsProcessed uint64

	// ItemsDropped is the number of items excluded after exhausted retries.
	ItemsDropped uint64

	// CacheHits is the number of items served from the result cache.
	CacheHits uint64

	// Retries is the number of retry attempts across all items.
	Retries uint64

	// TotalProcessingTime is the summed wall-clock duration of all batches.
	TotalProcessingTime time.Duration

	// MinBatchTime and MaxBatchTime bound observed batch durations.
	MinBatchTime time.Duration
	MaxBatchTime time.Duration

	// CurrentBatchSize is the size most recently reported through
	// RecordBatchSizeChange. A Processor reports its configured size at
	// construction, so this is never 0 once the collector is attached.
	CurrentBatchSize int

	// StartTime is when collection began; LastUpdateTime is the most recent
	// event.
	StartTime      time.Time
	LastUpdateTime time.Time
}

// AverageBatchTime returns the mean batch duration, or 0 before any batch
// completes.
func (s *Stats) AverageBatchTime() time.Duration {
	if s.BatchesCompleted == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(s.BatchesCompleted)
}

// DropRate returns the fraction of items dropped, in [0, 1].
func (s *Stats) DropRate() float64 {
	total := s.ItemsProcessed + s.ItemsDropped
	if total == 0 {
		return 0
	}
	return float64(s.ItemsDropped) / float64(total)
}

// CacheHitRate returns the fraction of successful items that were served
// from cache, in [0, 1].
func (s *Stats) CacheHitRate() float64 {
	if s.ItemsProcessed == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.ItemsProcessed)
}

// NoOpStatsCollector discards all events. It is the default when no
// StatsCollector is configured.
type NoOpStatsCollector struct{}

// RecordBatchStart implements the StatsCollector interface.
func (NoOpStatsCollector) RecordBatchStart(batchSize int) {}

// RecordBatchComplete implements the StatsCollector interface.
func (NoOpStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {}

// RecordItemProcessed implements the StatsCollector interface.
func (NoOpStatsCollector) RecordItemProcessed() {}

// RecordItemDropped implements the StatsCollector interface.
func (NoOpStatsCollector) RecordItemDropped() {}

// RecordCacheHit implements the StatsCollector interface.
func (NoOpStatsCollector) RecordCacheHit() {}

// RecordRetry implements the StatsCollector interface.
func (NoOpStatsCollector) RecordRetry() {}

// RecordBatchSizeChange implements the StatsCollector interface.
func (NoOpStatsCollector) RecordBatchSizeChange(size int) {}

// BasicStatsCollector is an in-memory StatsCollector. Counters use atomics;
// timing fields are guarded by a mutex. Snapshot the current values with
// GetStats.
type BasicStatsCollector struct {
	batchesStarted   atomic.Uint64
	batchesCompleted atomic.Uint64
	itemsProcessed   atomic.Uint64
	itemsDropped     atomic.Uint64
	cacheHits        atomic.Uint64
	retries          atomic.Uint64

	mu    sync.RWMutex
	stats Stats
}

// NewBasicStatsCollector creates a BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	now := time.Now()
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      now,
			LastUpdateTime: now,
		},
	}
}

// RecordBatchStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchStart(batchSize int) {
	b.batchesStarted.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.LastUpdateTime = time.Now()
}

// RecordBatchComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchComplete(batchSize int, duration time.Duration) {
	b.batchesCompleted.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.TotalProcessingTime += duration

	if duration < b.stats.MinBatchTime || b.stats.MinBatchTime == 0 {
		b.stats.MinBatchTime = duration
	}
	if duration > b.stats.MaxBatchTime {
		b.stats.MaxBatchTime = duration
	}
}

// RecordItemProcessed implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordItemProcessed() {
	b.itemsProcessed.Add(1)
}

// RecordItemDropped implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordItemDropped() {
	b.itemsDropped.Add(1)
}

// RecordCacheHit implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordCacheHit() {
	b.cacheHits.Add(1)
}

// RecordRetry implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordRetry() {
	b.retries.Add(1)
}

// RecordBatchSizeChange implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchSizeChange(size int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.CurrentBatchSize = size
	b.stats.LastUpdateTime = time.Now()
}

// GetStats returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.BatchesStarted = b.batchesStarted.Load()
	stats.BatchesCompleted = b.batchesCompleted.Load()
	stats.ItemsProcessed = b.itemsProcessed.Load()
	stats.ItemsDropped = b.itemsDropped.Load()
	stats.CacheHits = b.cacheHits.Load()
	stats.Retries = b.retries.Load()
	return stats
}
