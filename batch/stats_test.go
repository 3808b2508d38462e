package batch_test

import (
	"sync"
	"testing"
	"time"

	. "github.com/batchkit/batchkit/batch"
)

func TestBasicStatsCollector_Counters(t *testing.T) {
	c := NewBasicStatsCollector()

	c.RecordBatchStart(10)
	c.RecordBatchComplete(10, 100*time.Millisecond)
	c.RecordBatchStart(8)
	c.RecordBatchComplete(8, 300*time.Millisecond)
	for i := 0; i < 15; i++ {
		c.RecordItemProcessed()
	}
	for i := 0; i < 3; i++ {
		c.RecordItemDropped()
	}
	c.RecordCacheHit()
	c.RecordRetry()
	c.RecordRetry()
	c.RecordBatchSizeChange(12)

	stats := c.GetStats()
	if stats.BatchesStarted != 2 || stats.BatchesCompleted != 2 {
		t.Errorf("unexpected batch counts: %+v", stats)
	}
	if stats.ItemsProcessed != 15 || stats.ItemsDropped != 3 {
		t.Errorf("unexpected item counts: %+v", stats)
	}
	if stats.CacheHits != 1 || stats.Retries != 2 {
		t.Errorf("unexpected cache/retry counts: %+v", stats)
	}
	if stats.CurrentBatchSize != 12 {
		t.Errorf("expected current batch size 12, got %d", stats.CurrentBatchSize)
	}
	if stats.MinBatchTime != 100*time.Millisecond {
		t.Errorf("expected min batch time 100ms, got %v", stats.MinBatchTime)
	}
	if stats.MaxBatchTime != 300*time.Millisecond {
		t.Errorf("expected max batch time 300ms, got %v", stats.MaxBatchTime)
	}
	if stats.TotalProcessingTime != 400*time.Millisecond {
		t.Errorf("expected total 400ms, got %v", stats.TotalProcessingTime)
	}
}

func TestStats_DerivedValues(t *testing.T) {
	t.Run("zero stats divide safely", func(t *testing.T) {
		var s Stats
		if s.AverageBatchTime() != 0 {
			t.Error("AverageBatchTime on zero stats should be 0")
		}
		if s.DropRate() != 0 {
			t.Error("DropRate on zero stats should be 0")
		}
		if s.CacheHitRate() != 0 {
			t.Error("CacheHitRate on zero stats should be 0")
		}
	})

	t.Run("derived values computed from counters", func(t *testing.T) {
		s := Stats{
			BatchesCompleted:    4,
			TotalProcessingTime: 2 * time.Second,
			ItemsProcessed:      30,
			ItemsDropped:        10,
			CacheHits:           15,
		}
		if got := s.AverageBatchTime(); got != 500*time.Millisecond {
			t.Errorf("expected 500ms average, got %v", got)
		}
		if got := s.DropRate(); got != 0.25 {
			t.Errorf("expected drop rate 0.25, got %v", got)
		}
		if got := s.CacheHitRate(); got != 0.5 {
			t.Errorf("expected cache hit rate 0.5, got %v", got)
		}
	})
}

func TestBasicStatsCollector_ConcurrentUse(t *testing.T) {
	c := NewBasicStatsCollector()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.RecordBatchStart(5)
				c.RecordBatchComplete(5, time.Millisecond)
				c.RecordItemProcessed()
				c.RecordRetry()
			}
		}()
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.BatchesCompleted != 800 {
		t.Errorf("expected 800 completed batches, got %d", stats.BatchesCompleted)
	}
	if stats.ItemsProcessed != 800 {
		t.Errorf("expected 800 processed items, got %d", stats.ItemsProcessed)
	}
}
