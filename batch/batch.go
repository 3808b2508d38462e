package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/batchkit/batchkit/cache"
	"github.com/batchkit/batchkit/queue"
)

// Processor executes an asynchronous unit of work over large item
// collections: it partitions items into batches, runs batches in waves of
// bounded concurrency, retries transient per-item failures with exponential
// backoff, deduplicates repeated inputs through a result cache, and adapts
// the batch size to observed batch durations. Create one with New.
//
// Failure policy: an item whose retries are exhausted is dropped from the
// output and counted, never aborting the run. Callers detect drops by
// comparing len(results) against len(items). Context cancellation and panics
// in the progress callback are fatal and abort remaining waves.
type Processor[T, R any] struct {
	cfg         Config[T, R]
	ctrl        *sizeController
	cache       cache.Cache[R]
	fingerprint FingerprintFunc[T]
	logger      Logger
	stats       StatsCollector

	running atomic.Bool

	// mu guards pending, the priority staging queue.
	mu      sync.Mutex
	pending *queue.PriorityQueue[T]
}

// New builds a Processor from cfg. It returns a ConfigError if required
// fields are missing or values are out of range.
func New[T, R any](cfg Config[T, R]) (*Processor[T, R], error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	p := &Processor[T, R]{
		cfg:     cfg,
		ctrl:    newSizeController(cfg.BatchSize),
		logger:  cfg.Logger,
		stats:   cfg.Stats,
		pending: queue.New[T](),
	}

	// Seed collectors with the starting size so snapshots taken before the
	// first adjustment report it.
	p.stats.RecordBatchSizeChange(cfg.BatchSize)

	if cfg.CacheResults {
		p.cache = cfg.Cache
		if p.cache == nil {
			p.cache = cache.NewStore[R](0)
		}
		p.fingerprint = cfg.Fingerprint
		if p.fingerprint == nil {
			p.fingerprint = func(item T) (string, error) {
				return cache.Fingerprint(item)
			}
		}
	}

	return p, nil
}

// Process partitions items into batches of the controller's current size and
// executes them in waves of up to MaxConcurrentBatches concurrent batches.
// Waves run strictly sequentially; within a wave, batch order is preserved in
// the output even though batches run concurrently. Within a single batch,
// results appear in completion order, not input order.
//
// The returned slice contains one result per item that succeeded; items whose
// retries were exhausted are absent. The error is non-nil only for fatal
// conditions (context cancellation, a panicking progress callback), in which
// case results produced by completed waves are returned alongside it.
//
// Process must not be called concurrently on the same Processor; doing so
// panics. The partitioning size is fixed at entry, so controller adjustments
// made during a run take effect on the next call.
func (p *Processor[T, R]) Process(ctx context.Context, items []T) ([]R, error) {
	if !p.running.CompareAndSwap(false, true) {
		panic("batch: concurrent calls to Process are not allowed")
	}
	defer p.running.Store(false)

	if len(items) == 0 {
		return nil, nil
	}

	size := p.ctrl.current()
	batches := partition(items, size)
	total := len(batches)
	concurrency := p.cfg.MaxConcurrentBatches

	p.logger.Info("processing %d items in %d batches (size %d, concurrency %d)",
		len(items), total, size, concurrency)

	results := make([]R, 0, len(items))
	var completed int

	for start := 0; start < total; start += concurrency {
		if start > 0 {
			if err := p.waitBetweenWaves(ctx); err != nil {
				return results, err
			}
		}
		if p.cfg.Limiter != nil {
			if err := p.cfg.Limiter.Wait(ctx); err != nil {
				return results, err
			}
		}

		wave := batches[start:min(start+concurrency, total)]
		waveResults, err := p.runWave(ctx, wave, total, &completed)
		for _, batchResults := range waveResults {
			results = append(results, batchResults...)
		}
		if err != nil {
			return results, err
		}
	}

	p.logger.Info("run complete: %d of %d items produced results", len(results), len(items))
	return results, nil
}

// Enqueue stages items into the priority queue at the given priority. Staged
// items are not processed until ProcessQueued is called. Higher priorities
// drain first; equal priorities drain in enqueue order.
func (p *Processor[T, R]) Enqueue(items []T, priority int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		p.pending.Enqueue(item, priority)
	}
}

// ProcessQueued drains every staged item in priority order and runs them
// through Process. The drain happens before execution starts, so items
// enqueued while a run is in progress wait for the next call.
func (p *Processor[T, R]) ProcessQueued(ctx context.Context) ([]R, error) {
	p.mu.Lock()
	items := p.pending.DequeueAll()
	p.mu.Unlock()

	return p.Process(ctx, items)
}

// QueueLen returns the number of staged items.
func (p *Processor[T, R]) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.Len()
}

// ClearCache empties the result cache. It is a no-op when caching is
// disabled.
func (p *Processor[T, R]) ClearCache() {
	if p.cache != nil {
		p.cache.Clear()
	}
}

// CacheSize returns the number of cached results, or 0 when caching is
// disabled.
func (p *Processor[T, R]) CacheSize() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}

// CurrentBatchSize returns the size the controller would use for the next
// Process call.
func (p *Processor[T, R]) CurrentBatchSize() int {
	return p.ctrl.current()
}

// runWave executes one wave of batches concurrently and returns each batch's
// results indexed by position in the wave, so concatenation preserves batch
// order regardless of completion order.
func (p *Processor[T, R]) runWave(ctx context.Context, wave [][]T, total int, completed *int) ([][]R, error) {
	waveResults := make([][]R, len(wave))

	// progressMu serializes the progress callback and the completed-batch
	// count so the reported fraction is monotonic.
	var progressMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, items := range wave {
		i, items := i, items
		g.Go(func() error {
			started := time.Now()
			p.stats.RecordBatchStart(len(items))

			batchResults, err := p.runBatch(gctx, items)
			if err != nil {
				return err
			}
			waveResults[i] = batchResults

			duration := time.Since(started)
			p.stats.RecordBatchComplete(len(items), duration)
			if newSize, changed := p.ctrl.observe(duration); changed {
				p.stats.RecordBatchSizeChange(newSize)
				p.logger.Debug("batch size adjusted to %d after %v batch", newSize, duration)
			}

			progressMu.Lock()
			defer progressMu.Unlock()
			*completed++
			p.logger.Debug("batch %d/%d complete: %d results in %v",
				*completed, total, len(batchResults), duration)
			if p.cfg.OnBatchComplete != nil {
				return p.notifyProgress(batchResults, float64(*completed)/float64(total))
			}
			return nil
		})
	}

	err := g.Wait()
	return waveResults, err
}

// runBatch dispatches every item in the batch concurrently. Per-item failures
// are absorbed here: failed items are logged, counted, and omitted from the
// returned slice, which is ordered by completion. Context cancellation is the
// only error runBatch reports.
func (p *Processor[T, R]) runBatch(ctx context.Context, items []T) ([]R, error) {
	var (
		mu      sync.Mutex
		results = make([]R, 0, len(items))
		dropped int
		fatal   error
	)

	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item T) {
			defer wg.Done()

			result, err := p.processOne(ctx, item)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				results = append(results, result)
				p.stats.RecordItemProcessed()
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				if fatal == nil {
					fatal = err
				}
			default:
				dropped++
				p.stats.RecordItemDropped()
				p.logger.Error("item dropped: %v", err)
			}
		}(item)
	}
	wg.Wait()

	if fatal != nil {
		return nil, fatal
	}
	if dropped > 0 {
		p.logger.Warn("batch finished with %d dropped item(s)", dropped)
	}
	return results, nil
}

// processOne runs the cache-lookup / retry / cache-store chain for a single
// item. A cache hit short-circuits retries entirely. Two concurrent misses on
// the same fingerprint may both execute and both store; the cache's final
// value is whichever write lands last.
func (p *Processor[T, R]) processOne(ctx context.Context, item T) (R, error) {
	var key string
	if p.cache != nil {
		k, err := p.fingerprint(item)
		if err != nil {
			p.logger.Warn("fingerprint failed, item will not be cached: %v", err)
		} else {
			key = k
			if result, ok := p.cache.Get(key); ok {
				p.stats.RecordCacheHit()
				return result, nil
			}
		}
	}

	var attempt atomic.Int64
	policy := RetryPolicy{MaxAttempts: p.cfg.MaxRetries, BaseDelay: p.cfg.RetryBaseDelay}
	result, err := Retry(ctx, policy, func(ctx context.Context) (R, error) {
		if attempt.Add(1) > 1 {
			p.stats.RecordRetry()
		}
		return p.invoke(ctx, item)
	})
	if err != nil {
		var zero R
		return zero, err
	}

	if p.cache != nil && key != "" {
		p.cache.Put(key, result)
	}
	return result, nil
}

// invoke calls the configured unit of work, converting a panic into an
// ordinary item failure so one bad item cannot take down the run.
func (p *Processor[T, R]) invoke(ctx context.Context, item T) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item processor panic: %v", r)
		}
	}()
	return p.cfg.ProcessItem(ctx, item)
}

// notifyProgress invokes the progress callback, converting a panic into a
// fatal run error: progress callbacks must not panic, and when one does the
// remaining waves are aborted.
func (p *Processor[T, R]) notifyProgress(batchResults []R, fraction float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("progress callback panic: %v", r)
		}
	}()
	p.cfg.OnBatchComplete(batchResults, fraction)
	return nil
}

// waitBetweenWaves sleeps the configured inter-wave delay, aborting early on
// context cancellation.
func (p *Processor[T, R]) waitBetweenWaves(ctx context.Context) error {
	if p.cfg.TimeoutBetweenBatches <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.cfg.TimeoutBetweenBatches)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// partition splits items into contiguous batches of at most size items. The
// final batch holds the remainder.
func partition[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		batches = append(batches, items[start:min(start+size, len(items))])
	}
	return batches
}
