package batchkit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/batchkit/batchkit/batch"
	"github.com/batchkit/batchkit/cache"
)

// Builder assembles a batch.Processor step by step. The With methods do not
// modify the Builder they operate on; each returns a copy with the value set,
// so partially configured builders can be shared and specialized.
//
//	base := batchkit.NewBuilder[string, Thumbnail]().
//		WithBatchSize(20).
//		WithProcessor(render)
//	fast := base.WithConcurrency(8)
//	slow := base.WithConcurrency(2).WithWaveDelay(time.Second)
type Builder[T, R any] struct {
	cfg batch.Config[T, R]
}

// NewBuilder returns a Builder with no values set. WithBatchSize and
// WithProcessor must be called before Build; everything else is optional.
func NewBuilder[T, R any]() *Builder[T, R] {
	return &Builder[T, R]{}
}

// WithBatchSize sets the initial number of items per batch.
func (b *Builder[T, R]) WithBatchSize(size int) *Builder[T, R] {
	nb := *b
	nb.cfg.BatchSize = size
	return &nb
}

// WithProcessor sets the unit of work run for each item.
func (b *Builder[T, R]) WithProcessor(fn batch.ProcessFunc[T, R]) *Builder[T, R] {
	nb := *b
	nb.cfg.ProcessItem = fn
	return &nb
}

// WithProgress sets the callback invoked after every completed batch.
func (b *Builder[T, R]) WithProgress(fn batch.ProgressFunc[R]) *Builder[T, R] {
	nb := *b
	nb.cfg.OnBatchComplete = fn
	return &nb
}

// WithConcurrency caps the number of batches in flight at once.
func (b *Builder[T, R]) WithConcurrency(maxConcurrentBatches int) *Builder[T, R] {
	nb := *b
	nb.cfg.MaxConcurrentBatches = maxConcurrentBatches
	return &nb
}

// WithWaveDelay sets the pause between waves.
func (b *Builder[T, R]) WithWaveDelay(delay time.Duration) *Builder[T, R] {
	nb := *b
	nb.cfg.TimeoutBetweenBatches = delay
	return &nb
}

// WithCaching enables the result cache. A nil store selects the default
// unbounded cache; pass a cache.Bounded to cap memory.
func (b *Builder[T, R]) WithCaching(store cache.Cache[R]) *Builder[T, R] {
	nb := *b
	nb.cfg.CacheResults = true
	nb.cfg.Cache = store
	return &nb
}

// WithRetries sets the total attempts per item and the base backoff delay.
func (b *Builder[T, R]) WithRetries(maxAttempts int, baseDelay time.Duration) *Builder[T, R] {
	nb := *b
	nb.cfg.MaxRetries = maxAttempts
	nb.cfg.RetryBaseDelay = baseDelay
	return &nb
}

// WithRateLimit paces wave dispatch with the given limiter.
func (b *Builder[T, R]) WithRateLimit(limiter *rate.Limiter) *Builder[T, R] {
	nb := *b
	nb.cfg.Limiter = limiter
	return &nb
}

// WithLogger routes engine diagnostics to logger.
func (b *Builder[T, R]) WithLogger(logger batch.Logger) *Builder[T, R] {
	nb := *b
	nb.cfg.Logger = logger
	return &nb
}

// WithStats routes processing events to stats.
func (b *Builder[T, R]) WithStats(stats batch.StatsCollector) *Builder[T, R] {
	nb := *b
	nb.cfg.Stats = stats
	return &nb
}

// Build creates the Processor, returning a batch.ConfigError if required
// values are missing.
func (b *Builder[T, R]) Build() (*batch.Processor[T, R], error) {
	return batch.New(b.cfg)
}

// Process is a convenience for one-off runs: it builds a Processor with the
// given batch size and unit of work, default concurrency and retries, and no
// caching, then processes items.
func Process[T, R any](ctx context.Context, items []T, batchSize int, fn batch.ProcessFunc[T, R]) ([]R, error) {
	p, err := batch.New(batch.Config[T, R]{
		BatchSize:   batchSize,
		ProcessItem: fn,
	})
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, items)
}
