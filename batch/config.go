package batch

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/batchkit/batchkit/cache"
)

// ProcessFunc is the caller-supplied unit of work, invoked once per item
// (per attempt). It may be called from many goroutines at once and must be
// safe for concurrent use.
type ProcessFunc[T, R any] func(ctx context.Context, item T) (R, error)

// ProgressFunc is invoked after every completed batch with that batch's
// results and the fraction of batches completed so far, ending at 1.0.
// Invocations are serialized, so implementations need no locking of their
// own. A panic in a ProgressFunc is fatal to the run.
type ProgressFunc[R any] func(batchResults []R, progress float64)

// FingerprintFunc derives the cache key for an item. Equal items must map to
// equal keys. An error means the item is processed without caching.
type FingerprintFunc[T any] func(item T) (string, error)

// Config describes a Processor. It is captured at construction; changing a
// Config after New has no effect on the Processor built from it.
type Config[T, R any] struct {
	// BatchSize is the initial number of items per batch. Required.
	// Later batches use the adaptive controller's size, which stays within
	// [MinBatchSize, MaxBatchSize].
	BatchSize int

	// ProcessItem is the unit of work run for each item. Required.
	ProcessItem ProcessFunc[T, R]

	// OnBatchComplete, if set, receives progress after every batch.
	OnBatchComplete ProgressFunc[R]

	// MaxConcurrentBatches caps the number of batches in flight at once.
	// Zero means DefaultMaxConcurrentBatches. Items within a batch are all
	// dispatched concurrently; the batch size is the per-batch cap.
	MaxConcurrentBatches int

	// TimeoutBetweenBatches is an optional pause between waves.
	TimeoutBetweenBatches time.Duration

	// CacheResults enables the result cache: items whose fingerprint was
	// seen before are served their previous result without invoking
	// ProcessItem.
	CacheResults bool

	// Cache overrides the cache implementation used when CacheResults is
	// set. Nil means an unbounded cache.Store; pass a cache.Bounded to cap
	// memory in long-lived processors.
	Cache cache.Cache[R]

	// Fingerprint overrides the cache key derivation. Nil means
	// cache.Fingerprint (canonical serialization of the item).
	Fingerprint FingerprintFunc[T]

	// MaxRetries is the total number of attempts per item, including the
	// first. Zero means DefaultMaxRetries; use 1 to disable retries.
	MaxRetries int

	// RetryBaseDelay is the backoff before the first retry; each further
	// retry doubles it. Zero means DefaultRetryBaseDelay.
	RetryBaseDelay time.Duration

	// Limiter, if set, paces wave dispatch: one token is taken before each
	// wave starts.
	Limiter *rate.Limiter

	// Logger receives diagnostics. Nil means NoOpLogger.
	Logger Logger

	// Stats receives processing events. Nil means NoOpStatsCollector.
	Stats StatsCollector
}

// withDefaults validates cfg and fills in defaults, returning the effective
// configuration. A ConfigError here is the fatal failure class: New refuses
// to build a Processor from a malformed Config.
func (cfg Config[T, R]) withDefaults() (Config[T, R], error) {
	if cfg.BatchSize <= 0 {
		return cfg, ConfigError{Field: "BatchSize", Reason: "must be positive"}
	}
	if cfg.ProcessItem == nil {
		return cfg, ConfigError{Field: "ProcessItem", Reason: "is required"}
	}
	if cfg.MaxConcurrentBatches < 0 {
		return cfg, ConfigError{Field: "MaxConcurrentBatches", Reason: "cannot be negative"}
	}
	if cfg.TimeoutBetweenBatches < 0 {
		return cfg, ConfigError{Field: "TimeoutBetweenBatches", Reason: "cannot be negative"}
	}
	if cfg.MaxRetries < 0 {
		return cfg, ConfigError{Field: "MaxRetries", Reason: "cannot be negative"}
	}
	if cfg.RetryBaseDelay < 0 {
		return cfg, ConfigError{Field: "RetryBaseDelay", Reason: "cannot be negative"}
	}

	if cfg.MaxConcurrentBatches == 0 {
		cfg.MaxConcurrentBatches = DefaultMaxConcurrentBatches
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = NoOpLogger{}
	}
	if cfg.Stats == nil {
		cfg.Stats = NoOpStatsCollector{}
	}
	return cfg, nil
}
