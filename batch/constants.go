package batch

import "time"

// Bounds and target for the adaptive batch size controller.
const (
	// MinBatchSize is the floor the controller never shrinks below.
	MinBatchSize = 5

	// MaxBatchSize is the ceiling the controller never grows beyond.
	MaxBatchSize = 100

	// TargetBatchDuration is the per-batch wall-clock time the controller
	// converges toward. Batches slower than this shrink the size; batches
	// faster than half of it grow the size.
	TargetBatchDuration = time.Second
)

// Multiplicative adjustment factors applied after each completed batch.
const (
	shrinkFactor = 0.8
	growFactor   = 1.2
)

// Defaults applied by Config validation when the zero value is supplied.
const (
	// DefaultMaxConcurrentBatches is the number of batches a wave runs
	// concurrently when Config.MaxConcurrentBatches is zero.
	DefaultMaxConcurrentBatches = 4

	// DefaultMaxRetries is the total number of attempts made per item when
	// Config.MaxRetries is zero.
	DefaultMaxRetries = 3

	// DefaultRetryBaseDelay is the delay before the first retry when
	// Config.RetryBaseDelay is zero. Subsequent retries double it.
	DefaultRetryBaseDelay = time.Second
)
