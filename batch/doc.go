// Package batch contains the adaptive batch processing engine. The main type
// is Processor, created with New from a Config that supplies the unit of work
// and tuning knobs.
//
// A Processor takes a large collection of items and executes the configured
// ProcessFunc over each one under bounded concurrency. Items are partitioned
// into batches; batches are dispatched in waves of up to MaxConcurrentBatches
// running concurrently, and each wave is awaited fully before the next
// begins. After every completed batch the optional progress callback fires
// and the size controller compares the batch's wall-clock duration against
// TargetBatchDuration, shrinking or growing the batch size within
// [MinBatchSize, MaxBatchSize] for subsequent runs.
//
// Per-item failures are retried with exponential backoff (see Retry). An item
// that still fails after MaxRetries attempts is dropped: it is logged and
// counted but does not appear in the returned results and never aborts the
// run. Compare the result count against the input count to detect drops.
//
// With CacheResults enabled, each item's result is cached under a
// deterministic fingerprint of its content for the lifetime of the Processor,
// and repeated inputs are served without invoking the unit of work again.
//
// Items can also be staged ahead of execution with Enqueue, which orders them
// by priority, and then drained with ProcessQueued.
//
// A minimal use:
//
//	p, err := batch.New(batch.Config[string, int]{
//		BatchSize:   10,
//		ProcessItem: func(ctx context.Context, s string) (int, error) { return len(s), nil },
//	})
//	if err != nil {
//		// invalid configuration
//	}
//	lengths, err := p.Process(ctx, words)
package batch
