// Package batchkit provides adaptive batch processing for heterogeneous work
// collections. The core engine lives in the batch package; this root package
// offers a fluent Builder and a one-shot Process helper on top of it.
//
// The engine executes an arbitrary asynchronous unit of work over each item
// under bounded concurrency, adapts its batch granularity to observed
// latency, deduplicates repeated inputs through a result cache, retries
// transient failures with exponential backoff, and can reorder pending work
// by priority before execution.
//
//	results, err := batchkit.Process(ctx, urls, 10,
//		func(ctx context.Context, u string) (Page, error) {
//			return fetch(ctx, u)
//		})
//
// Supporting packages:
//
//   - batch: the Processor engine, retry policy, logging, and stats.
//   - queue: the priority queue used to stage work.
//   - cache: fingerprinting and result cache implementations.
//   - buffer: a simple synchronous accumulate-and-flush batcher.
//   - metrics: a Prometheus-backed stats collector.
package batchkit
