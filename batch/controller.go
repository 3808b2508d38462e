package batch

import (
	"sync"
	"time"
)

// sizeController adapts the batch size to observed batch durations. It is a
// plain proportional control with no history beyond the most recent batch:
// a batch slower than the target shrinks the size by 20%, a batch faster
// than half the target grows it by 20%, anything in between holds steady.
// Adjusted sizes stay within [MinBatchSize, MaxBatchSize]; the initial size
// is taken from the caller's configuration as-is.
type sizeController struct {
	mu     sync.Mutex
	size   int
	target time.Duration
}

func newSizeController(initial int) *sizeController {
	return &sizeController{
		size:   initial,
		target: TargetBatchDuration,
	}
}

// current returns the size to use for the next partitioning.
func (c *sizeController) current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// observe records a completed batch's duration and returns the possibly
// adjusted size along with whether it changed.
func (c *sizeController) observe(duration time.Duration) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.size
	switch {
	case duration > c.target && c.size > MinBatchSize:
		c.size = max(MinBatchSize, int(float64(c.size)*shrinkFactor))
	case duration < c.target/2 && c.size < MaxBatchSize:
		// Truncation can leave a sub-floor size in place (int(4*1.2) == 4),
		// so the grow result is clamped at both ends.
		c.size = min(MaxBatchSize, max(MinBatchSize, int(float64(c.size)*growFactor)))
	}
	return c.size, c.size != prev
}
