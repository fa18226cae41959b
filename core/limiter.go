package core

import (
	"fmt"
	"sync/atomic"
)

// ModelLimiter caps the model calls of a single run. It is safe for
// concurrent use. A limit of zero or less disables the cap.
type ModelLimiter struct {
	limit int64
	calls atomic.Int64
}

// NewModelLimiter returns a limiter allowing limit calls.
func NewModelLimiter(limit int) *ModelLimiter {
	if limit < 0 {
		limit = 0
	}
	return &ModelLimiter{limit: int64(limit)}
}

// Increment counts one call. Calls beyond the limit are still counted and
// yield an error wrapping ErrModelCallLimit.
func (ml *ModelLimiter) Increment() error {
	n := ml.calls.Add(1)
	if ml.limit > 0 && n > ml.limit {
		return fmt.Errorf("%w: call %d exceeds %d", ErrModelCallLimit, n, ml.limit)
	}
	return nil
}

// Count returns the number of calls counted so far.
func (ml *ModelLimiter) Count() int { return int(ml.calls.Load()) }

// Limit returns the configured cap, zero when unlimited.
func (ml *ModelLimiter) Limit() int { return int(ml.limit) }

// Remaining returns the calls left, never below zero, or -1 when unlimited.
func (ml *ModelLimiter) Remaining() int {
	if ml.limit == 0 {
		return -1
	}
	return int(max(ml.limit-ml.calls.Load(), 0))
}
