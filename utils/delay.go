package utils

import (
	"context"
	"time"
)

// SleepCtx pauses for d but wakes early when ctx is cancelled, so an
// interrupt doesn't have to wait out an inter-page delay.
// Returns false when the sleep was cut short.
func SleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
