package utils

import (
	"context"
	"time"
)

// WaitFor sleeps for d but returns early with the context error when
// ctx is cancelled first. A non-positive d returns immediately.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
