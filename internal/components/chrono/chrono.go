package chrono

import (
	"context"
	"time"
)

// Pacer spaces out requests to a remote service.
type Pacer interface {
	// Wait blocks until the next request may be sent or ctx is done.
	Wait(ctx context.Context) error
}

// FixedPacer pauses for the full delay on every call to Wait, no matter how
// long the work between two calls took.
type FixedPacer struct {
	delay time.Duration
}

func NewFixedPacer(delay time.Duration) FixedPacer {
	return FixedPacer{delay: max(delay, 0)}
}

func (p FixedPacer) Wait(ctx context.Context) error {
	if p.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
