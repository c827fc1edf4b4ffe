package usecase

import (
	"context"
	"rental-autotest/internal/ports"
	"time"
)

// FixedWait sleeps for the full nominal delay. It returns early only when
// ctx is done.
type FixedWait struct{}

var _ ports.WaitPolicy = FixedWait{}

func NewFixedWait() ports.WaitPolicy {
	return FixedWait{}
}

func (FixedWait) Settle(ctx context.Context, d time.Duration) error {
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
