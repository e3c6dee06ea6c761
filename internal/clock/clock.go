package clock

import (
	"context"
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time for code with fixed polling cadences so tests can
// run them without waiting.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until the context is done.
	Sleep(ctx context.Context, d time.Duration) error
}

var Module = fx.Provide(NewSystemClock)

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
