package particles

import (
	"context"
	"time"
)

// RenderFunc receives each frame after it has been stepped. Returning an
// error stops the loop.
type RenderFunc func(ctx context.Context, fr Frame, elapsed time.Duration) error

// Loop drives a Field at a fixed frame interval.
type Loop struct {
	Interval time.Duration
	Render   RenderFunc
}

// DefaultInterval is roughly one display frame at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// Run steps f once per tick until ctx is done or Render fails. Ticks missed
// while the host is busy are dropped rather than replayed. Run returns nil
// when stopped through ctx.
func (l *Loop) Run(ctx context.Context, f *Field) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			f.Step(elapsed)
			if l.Render == nil {
				continue
			}
			if err := l.Render(ctx, f.Frame(), elapsed); err != nil {
				return err
			}
		}
	}
}
