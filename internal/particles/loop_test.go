package particles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoopRunsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Mount and unmount a few times; nothing may outlive its Run.
	for cycle := 0; cycle < 3; cycle++ {
		f := New(Config{Count: 20, Seed: int64(cycle + 1)})
		ctx, cancel := context.WithCancel(context.Background())

		frames := 0
		var last time.Duration
		loop := &Loop{
			Interval: time.Millisecond,
			Render: func(_ context.Context, fr Frame, elapsed time.Duration) error {
				assert.Len(t, fr.Positions, 20)
				assert.GreaterOrEqual(t, elapsed, last)
				last = elapsed
				frames++
				if frames == 5 {
					cancel()
				}
				return nil
			},
		}

		require.NoError(t, loop.Run(ctx, f))
		assert.GreaterOrEqual(t, frames, 5)
		cancel()
	}
}

func TestLoopStopsOnRenderError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("canvas gone")
	loop := &Loop{
		Interval: time.Millisecond,
		Render: func(context.Context, Frame, time.Duration) error {
			return boom
		},
	}

	err := loop.Run(context.Background(), New(Config{Count: 3, Seed: 1}))
	assert.ErrorIs(t, err, boom)
}
