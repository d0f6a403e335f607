package particles

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPointerNormalized(t *testing.T) {
	bounds := DefaultConfig().Bounds

	tests := []struct {
		name   string
		setup  func(p *PointerCell)
		wantX  float64
		wantY  float64
		wantOK bool
	}{
		{
			name:  "no sample",
			setup: func(p *PointerCell) {},
		},
		{
			name:  "resize only",
			setup: func(p *PointerCell) { p.Resize(800, 600) },
		},
		{
			name:  "move without viewport",
			setup: func(p *PointerCell) { p.Move(10, 10) },
		},
		{
			name:   "top left corner",
			setup:  func(p *PointerCell) { p.Set(0, 0, 800, 600) },
			wantX:  -10,
			wantY:  10,
			wantOK: true,
		},
		{
			name:   "center",
			setup:  func(p *PointerCell) { p.Set(400, 300, 800, 600) },
			wantOK: true,
		},
		{
			name: "move then resize keeps position",
			setup: func(p *PointerCell) {
				p.Move(800, 600)
				p.Resize(800, 600)
			},
			wantX:  10,
			wantY:  -10,
			wantOK: true,
		},
		{
			name: "cleared",
			setup: func(p *PointerCell) {
				p.Set(1, 1, 800, 600)
				p.Clear()
			},
		},
		{
			name:  "zero viewport",
			setup: func(p *PointerCell) { p.Set(5, 5, 0, 0) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PointerCell
			tt.setup(&p)
			x, y, ok := p.Normalized(bounds)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantX, x, 1e-9)
				assert.InDelta(t, tt.wantY, y, 1e-9)
			}
		})
	}
}

func TestPointerWrittenWhileStepping(t *testing.T) {
	f := New(Config{Count: 60, Seed: 11})
	f.Pointer().Resize(1024, 768)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			f.Pointer().Move(float64(i%1024), float64(i%768))
		}
	}()

	for k := 0; k < 200; k++ {
		f.Step(time.Duration(k) * DefaultInterval)
	}
	wg.Wait()
	inBounds(t, f)
}
