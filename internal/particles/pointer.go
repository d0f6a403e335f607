package particles

import "sync/atomic"

type pointerSample struct {
	x, y          float64
	width, height float64
	moved         bool
}

// PointerCell holds the most recent pointer position in screen pixels and the
// viewport it was measured in. Writers and the frame reader may run on
// different goroutines; every read sees the latest complete sample and
// intermediate samples are dropped.
type PointerCell struct {
	v atomic.Pointer[pointerSample]
}

func (p *PointerCell) load() pointerSample {
	if s := p.v.Load(); s != nil {
		return *s
	}
	return pointerSample{}
}

// Move records a pointer position in screen pixels.
func (p *PointerCell) Move(x, y float64) {
	for {
		old := p.v.Load()
		next := pointerSample{x: x, y: y, moved: true}
		if old != nil {
			next.width, next.height = old.width, old.height
		}
		if p.v.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Resize records the viewport size used to normalize pointer positions.
func (p *PointerCell) Resize(width, height float64) {
	for {
		old := p.v.Load()
		next := pointerSample{width: width, height: height}
		if old != nil {
			next.x, next.y, next.moved = old.x, old.y, old.moved
		}
		if p.v.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Set records position and viewport together.
func (p *PointerCell) Set(x, y, width, height float64) {
	p.v.Store(&pointerSample{x: x, y: y, width: width, height: height, moved: true})
}

// Clear forgets the pointer, e.g. when it leaves the window.
func (p *PointerCell) Clear() {
	s := p.load()
	p.v.Store(&pointerSample{width: s.width, height: s.height})
}

// Normalized maps the latest sample into field space: pixels to [-1,1] with Y
// pointing up, then scaled by the X/Y bounds. ok is false when no pointer has
// been seen or the viewport is empty.
func (p *PointerCell) Normalized(bounds Vec3) (x, y float64, ok bool) {
	s := p.load()
	if !s.moved || s.width <= 0 || s.height <= 0 {
		return 0, 0, false
	}
	nx := (s.x/s.width)*2 - 1
	ny := -(s.y/s.height)*2 + 1
	return nx * bounds.X, ny * bounds.Y, true
}
