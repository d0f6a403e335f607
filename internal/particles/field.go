// Package particles simulates the drifting point field behind the site: a
// fixed set of particles that drift, bob, shy away from the pointer, wrap
// around the edges of a box, and link up with short-lived lines when they get
// close to each other.
//
// A Field is advanced by exactly one goroutine, once per rendered frame. The
// only state shared with other goroutines is the PointerCell.
package particles

import (
	"math"
	"math/rand"
	"time"
)

// Particle describes one point when placing a field by hand.
type Particle struct {
	Position Vec3
	Velocity Vec3
	Color    RGB
}

// Segment is one connection line. I and J are the particle indices, I < J.
// Both endpoint colors carry the fade for the pair's distance.
type Segment struct {
	I, J   int
	A, B   Vec3
	ColorA RGB
	ColorB RGB
}

// Frame is what a renderer needs to draw one frame. The slices alias the
// field's buffers and are only valid until the next Step.
type Frame struct {
	Positions []Vec3
	Colors    []RGB
	// Lines is the whole line buffer. Entries past LineCount are zero.
	Lines     []Segment
	LineCount int
}

// Field owns the particles and the per-frame buffers.
type Field struct {
	cfg Config

	pos    []Vec3
	vel    []Vec3
	colors []RGB

	lines []Segment
	used  int

	pointer PointerCell
}

// New creates a field of cfg.Count randomly placed particles. A count of zero
// or less gives an empty field whose Step does nothing.
func New(cfg Config) *Field {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ps := make([]Particle, cfg.Count)
	b, s := cfg.Bounds, cfg.Speed
	for i := range ps {
		ps[i] = Particle{
			Position: Vec3{
				X: (rng.Float64() - 0.5) * 2 * b.X,
				Y: (rng.Float64() - 0.5) * 2 * b.Y,
				Z: (rng.Float64() - 0.5) * 2 * b.Z,
			},
			Velocity: Vec3{
				X: (rng.Float64() - 0.5) * s.X,
				Y: (rng.Float64() - 0.5) * s.Y,
				Z: (rng.Float64() - 0.5) * s.Z,
			},
			Color: pickColor(rng.Float64()),
		}
	}
	return build(cfg, ps)
}

// NewWithParticles creates a field from explicit particles. cfg.Count is
// ignored. Non-finite coordinates are replaced with zero.
func NewWithParticles(cfg Config, ps []Particle) *Field {
	cfg = cfg.withDefaults()
	cfg.Count = len(ps)
	return build(cfg, ps)
}

func build(cfg Config, ps []Particle) *Field {
	n := len(ps)
	f := &Field{
		cfg:    cfg,
		pos:    make([]Vec3, n),
		vel:    make([]Vec3, n),
		colors: make([]RGB, n),
		lines:  make([]Segment, n*(n-1)/2),
	}
	for i, p := range ps {
		f.pos[i] = finiteOrZero(p.Position)
		f.vel[i] = finiteOrZero(p.Velocity)
		f.colors[i] = p.Color
	}
	return f
}

// pickColor maps a uniform sample to the theme palette: 5% danger, 25% white,
// the rest cyan.
func pickColor(r float64) RGB {
	switch {
	case r > 0.95:
		return ColorDanger
	case r > 0.7:
		return ColorMist
	default:
		return ColorCyan
	}
}

// Config returns the effective configuration.
func (f *Field) Config() Config { return f.cfg }

// Len returns the number of particles.
func (f *Field) Len() int { return len(f.pos) }

// Pointer returns the cell input handlers write to.
func (f *Field) Pointer() *PointerCell { return &f.pointer }

func (f *Field) Position(i int) Vec3 { return f.pos[i] }
func (f *Field) Color(i int) RGB     { return f.colors[i] }

// Connections returns the lines produced by the last Step.
func (f *Field) Connections() []Segment { return f.lines[:f.used] }

// Frame returns the current buffers.
func (f *Field) Frame() Frame {
	return Frame{
		Positions: f.pos,
		Colors:    f.colors,
		Lines:     f.lines,
		LineCount: f.used,
	}
}

// Step advances the field by one frame. elapsed is the time since the field
// was started as reported by the host clock.
func (f *Field) Step(elapsed time.Duration) {
	if len(f.pos) == 0 {
		return
	}
	cfg := f.cfg
	t := elapsed.Seconds()
	px, py, hasPointer := f.pointer.Normalized(cfg.Bounds)
	radius := cfg.RepulsionRadius

	for i, prev := range f.pos {
		p := prev.Add(f.vel[i])
		p.Y += math.Sin(t*cfg.FloatFrequency+float64(i)*cfg.FloatPhase) * cfg.FloatAmplitude

		if hasPointer {
			dx, dy := p.X-px, p.Y-py
			// A particle sitting exactly on the pointer has no direction to
			// be pushed in; leave it alone.
			if d := math.Hypot(dx, dy); d > 0 && d < radius {
				k := (radius - d) / radius * cfg.RepulsionForce / d
				p.X += dx * k
				p.Y += dy * k
			}
		}

		p.X = wrap(p.X, cfg.Bounds.X)
		p.Y = wrap(p.Y, cfg.Bounds.Y)
		p.Z = wrap(p.Z, cfg.Bounds.Z)

		if !p.Finite() {
			p = prev
		}
		f.pos[i] = p
	}

	f.connect()
}

// connect rebuilds the line buffer. Each particle i scans j > i in order and
// keeps at most MaxConnections lines of its own; a particle can still end up
// on more lines as the j side of lower-indexed scans.
func (f *Field) connect() {
	threshold := f.cfg.ConnectionThreshold
	thresholdSq := threshold * threshold
	limit := f.cfg.MaxConnections

	n := 0
	for i := range f.pos {
		a := f.pos[i]
		made := 0
		for j := i + 1; j < len(f.pos) && made < limit; j++ {
			b := f.pos[j]
			dSq := a.Sub(b).LenSq()
			if dSq >= thresholdSq {
				continue
			}
			alpha := 1 - math.Sqrt(dSq)/threshold
			c := ColorCyan.Scale(alpha)
			f.lines[n] = Segment{I: i, J: j, A: a, B: b, ColorA: c, ColorB: c}
			n++
			made++
		}
	}

	if n < f.used {
		clear(f.lines[n:f.used])
	}
	f.used = n
}

func finiteOrZero(v Vec3) Vec3 {
	if v.Finite() {
		return v
	}
	return Vec3{}
}
