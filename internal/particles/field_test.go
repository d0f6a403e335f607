package particles

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inBounds(t *testing.T, f *Field) {
	t.Helper()
	b := f.Config().Bounds
	for i := 0; i < f.Len(); i++ {
		p := f.Position(i)
		require.True(t, p.Finite(), "particle %d is not finite: %+v", i, p)
		require.True(t, p.X >= -b.X && p.X <= b.X, "particle %d x out of range: %v", i, p.X)
		require.True(t, p.Y >= -b.Y && p.Y <= b.Y, "particle %d y out of range: %v", i, p.Y)
		require.True(t, p.Z >= -b.Z && p.Z <= b.Z, "particle %d z out of range: %v", i, p.Z)
	}
}

func still(ps ...Vec3) []Particle {
	out := make([]Particle, len(ps))
	for i, p := range ps {
		out[i] = Particle{Position: p, Color: ColorCyan}
	}
	return out
}

func TestNewField(t *testing.T) {
	f := New(Config{Count: DefaultCount, Seed: 7})

	assert.Equal(t, DefaultCount, f.Len())
	assert.Len(t, f.Frame().Lines, DefaultCount*(DefaultCount-1)/2)
	assert.Zero(t, f.Frame().LineCount)
	inBounds(t, f)

	speed := f.Config().Speed
	for i := 0; i < f.Len(); i++ {
		v := f.vel[i]
		assert.LessOrEqual(t, math.Abs(v.X), speed.X/2)
		assert.LessOrEqual(t, math.Abs(v.Y), speed.Y/2)
		assert.LessOrEqual(t, math.Abs(v.Z), speed.Z/2)
		c := f.Color(i)
		assert.Contains(t, []RGB{ColorDanger, ColorMist, ColorCyan}, c)
	}
}

func TestPickColor(t *testing.T) {
	assert.Equal(t, ColorCyan, pickColor(0))
	assert.Equal(t, ColorCyan, pickColor(0.7))
	assert.Equal(t, ColorMist, pickColor(0.71))
	assert.Equal(t, ColorMist, pickColor(0.95))
	assert.Equal(t, ColorDanger, pickColor(0.96))
}

func TestEmptyField(t *testing.T) {
	for _, n := range []int{0, -1, -150} {
		f := New(Config{Count: n, Seed: 1})
		assert.Zero(t, f.Len())
		assert.NotPanics(t, func() {
			f.Pointer().Set(10, 10, 100, 100)
			f.Step(time.Second)
		})
		fr := f.Frame()
		assert.Empty(t, fr.Positions)
		assert.Empty(t, fr.Lines)
		assert.Zero(t, fr.LineCount)
	}
}

func TestStepStaysInBounds(t *testing.T) {
	f := New(Config{Count: DefaultCount, Seed: 99})
	rng := rand.New(rand.NewSource(3))
	f.Pointer().Resize(1280, 720)

	for k := 0; k < 2000; k++ {
		if k%10 == 0 {
			f.Pointer().Move(rng.Float64()*1280, rng.Float64()*720)
		}
		f.Step(time.Duration(k) * DefaultInterval)
	}
	inBounds(t, f)
}

func TestStepWrapsToOppositeBound(t *testing.T) {
	eps := 1e-9
	f := NewWithParticles(Config{}, still(
		Vec3{X: 10 + eps},
		Vec3{Y: -10 - eps},
		Vec3{Z: 5 + eps},
	))

	// At t=0 particle 0 has no float offset; 1 and 2 only move on Y by a
	// small amount.
	f.Step(0)

	assert.Equal(t, -10.0, f.Position(0).X)
	assert.Equal(t, 10.0, f.Position(1).Y)
	assert.Equal(t, -5.0, f.Position(2).Z)
	inBounds(t, f)
}

func TestColorsAreStable(t *testing.T) {
	f := New(Config{Count: 40, Seed: 5})
	before := append([]RGB(nil), f.Frame().Colors...)

	f.Pointer().Set(320, 240, 640, 480)
	for k := 0; k < 300; k++ {
		f.Step(time.Duration(k) * DefaultInterval)
	}

	assert.Equal(t, before, f.Frame().Colors)
}

func TestConnectionCapOnScanningParticle(t *testing.T) {
	ps := make([]Vec3, 10)
	for i := range ps {
		ps[i] = Vec3{X: float64(i) * 0.01}
	}
	f := NewWithParticles(Config{}, still(ps...))
	f.Step(0)

	perScan := map[int]int{}
	perParticle := map[int]int{}
	for _, s := range f.Connections() {
		require.Less(t, s.I, s.J)
		perScan[s.I]++
		perParticle[s.I]++
		perParticle[s.J]++
	}
	for i, n := range perScan {
		assert.LessOrEqual(t, n, 3, "particle %d scanned %d lines", i, n)
	}
	// The cap only binds the scanning side: particle 3 is picked by 0, 1 and
	// 2 and then makes three lines of its own.
	assert.Equal(t, 6, perParticle[3])

	for _, s := range f.Connections()[:3] {
		assert.Equal(t, 0, s.I)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{f.Connections()[0].J, f.Connections()[1].J, f.Connections()[2].J})
}

func TestConnectionOpacity(t *testing.T) {
	f := NewWithParticles(Config{}, still(Vec3{}, Vec3{X: 1.25}))
	f.Step(0)

	require.Len(t, f.Connections(), 1)
	s := f.Connections()[0]
	alpha := 1 - s.A.Sub(s.B).Len()/2.5
	assert.InDelta(t, 0.5, alpha, 1e-3)
	assert.InDelta(t, 0.94*alpha, s.ColorA.G, 1e-9)
	assert.InDelta(t, alpha, s.ColorB.B, 1e-9)
	assert.Zero(t, s.ColorA.R)
}

func TestThreeParticleScenario(t *testing.T) {
	pts := []Vec3{{}, {X: 1}, {X: 2}}
	pairs := func(f *Field) [][2]int {
		var out [][2]int
		for _, s := range f.Connections() {
			out = append(out, [2]int{s.I, s.J})
		}
		return out
	}

	f := NewWithParticles(Config{ConnectionThreshold: 2.5}, still(pts...))
	f.Step(0)
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {1, 2}}, pairs(f))

	capped := NewWithParticles(Config{ConnectionThreshold: 2.5, MaxConnections: 1}, still(pts...))
	capped.Step(0)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, pairs(capped))
}

func TestStaleLinesAreCleared(t *testing.T) {
	f := NewWithParticles(Config{}, []Particle{
		{Position: Vec3{}},
		{Position: Vec3{X: -2.9}, Velocity: Vec3{X: 3}},
	})

	f.Step(0)
	require.Equal(t, 1, f.Frame().LineCount)

	f.Step(0)
	fr := f.Frame()
	assert.Zero(t, fr.LineCount)
	assert.Equal(t, Segment{}, fr.Lines[0])
}

func TestRepulsionAtPointer(t *testing.T) {
	f := NewWithParticles(Config{}, still(Vec3{}))
	f.Pointer().Set(400, 300, 800, 600)

	f.Step(0)

	p := f.Position(0)
	assert.True(t, p.Finite())
	assert.Equal(t, Vec3{}, p)
}

func TestRepulsionPushesAway(t *testing.T) {
	f := NewWithParticles(Config{}, still(Vec3{X: 1}, Vec3{X: 5}))
	f.Pointer().Set(400, 300, 800, 600)

	f.Step(0)

	assert.InDelta(t, 1+(2.0/3.0)*0.05, f.Position(0).X, 1e-9)
	// Outside the radius nothing changes except the float offset on Y.
	assert.Equal(t, 5.0, f.Position(1).X)
}

func TestDeterministicWithSeed(t *testing.T) {
	run := func() []Vec3 {
		f := New(Config{Count: 2, Seed: 42})
		var out []Vec3
		for k := 0; k < 120; k++ {
			f.Step(time.Duration(k) * DefaultInterval)
			out = append(out, f.Frame().Positions...)
		}
		return out
	}

	first := run()
	second := run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("trajectories differ (-first +second):\n%s", diff)
	}
	require.Len(t, first, 240)
}

func TestNewWithParticlesSanitizes(t *testing.T) {
	f := NewWithParticles(Config{}, []Particle{
		{Position: Vec3{X: math.NaN(), Y: 1}, Velocity: Vec3{Z: math.Inf(1)}},
	})
	assert.Equal(t, Vec3{}, f.Position(0))
	f.Step(0)
	inBounds(t, f)
}

func BenchmarkStep(b *testing.B) {
	f := New(Config{Count: DefaultCount, Seed: 1})
	f.Pointer().Set(640, 360, 1280, 720)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Step(time.Duration(i) * DefaultInterval)
	}
}
