package effects

import (
	"math/rand"
	"time"
)

const glitchChars = "!@#$%^&*()_+-=[]{}|;:,.<>?/~`"

// Intensity selects how long and how fast a glitch runs.
type Intensity int

const (
	Low Intensity = iota
	Medium
	High
)

func (i Intensity) Duration() time.Duration {
	switch i {
	case Low:
		return 1500 * time.Millisecond
	case High:
		return 3000 * time.Millisecond
	default:
		return 2000 * time.Millisecond
	}
}

func (i Intensity) Interval() time.Duration {
	switch i {
	case Low:
		return 80 * time.Millisecond
	case High:
		return 40 * time.Millisecond
	default:
		return 60 * time.Millisecond
	}
}

// Glitch scrambles a string and lets it settle left to right.
type Glitch struct {
	text       []rune
	intensity  Intensity
	iterations float64
	current    int
	display    string
	wait       time.Duration
	rng        *rand.Rand
}

func NewGlitch(text string, intensity Intensity, seed int64) *Glitch {
	g := &Glitch{
		text:      []rune(text),
		intensity: intensity,
		rng:       rand.New(rand.NewSource(seed)),
	}
	g.iterations = float64(intensity.Duration()) / float64(intensity.Interval())
	g.Restart()
	return g
}

// Restart scrambles the text again, as on hover.
func (g *Glitch) Restart() {
	g.current = 0
	g.wait = 0
	g.display = g.scramble(0)
}

// Done reports whether the text has settled.
func (g *Glitch) Done() bool { return float64(g.current) >= g.iterations }

func (g *Glitch) Text() string { return g.display }

// Next renders the next scramble frame.
func (g *Glitch) Next() string {
	if g.Done() {
		g.display = string(g.text)
		return g.display
	}
	progress := float64(g.current) / g.iterations
	settled := int(progress * float64(len(g.text)))
	g.display = g.scramble(settled)
	g.current++
	if g.Done() {
		g.display = string(g.text)
	}
	return g.display
}

func (g *Glitch) scramble(settled int) string {
	out := make([]rune, len(g.text))
	for i, r := range g.text {
		switch {
		case r == ' ':
			out[i] = ' '
		case i < settled:
			out[i] = r
		default:
			out[i] = rune(glitchChars[g.rng.Intn(len(glitchChars))])
		}
	}
	return string(out)
}

// Advance renders as many frames as fit in dt.
func (g *Glitch) Advance(dt time.Duration) string {
	g.wait -= dt
	for g.wait <= 0 && !g.Done() {
		g.Next()
		g.wait += g.intensity.Interval()
	}
	return g.display
}
