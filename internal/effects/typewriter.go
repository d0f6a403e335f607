// Package effects holds the text effects used on the landing screen: the
// typewriter title cycler, the glitch scramble and the boot progress screen.
// Each effect is a plain state machine advanced by the caller's frame clock.
package effects

import "time"

const (
	TypeDelay   = 80 * time.Millisecond
	DeleteDelay = 40 * time.Millisecond
	HoldDelay   = 2 * time.Second
)

type typewriterPhase int

const (
	typing typewriterPhase = iota
	holding
	deleting
)

// Typewriter types a title one character at a time, holds it, erases it and
// moves on to the next title, forever.
type Typewriter struct {
	titles [][]rune
	index  int
	shown  int
	phase  typewriterPhase
	wait   time.Duration
}

func NewTypewriter(titles ...string) *Typewriter {
	t := &Typewriter{wait: TypeDelay}
	for _, s := range titles {
		t.titles = append(t.titles, []rune(s))
	}
	return t
}

// Text is what is currently on screen.
func (t *Typewriter) Text() string {
	if len(t.titles) == 0 {
		return ""
	}
	return string(t.titles[t.index][:t.shown])
}

// Index of the title being typed or erased.
func (t *Typewriter) Index() int { return t.index }

// Tick performs one step and returns how long to wait before the next.
func (t *Typewriter) Tick() time.Duration {
	if len(t.titles) == 0 {
		return TypeDelay
	}
	cur := t.titles[t.index]
	switch t.phase {
	case typing:
		if t.shown < len(cur) {
			t.shown++
			return TypeDelay
		}
		t.phase = holding
		return HoldDelay
	case holding:
		t.phase = deleting
		return DeleteDelay
	default:
		if t.shown > 0 {
			t.shown--
			return DeleteDelay
		}
		t.index = (t.index + 1) % len(t.titles)
		t.phase = typing
		return TypeDelay
	}
}

// Advance runs as many ticks as fit in dt and returns the resulting text.
func (t *Typewriter) Advance(dt time.Duration) string {
	t.wait -= dt
	for t.wait <= 0 {
		t.wait += t.Tick()
	}
	return t.Text()
}
