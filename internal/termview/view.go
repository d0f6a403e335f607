// Package termview renders the particle field in a terminal with tcell. It is
// the same simulation the site streams, drawn as cells instead of pixels.
package termview

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/chetan079bca005-code/ck-protocol/internal/effects"
	"github.com/chetan079bca005-code/ck-protocol/internal/particles"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

const (
	lineRune = '·'
	eventBuf = 100
)

var depthRunes = []rune{'·', '•', '●'}

var errQuit = errors.New("quit")

type Options struct {
	Field    particles.Config
	Interval time.Duration
	// Intro shows the boot screen before the field.
	Intro    bool
	Name     string
	Initials string
	Titles   []string
}

// View owns the drawing state. The screen must already be initialized; the
// caller is responsible for Fini.
type View struct {
	screen tcell.Screen
	logger *zap.Logger

	field   *particles.Field
	loading *effects.Loading
	glitch  *effects.Glitch
	typer   *effects.Typewriter

	interval      time.Duration
	intro         bool
	logo          string
	width, height int
	last          time.Duration
}

func New(screen tcell.Screen, opts Options, logger *zap.Logger) *View {
	v := &View{
		screen:   screen,
		logger:   logger.Named("termview"),
		field:    particles.New(opts.Field),
		loading:  &effects.Loading{},
		glitch:   effects.NewGlitch(opts.Name, effects.Medium, opts.Field.Seed),
		typer:    effects.NewTypewriter(opts.Titles...),
		interval: opts.Interval,
		intro:    opts.Intro,
		logo:     opts.Initials + " // PROTOCOL",
	}
	v.resize(screen.Size())
	return v
}

// Field exposes the simulation, mainly for tests.
func (v *View) Field() *particles.Field { return v.field }

func (v *View) resize(w, h int) {
	v.width, v.height = w, h
	v.field.Pointer().Resize(float64(w), float64(h))
}

// Run draws until ctx is done or the user quits with Esc, Ctrl-C or q.
func (v *View) Run(ctx context.Context) error {
	v.screen.EnableMouse(tcell.MouseMotionEvents)
	defer v.screen.DisableMouse()

	events := make(chan tcell.Event, eventBuf)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case <-stop:
				return
			default:
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()
	defer func() {
		close(stop)
		// Wake PollEvent so the reader sees stop.
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		<-done
	}()

	loop := &particles.Loop{
		Interval: v.interval,
		Render: func(_ context.Context, _ particles.Frame, elapsed time.Duration) error {
			if !v.drain(events) {
				return errQuit
			}
			v.advance(elapsed)
			v.draw()
			return nil
		},
	}
	v.logger.Debug("Field view started", zap.Int("particles", v.field.Len()))
	err := loop.Run(ctx, v.field)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// drain handles every queued event without blocking.
func (v *View) drain(events <-chan tcell.Event) bool {
	for {
		select {
		case ev := <-events:
			if !v.handle(ev) {
				return false
			}
		default:
			return true
		}
	}
}

// handle applies one input event. It returns false when the view should exit.
func (v *View) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			v.glitch.Restart()
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		// Cell centers, in the viewport recorded by resize.
		v.field.Pointer().Move(float64(x)+0.5, float64(y)+0.5)
	case *tcell.EventResize:
		v.resize(ev.Size())
		v.screen.Sync()
	}
	return true
}

func (v *View) advance(elapsed time.Duration) {
	dt := elapsed - v.last
	v.last = elapsed
	if v.intro && !v.loading.Done() {
		v.loading.Advance(dt)
		return
	}
	v.glitch.Advance(dt)
	v.typer.Advance(dt)
}

func (v *View) draw() {
	v.screen.Clear()
	if v.intro && !v.loading.Done() {
		v.drawLoading()
	} else {
		v.drawField()
		v.drawHeader()
	}
	v.screen.Show()
}

// project maps field X/Y onto the cell grid. ok is false off screen.
func (v *View) project(p particles.Vec3) (x, y int, ok bool) {
	if v.width <= 0 || v.height <= 0 {
		return 0, 0, false
	}
	b := v.field.Config().Bounds
	x = int(math.Round((p.X/b.X + 1) / 2 * float64(v.width-1)))
	y = int(math.Round((1 - (p.Y/b.Y+1)/2) * float64(v.height-1)))
	return x, y, x >= 0 && x < v.width && y >= 0 && y < v.height
}

// depth is 0 at the far face of the volume and 1 at the near face.
func (v *View) depth(z float64) float64 {
	bz := v.field.Config().Bounds.Z
	return min(max((z/bz+1)/2, 0), 1)
}

func shade(c particles.RGB, k float64) tcell.Color {
	return tcell.NewRGBColor(int32(c.R*k*255), int32(c.G*k*255), int32(c.B*k*255))
}

func (v *View) drawField() {
	for _, seg := range v.field.Connections() {
		x0, y0, ok0 := v.project(seg.A)
		x1, y1, ok1 := v.project(seg.B)
		if !ok0 || !ok1 {
			continue
		}
		// The segment color is already scaled by its fade.
		style := tcell.StyleDefault.Foreground(shade(seg.ColorA, 0.8))
		v.line(x0, y0, x1, y1, style)
	}

	for i := 0; i < v.field.Len(); i++ {
		p := v.field.Position(i)
		x, y, ok := v.project(p)
		if !ok {
			continue
		}
		d := v.depth(p.Z)
		r := depthRunes[min(int(d*float64(len(depthRunes))), len(depthRunes)-1)]
		style := tcell.StyleDefault.Foreground(shade(v.field.Color(i), 0.4+0.6*d))
		v.screen.SetContent(x, y, r, nil, style)
	}
}

// line draws with Bresenham's algorithm, skipping the endpoints which belong
// to the particles.
func (v *View) line(x0, y0, x1, y1 int, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if (x != x0 || y != y0) && (x != x1 || y != y1) {
			v.screen.SetContent(x, y, lineRune, nil, style)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

var (
	cyan  = tcell.NewRGBColor(0, 240, 255)
	mist  = tcell.NewRGBColor(230, 230, 240)
	fog   = tcell.NewRGBColor(138, 138, 154)
	black = tcell.StyleDefault.Background(tcell.ColorBlack)
)

func (v *View) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= v.width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *View) drawHeader() {
	v.text(2, 0, v.glitch.Text(), black.Foreground(mist).Bold(true))
	v.text(2, 1, "> "+v.typer.Text()+"_", black.Foreground(cyan))
}

func (v *View) drawLoading() {
	cy := v.height / 2
	center := func(s string) int {
		return max((v.width-len([]rune(s)))/2, 0)
	}

	v.text(center(v.logo), cy-2, v.logo, black.Foreground(cyan).Bold(true))

	bar := v.loading.Bar(min(40, max(v.width-4, 0)))
	v.text(center(bar), cy, bar, black.Foreground(cyan))

	status := v.loading.Status() + "... " + v.loading.Percent()
	v.text(center(status), cy+2, status, black.Foreground(fog))
}
