package effects

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressStep     = 2
	ProgressInterval = 50 * time.Millisecond
	MessageInterval  = 400 * time.Millisecond
	ExitDelay        = 500 * time.Millisecond
)

// LoadingMessages are shown in order while the boot screen fills.
var LoadingMessages = []string{
	"INITIALIZING",
	"LOADING ASSETS",
	"ESTABLISHING CONNECTION",
	"DECRYPTING DATA",
	"SYSTEM READY",
}

// Loading is the cosmetic boot screen. Its state is a function of elapsed
// time only.
type Loading struct {
	elapsed time.Duration
}

func (l *Loading) Advance(dt time.Duration) { l.elapsed += dt }

// Progress in percent, 0 to 100.
func (l *Loading) Progress() int {
	p := int(l.elapsed/ProgressInterval) * ProgressStep
	if p > 100 {
		return 100
	}
	return p
}

// Status is the current boot message.
func (l *Loading) Status() string {
	i := int(l.elapsed/MessageInterval) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(LoadingMessages) {
		i = len(LoadingMessages) - 1
	}
	return LoadingMessages[i]
}

// Percent renders the progress zero padded, e.g. "042%".
func (l *Loading) Percent() string {
	return fmt.Sprintf("%03d%%", l.Progress())
}

// Bar renders a progress bar of the given width.
func (l *Loading) Bar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := width * l.Progress() / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Done reports whether the screen should be dismissed: one tick after the bar
// fills, plus the exit delay.
func (l *Loading) Done() bool {
	full := time.Duration(100/ProgressStep) * ProgressInterval
	return l.elapsed >= full+ProgressInterval+ExitDelay
}
