package loop

import (
	"strings"

	"github.com/praetor-game/praetor/internal/platform"
)

// scaleStep is the percentage added or removed by the scale hotkeys.
const scaleStep = 25

// windowSizes are the logical sizes selected with Alt+1..Alt+3.
var windowSizes = map[string][2]int{
	"1": {640, 480},
	"2": {800, 600},
	"3": {1024, 768},
}

// hotkey handles the window shortcuts and reports whether k was consumed.
// Window changes are posted so they run at the next drain, like commands
// from other goroutines.
//
//	F11, Alt+Enter  toggle fullscreen
//	Alt+1..3        logical window size
//	Alt+C           center the window
//	Alt+= / Alt+-   change the display scale
func (l *Loop) hotkey(k platform.Key) bool {
	if k.Repeat {
		return false
	}
	name := strings.ToLower(k.Name)
	if name == "f11" {
		l.poster.SetFullscreen(!l.display.Fullscreen())
		return true
	}
	if k.Mod&platform.ModAlt == 0 {
		return false
	}

	switch name {
	case "return", "enter":
		l.poster.SetFullscreen(!l.display.Fullscreen())
	case "c":
		l.poster.Center()
	case "=", "+":
		l.stepScale(scaleStep)
	case "-":
		l.stepScale(-scaleStep)
	default:
		size, ok := windowSizes[name]
		if !ok {
			return false
		}
		l.poster.Resize(size[0], size[1])
	}
	return true
}

func (l *Loop) stepScale(delta int) {
	minPct, maxPct, ok := l.display.CanScale()
	if !ok {
		return
	}
	want := l.display.Scale() + delta
	if want < minPct || want > maxPct {
		return
	}
	got := l.display.ScaleDisplay(want)
	l.logger.Info("display scale changed", "scale", got)
}
