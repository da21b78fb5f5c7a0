// Package config loads and saves the user settings file.
package config

import (
	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/cursor"
)

// Settings is the persisted user configuration.
type Settings struct {
	Display DisplaySettings `yaml:"display"`

	path  string
	dirty bool
}

// DisplaySettings holds the window mode and scale preferences.
type DisplaySettings struct {
	Fullscreen  bool       `yaml:"fullscreen"`
	Window      WindowSize `yaml:"window"`
	Scale       int        `yaml:"scale"`
	CursorScale int        `yaml:"cursor_scale"`
}

// WindowSize is a logical window size.
type WindowSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Fullscreen reports whether the game runs fullscreen.
func (s *Settings) Fullscreen() bool {
	return s.Display.Fullscreen
}

// WindowSize returns the logical size of the window in windowed mode.
func (s *Settings) WindowSize() (int, int) {
	return s.Display.Window.Width, s.Display.Window.Height
}

// SetDisplay records the display mode. The window size is only stored for
// windowed mode so leaving fullscreen restores the previous window.
func (s *Settings) SetDisplay(fullscreen bool, width, height int) {
	if s.Display.Fullscreen != fullscreen {
		s.Display.Fullscreen = fullscreen
		s.dirty = true
	}
	if fullscreen {
		return
	}
	if s.Display.Window.Width != width || s.Display.Window.Height != height {
		s.Display.Window = WindowSize{Width: width, Height: height}
		s.dirty = true
	}
}

// DisplayScale returns the display scale percentage.
func (s *Settings) DisplayScale() int {
	return s.Display.Scale
}

// SetDisplayScale stores the display scale percentage.
func (s *Settings) SetDisplayScale(pct int) {
	if s.Display.Scale != pct {
		s.Display.Scale = pct
		s.dirty = true
	}
}

// CursorScale returns the cursor scale percentage.
func (s *Settings) CursorScale() int {
	return s.Display.CursorScale
}

// SetCursorScale stores the cursor scale percentage.
func (s *Settings) SetCursorScale(pct int) {
	if s.Display.CursorScale != pct {
		s.Display.CursorScale = pct
		s.dirty = true
	}
}

// Dirty reports whether the settings changed since they were loaded or saved.
func (s *Settings) Dirty() bool {
	return s.dirty
}

// Path returns the file Save writes to.
func (s *Settings) Path() string {
	return s.path
}

// normalize clamps out-of-range values, logging each correction.
func (s *Settings) normalize(logger *log.Logger) {
	d := &s.Display
	if d.Window.Width < MinWindowWidth || d.Window.Height < MinWindowHeight {
		def := DefaultSettings().Display.Window
		logger.Warn("window size too small, using default",
			"width", d.Window.Width, "height", d.Window.Height,
			"default_width", def.Width, "default_height", def.Height)
		d.Window = def
	}
	if scale := core.Clamp(d.Scale, MinScale, MaxScale); scale != d.Scale {
		logger.Warn("display scale out of range", "scale", d.Scale, "using", scale)
		d.Scale = scale
	}
	if scale := cursor.NormalizeScale(d.CursorScale); scale != d.CursorScale {
		logger.Warn("unsupported cursor scale", "scale", d.CursorScale, "using", scale)
		d.CursorScale = scale
	}
}
