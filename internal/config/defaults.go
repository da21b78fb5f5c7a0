package config

import (
	_ "embed"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

// Limits applied when normalizing loaded settings.
const (
	MinWindowWidth  = 640
	MinWindowHeight = 480
	MinScale        = 50
	MaxScale        = 500
)

// DefaultSettings returns the hardcoded defaults, used when no file parses.
func DefaultSettings() *Settings {
	return &Settings{
		Display: DisplaySettings{
			Fullscreen:  false,
			Window:      WindowSize{Width: 1024, Height: 768},
			Scale:       100,
			CursorScale: 100,
		},
	}
}
