package platform

import (
	"fmt"
	"runtime"
	"sort"
)

// Capabilities describes what the host platform allows. It is injected at
// startup so every platform variant goes through the same code paths.
type Capabilities struct {
	// FixedResolution platforms are fullscreen-only: the window always covers
	// the display and windowed-mode requests are ignored.
	FixedResolution bool
	// InteractiveScaling is false where the scale percentage is pinned to 100.
	InteractiveScaling bool
	// VariableOrientation devices can rotate, so the display may swap axes.
	VariableOrientation bool
	// SoftwareCursor draws the pointer into the frame instead of using an OS cursor.
	SoftwareCursor bool
	// PreferLinearScaling keeps linear filtering even at whole-number scales.
	PreferLinearScaling bool
	// RecoverLostTexture recreates a presentation texture the OS discarded.
	RecoverLostTexture bool
	// FileLogging sends the log to a file because there is no console.
	FileLogging bool
	// RestartOnQuit re-runs setup instead of exiting the process.
	RestartOnQuit bool
	// Dialogs means native message boxes and folder pickers are available.
	Dialogs bool
}

// Desktop returns the capabilities of a regular windowed desktop.
func Desktop() Capabilities {
	return Capabilities{
		InteractiveScaling: true,
		Dialogs:            true,
	}
}

var profiles = map[string]Capabilities{
	"desktop": Desktop(),
	"linux":   Desktop(),
	"darwin": {
		InteractiveScaling:  true,
		PreferLinearScaling: true,
		Dialogs:             true,
	},
	"windows": {
		InteractiveScaling: true,
		RecoverLostTexture: true,
		FileLogging:        true,
		Dialogs:            true,
	},
	"android": {
		FixedResolution:     true,
		InteractiveScaling:  true,
		VariableOrientation: true,
		PreferLinearScaling: true,
		FileLogging:         true,
	},
	"ios": {
		FixedResolution:     true,
		InteractiveScaling:  true,
		VariableOrientation: true,
		PreferLinearScaling: true,
		RestartOnQuit:       true,
	},
	"console": {
		FixedResolution:    true,
		InteractiveScaling: true,
		FileLogging:        true,
	},
	"handheld": {
		FixedResolution: true,
		SoftwareCursor:  true,
		FileLogging:     true,
	},
}

// Profile returns a named capability profile.
func Profile(name string) (Capabilities, error) {
	caps, ok := profiles[name]
	if !ok {
		return Capabilities{}, fmt.Errorf("platform: unknown profile %q", name)
	}
	return caps, nil
}

// Profiles returns the known profile names, sorted.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HostCapabilities returns the profile matching the running operating system.
func HostCapabilities() Capabilities {
	if caps, ok := profiles[runtime.GOOS]; ok {
		return caps
	}
	return Desktop()
}
