// Package platform defines the driver-neutral view of the host: windows,
// renderers, textures and the event queue. Concrete drivers live in
// subpackages and register themselves with the registry.
package platform

import (
	"errors"
	"time"

	"github.com/praetor-game/praetor/internal/core"
)

// ErrQueueClosed is returned by blocking waits after the driver shut down.
var ErrQueueClosed = errors.New("platform: event queue closed")

// DisplayMode is a display resolution in physical pixels.
type DisplayMode struct {
	W, H        int
	RefreshRate int
}

// WindowConfig describes the window to create.
type WindowConfig struct {
	Title         string
	Width, Height int
	Display       int
	Fullscreen    bool
	Resizable     bool
	HighDPI       bool
}

// TextureAccess selects how a texture is updated.
type TextureAccess int

const (
	// TextureStreaming textures are rewritten every frame.
	TextureStreaming TextureAccess = iota
	// TextureStatic textures are uploaded once.
	TextureStatic
)

// ScaleQuality is the filter used when the renderer scales textures.
type ScaleQuality int

const (
	ScaleNearest ScaleQuality = iota
	ScaleLinear
)

func (q ScaleQuality) String() string {
	if q == ScaleNearest {
		return "nearest"
	}
	return "linear"
}

// Driver is one windowing backend. All methods except Post must be called
// from the goroutine running the event loop.
type Driver interface {
	Name() string
	Capabilities() Capabilities

	Init() error
	Quit()

	NumDisplays() int
	DesktopMode(display int) (DisplayMode, error)
	// Density is the ratio of physical pixels to points.
	Density() float64
	VideoDriver() string
	SetScaleQuality(q ScaleQuality)

	CreateWindow(cfg WindowConfig) (Window, error)
	CreateRenderer(w Window, software bool) (Renderer, error)

	// PollEvent returns the next pending event without blocking.
	PollEvent() (Event, bool)
	// WaitEvent blocks until an event is available.
	WaitEvent() (Event, error)
	// Post queues a command. It is safe to call from any goroutine.
	Post(cmd Command) error

	RelativeMouseMode() bool
	Ticks() time.Duration
	ShowMessage(title, message string) error
	BasePath() string
}

// Window is the OS window. Sizes are physical pixels.
type Window interface {
	Size() (w, h int)
	SetSize(w, h int)
	SetMinimumSize(w, h int)
	Position() (x, y int)
	SetPosition(x, y int)
	Center()
	DisplayIndex() int
	SetFullscreen(on bool) error
	DisplayMode() (DisplayMode, error)
	SetDisplayMode(mode DisplayMode) error
	Grabbed() bool
	SetGrab(on bool)
	Maximized() bool
	Restore()
	WarpPointer(x, y int)
	Destroy()
}

// Renderer draws textures into the window. Coordinates are logical once
// SetLogicalSize was called.
type Renderer interface {
	SetLogicalSize(w, h int) error
	CreateTexture(w, h int, access TextureAccess) (Texture, error)
	Clear() error
	// Copy draws the whole texture into dst, or the full target when dst is nil.
	Copy(t Texture, dst *core.Rect) error
	Present()
	Destroy()
}

// Texture is a GPU-side ARGB8888 image.
type Texture interface {
	Size() (w, h int)
	// Update uploads pixels; pitch is the row length in bytes.
	Update(pixels []core.Color, pitch int) error
	SetBlend(on bool) error
	Destroy()
}
