package headless

import (
	"errors"
	"fmt"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/platform"
)

// Window is a virtual window. Size changes made while it is live queue a
// size-changed event, as a real window manager would.
type Window struct {
	driver *Driver

	title        string
	x, y         int
	w, h         int
	windowedW    int
	windowedH    int
	minW, minH   int
	display      int
	fullscreen   bool
	grabbed      bool
	maximized    bool
	mode         platform.DisplayMode
	warpX, warpY int
	destroyed    bool
}

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// Size returns the physical size.
func (w *Window) Size() (int, int) { return w.w, w.h }

func (w *Window) resize(width, height int) {
	if width == w.w && height == w.h {
		return
	}
	w.w, w.h = width, height
	if !w.destroyed {
		w.driver.Push(platform.WindowEventOf(platform.WindowSizeChanged, width, height))
	}
}

// SetSize resizes a windowed window. In fullscreen only the size to restore is kept.
func (w *Window) SetSize(width, height int) {
	width = core.Max(width, w.minW)
	height = core.Max(height, w.minH)
	if w.fullscreen {
		w.windowedW, w.windowedH = width, height
		return
	}
	w.maximized = false
	w.resize(width, height)
}

// SetMinimumSize sets the smallest allowed size.
func (w *Window) SetMinimumSize(width, height int) { w.minW, w.minH = width, height }

// MinimumSize returns the smallest allowed size.
func (w *Window) MinimumSize() (int, int) { return w.minW, w.minH }

// Position returns the top-left corner.
func (w *Window) Position() (int, int) { return w.x, w.y }

// SetPosition moves the window.
func (w *Window) SetPosition(x, y int) { w.x, w.y = x, y }

// Center moves the window to the middle of its display.
func (w *Window) Center() {
	mode, err := w.driver.DesktopMode(w.display)
	if err != nil {
		return
	}
	w.x = (mode.W - w.w) / 2
	w.y = (mode.H - w.h) / 2
}

// DisplayIndex returns the display the window is on.
func (w *Window) DisplayIndex() int { return w.display }

// Fullscreen reports whether the window covers its display.
func (w *Window) Fullscreen() bool { return w.fullscreen }

// SetFullscreen switches between desktop fullscreen and windowed mode.
func (w *Window) SetFullscreen(on bool) error {
	if on == w.fullscreen {
		return nil
	}
	if on {
		if w.driver.opts.FailFullscreen {
			return errors.New("headless: fullscreen not available")
		}
		mode, err := w.driver.DesktopMode(w.display)
		if err != nil {
			return err
		}
		w.windowedW, w.windowedH = w.w, w.h
		w.fullscreen = true
		w.resize(mode.W, mode.H)
		return nil
	}
	w.fullscreen = false
	if w.windowedW > 0 && w.windowedH > 0 {
		w.resize(w.windowedW, w.windowedH)
	}
	return nil
}

// DisplayMode returns the mode used in fullscreen.
func (w *Window) DisplayMode() (platform.DisplayMode, error) {
	if w.mode.W > 0 {
		return w.mode, nil
	}
	return w.driver.DesktopMode(w.display)
}

// SetDisplayMode sets the mode used in fullscreen.
func (w *Window) SetDisplayMode(mode platform.DisplayMode) error {
	if mode.W <= 0 || mode.H <= 0 {
		return fmt.Errorf("headless: invalid display mode %dx%d", mode.W, mode.H)
	}
	w.mode = mode
	return nil
}

// Grabbed reports whether input is confined to the window.
func (w *Window) Grabbed() bool { return w.grabbed }

// SetGrab confines or releases input.
func (w *Window) SetGrab(on bool) { w.grabbed = on }

// Maximized reports whether the window is maximized.
func (w *Window) Maximized() bool { return w.maximized }

// Maximize grows the window to its display, as a user would.
func (w *Window) Maximize() {
	mode, err := w.driver.DesktopMode(w.display)
	if err != nil || w.fullscreen {
		return
	}
	w.windowedW, w.windowedH = w.w, w.h
	w.maximized = true
	w.resize(mode.W, mode.H)
}

// Restore leaves the maximized state.
func (w *Window) Restore() {
	if !w.maximized {
		return
	}
	w.maximized = false
	w.resize(w.windowedW, w.windowedH)
}

// WarpPointer records a pointer warp.
func (w *Window) WarpPointer(x, y int) {
	w.warpX, w.warpY = x, y
	w.driver.count(func(s *Stats) { s.Warps++ })
}

// LastWarp returns the last warp target in physical pixels.
func (w *Window) LastWarp() (int, int) { return w.warpX, w.warpY }

// Destroy releases the window. Destroying twice is counted once.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.driver.count(func(s *Stats) { s.WindowsDestroyed++ })
}

// Renderer is a virtual renderer that keeps the last frame's copies.
type Renderer struct {
	driver    *Driver
	software  bool
	logicalW  int
	logicalH  int
	copies    []Copy
	destroyed bool
}

// Copy records one texture draw.
type Copy struct {
	Texture *Texture
	Dst     *core.Rect
}

// Software reports whether this is the software fallback.
func (r *Renderer) Software() bool { return r.software }

// LogicalSize returns the size set by SetLogicalSize.
func (r *Renderer) LogicalSize() (int, int) { return r.logicalW, r.logicalH }

// Copies returns the draws made since the last Clear.
func (r *Renderer) Copies() []Copy { return r.copies }

// SetLogicalSize sets the device-independent resolution.
func (r *Renderer) SetLogicalSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("headless: invalid logical size %dx%d", w, h)
	}
	r.logicalW, r.logicalH = w, h
	return nil
}

// CreateTexture allocates a texture.
func (r *Renderer) CreateTexture(w, h int, access platform.TextureAccess) (platform.Texture, error) {
	d := r.driver
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.opts.FailTextures > 0 {
		d.opts.FailTextures--
		return nil, errors.New("headless: texture creation failed")
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("headless: invalid texture size %dx%d", w, h)
	}
	d.stats.TexturesCreated++
	return &Texture{driver: d, w: w, h: h, access: access}, nil
}

// Clear starts a new frame.
func (r *Renderer) Clear() error {
	r.copies = r.copies[:0]
	return nil
}

// Copy records a draw.
func (r *Renderer) Copy(t platform.Texture, dst *core.Rect) error {
	tex, ok := t.(*Texture)
	if !ok || tex.destroyed {
		return errors.New("headless: copy of invalid texture")
	}
	var d *core.Rect
	if dst != nil {
		c := *dst
		d = &c
	}
	r.copies = append(r.copies, Copy{Texture: tex, Dst: d})
	r.driver.count(func(s *Stats) { s.Copies++ })
	return nil
}

// Present counts a presented frame.
func (r *Renderer) Present() {
	r.driver.count(func(s *Stats) { s.Presents++ })
}

// Destroy releases the renderer.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.driver.count(func(s *Stats) { s.RenderersDestroyed++ })
}

// Texture keeps a copy of the last upload.
type Texture struct {
	driver    *Driver
	w, h      int
	access    platform.TextureAccess
	pixels    []core.Color
	blend     bool
	destroyed bool
}

// Size returns the texture size.
func (t *Texture) Size() (int, int) { return t.w, t.h }

// Access returns how the texture was created.
func (t *Texture) Access() platform.TextureAccess { return t.access }

// Blend reports whether alpha blending is on.
func (t *Texture) Blend() bool { return t.blend }

// Pixels returns the last uploaded pixels.
func (t *Texture) Pixels() []core.Color { return t.pixels }

// Destroyed reports whether Destroy was called.
func (t *Texture) Destroyed() bool { return t.destroyed }

// Update copies pixels into the texture.
func (t *Texture) Update(pixels []core.Color, pitch int) error {
	if pitch != t.w*4 {
		return fmt.Errorf("headless: pitch %d does not match width %d", pitch, t.w)
	}
	if len(pixels) < t.w*t.h {
		return fmt.Errorf("headless: %d pixels for a %dx%d texture", len(pixels), t.w, t.h)
	}
	t.pixels = append(t.pixels[:0], pixels[:t.w*t.h]...)
	t.driver.count(func(s *Stats) { s.Uploads++ })
	return nil
}

// SetBlend toggles alpha blending.
func (t *Texture) SetBlend(on bool) error {
	t.blend = on
	return nil
}

// Destroy releases the texture.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.driver.count(func(s *Stats) { s.TexturesDestroyed++ })
}
