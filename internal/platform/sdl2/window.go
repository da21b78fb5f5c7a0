package sdl2

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/platform"
)

type window struct {
	w *sdl.Window
}

func (w *window) Size() (int, int) {
	width, height := w.w.GetSize()
	return int(width), int(height)
}

func (w *window) SetSize(width, height int) { w.w.SetSize(int32(width), int32(height)) }

func (w *window) SetMinimumSize(width, height int) {
	w.w.SetMinimumSize(int32(width), int32(height))
}

func (w *window) Position() (int, int) {
	x, y := w.w.GetPosition()
	return int(x), int(y)
}

func (w *window) SetPosition(x, y int) { w.w.SetPosition(int32(x), int32(y)) }

// Center moves the window to the middle of its current display.
func (w *window) Center() {
	pos := int32(sdl.WINDOWPOS_CENTERED_MASK | w.DisplayIndex())
	w.w.SetPosition(pos, pos)
}

func (w *window) DisplayIndex() int {
	idx, err := w.w.GetDisplayIndex()
	if err != nil {
		return 0
	}
	return idx
}

func (w *window) SetFullscreen(on bool) error {
	var flags uint32
	if on {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.w.SetFullscreen(flags); err != nil {
		return fmt.Errorf("sdl: set fullscreen %v: %w", on, err)
	}
	return nil
}

func (w *window) DisplayMode() (platform.DisplayMode, error) {
	mode, err := w.w.GetDisplayMode()
	if err != nil {
		return platform.DisplayMode{}, fmt.Errorf("sdl: window display mode: %w", err)
	}
	return fromSDLMode(mode), nil
}

func (w *window) SetDisplayMode(mode platform.DisplayMode) error {
	m := sdl.DisplayMode{
		Format:      sdl.PIXELFORMAT_UNKNOWN,
		W:           int32(mode.W),
		H:           int32(mode.H),
		RefreshRate: int32(mode.RefreshRate),
	}
	if err := w.w.SetDisplayMode(&m); err != nil {
		return fmt.Errorf("sdl: set display mode %dx%d: %w", mode.W, mode.H, err)
	}
	return nil
}

func (w *window) Grabbed() bool   { return w.w.GetGrab() }
func (w *window) SetGrab(on bool) { w.w.SetGrab(on) }

func (w *window) Maximized() bool {
	return w.w.GetFlags()&sdl.WINDOW_MAXIMIZED != 0
}

func (w *window) Restore() { w.w.Restore() }

func (w *window) WarpPointer(x, y int) { w.w.WarpMouseInWindow(int32(x), int32(y)) }

func (w *window) Destroy() {
	_ = w.w.Destroy()
}

type renderer struct {
	r *sdl.Renderer
}

func (r *renderer) SetLogicalSize(w, h int) error {
	if err := r.r.SetLogicalSize(int32(w), int32(h)); err != nil {
		return fmt.Errorf("sdl: set logical size: %w", err)
	}
	return nil
}

func (r *renderer) CreateTexture(w, h int, access platform.TextureAccess) (platform.Texture, error) {
	a := sdl.TEXTUREACCESS_STREAMING
	if access == platform.TextureStatic {
		a = sdl.TEXTUREACCESS_STATIC
	}
	t, err := r.r.CreateTexture(sdl.PIXELFORMAT_ARGB8888, a, int32(w), int32(h))
	if err != nil {
		return nil, fmt.Errorf("sdl: cannot create %dx%d texture: %w", w, h, err)
	}
	return &texture{t: t, w: w, h: h}, nil
}

func (r *renderer) Clear() error { return r.r.Clear() }

func (r *renderer) Copy(t platform.Texture, dst *core.Rect) error {
	tex, ok := t.(*texture)
	if !ok {
		return fmt.Errorf("sdl: foreign texture %T", t)
	}
	var rect *sdl.Rect
	if dst != nil {
		rect = &sdl.Rect{X: int32(dst.X), Y: int32(dst.Y), W: int32(dst.W), H: int32(dst.H)}
	}
	return r.r.Copy(tex.t, nil, rect)
}

func (r *renderer) Present() { r.r.Present() }

func (r *renderer) Destroy() { _ = r.r.Destroy() }

type texture struct {
	t    *sdl.Texture
	w, h int
}

func (t *texture) Size() (int, int) { return t.w, t.h }

// Update uploads ARGB8888 pixels; core.Color has the same memory layout.
func (t *texture) Update(pixels []core.Color, pitch int) error {
	if len(pixels) == 0 || len(pixels)*4 < pitch*t.h {
		return fmt.Errorf("sdl: texture update of %d pixels does not fit %dx%d", len(pixels), t.w, t.h)
	}
	return t.t.Update(nil, unsafe.Pointer(&pixels[0]), pitch)
}

func (t *texture) SetBlend(on bool) error {
	var mode sdl.BlendMode = sdl.BLENDMODE_NONE
	if on {
		mode = sdl.BLENDMODE_BLEND
	}
	return t.t.SetBlendMode(mode)
}

func (t *texture) Destroy() { _ = t.t.Destroy() }
