package tui

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/platform"
)

// window is the terminal itself. Its size follows the terminal and cannot
// be changed by the application.
type window struct {
	driver  *Driver
	grabbed bool
}

func (w *window) Size() (int, int) { return w.driver.pixelSize() }

func (w *window) SetSize(int, int)        {}
func (w *window) SetMinimumSize(int, int) {}
func (w *window) Position() (int, int)    { return 0, 0 }
func (w *window) SetPosition(int, int)    {}
func (w *window) Center()                 {}
func (w *window) DisplayIndex() int       { return 0 }
func (w *window) Grabbed() bool           { return w.grabbed }
func (w *window) SetGrab(on bool)         { w.grabbed = on }
func (w *window) Maximized() bool         { return false }
func (w *window) Restore()                {}
func (w *window) WarpPointer(int, int)    {}

func (w *window) SetFullscreen(on bool) error {
	if !on {
		return errors.New("tui: the terminal is always fullscreen")
	}
	return nil
}

func (w *window) DisplayMode() (platform.DisplayMode, error) {
	return w.driver.DesktopMode(0)
}

func (w *window) SetDisplayMode(platform.DisplayMode) error { return nil }

func (w *window) Destroy() {
	w.driver.stopProgram()
}

// renderer composes textures on a canvas of the logical size and scales it
// down to the terminal on Present.
type renderer struct {
	driver *Driver
	canvas *image.RGBA
}

func (r *renderer) SetLogicalSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("tui: invalid logical size %dx%d", w, h)
	}
	r.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	r.driver.setLogicalSize(w, h)
	return nil
}

func (r *renderer) CreateTexture(w, h int, _ platform.TextureAccess) (platform.Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("tui: invalid texture size %dx%d", w, h)
	}
	return &texture{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (r *renderer) Clear() error {
	if r.canvas != nil {
		draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return nil
}

func (r *renderer) Copy(t platform.Texture, dst *core.Rect) error {
	tex, ok := t.(*texture)
	if !ok {
		return errors.New("tui: foreign texture")
	}
	if r.canvas == nil {
		return errors.New("tui: logical size not set")
	}
	target := r.canvas.Bounds()
	if dst != nil {
		target = image.Rect(dst.X, dst.Y, dst.Right(), dst.Bottom())
	}
	op := draw.Src
	if tex.blend {
		op = draw.Over
	}
	draw.NearestNeighbor.Scale(r.canvas, target, tex.img, tex.img.Bounds(), op, nil)
	return nil
}

func (r *renderer) Present() {
	if r.canvas == nil {
		return
	}
	pw, ph := r.driver.pixelSize()
	if pw <= 0 || ph <= 0 {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, pw, ph))
	var scaler draw.Scaler = draw.ApproxBiLinear
	if r.driver.ScaleQuality() == platform.ScaleNearest {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(out, out.Bounds(), r.canvas, r.canvas.Bounds(), draw.Src, nil)
	r.driver.present(RenderFrame(out))
}

func (r *renderer) Destroy() {
	r.canvas = nil
}

// texture keeps its pixels as premultiplied RGBA.
type texture struct {
	img   *image.RGBA
	blend bool
}

func (t *texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *texture) Update(pixels []core.Color, pitch int) error {
	w, h := t.Size()
	if pitch != w*4 || len(pixels) < w*h {
		return fmt.Errorf("tui: texture update %d pixels pitch %d does not fit %dx%d", len(pixels), pitch, w, h)
	}
	for i, c := range pixels[:w*h] {
		a := uint32(c.A())
		p := t.img.Pix[i*4 : i*4+4 : i*4+4]
		p[0] = uint8(uint32(c.R()) * a / 0xff)
		p[1] = uint8(uint32(c.G()) * a / 0xff)
		p[2] = uint8(uint32(c.B()) * a / 0xff)
		p[3] = uint8(a)
	}
	return nil
}

func (t *texture) SetBlend(on bool) error {
	t.blend = on
	return nil
}

func (t *texture) Destroy() {}
