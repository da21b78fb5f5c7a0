package core

import (
	"image"
	"image/color"
)

// Framebuffer is the logical-resolution pixel buffer the simulation draws into.
// Pixels are stored row-major with no padding, so the pitch is Width()*4 bytes.
// It implements draw.Image, which lets x/image fonts and scalers target it.
type Framebuffer struct {
	width  int
	height int
	pix    []Color
}

// NewFramebuffer creates a black framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		width:  width,
		height: height,
	}
	fb.allocate()
	fb.Clear(ColorBlack)
	return fb
}

func (fb *Framebuffer) allocate() {
	fb.pix = make([]Color, Max(fb.width, 0)*Max(fb.height, 0))
}

// Width returns the width in logical pixels.
func (fb *Framebuffer) Width() int {
	return fb.width
}

// Height returns the height in logical pixels.
func (fb *Framebuffer) Height() int {
	return fb.height
}

// Pitch returns the length of one row in bytes.
func (fb *Framebuffer) Pitch() int {
	return fb.width * 4
}

// Pixels exposes the backing slice for upload. Callers must not keep it
// across a Resize.
func (fb *Framebuffer) Pixels() []Color {
	return fb.pix
}

// Resize changes the dimensions, preserving content where possible.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.width && height == fb.height {
		return
	}

	oldPix := fb.pix
	oldW, oldH := fb.width, fb.height

	fb.width = width
	fb.height = height
	fb.allocate()
	fb.Clear(ColorBlack)

	copyW := Min(oldW, width)
	copyH := Min(oldH, height)
	for y := 0; y < copyH; y++ {
		copy(fb.pix[y*width:y*width+copyW], oldPix[y*oldW:y*oldW+copyW])
	}
}

// Clear fills the entire buffer with c.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.pix {
		fb.pix[i] = c
	}
}

// SetPixel writes a pixel. Out-of-bounds coordinates are silently ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.pix[y*fb.width+x] = c
}

// Pixel returns the pixel at (x, y), or transparent when out of bounds.
func (fb *Framebuffer) Pixel(x, y int) Color {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return ColorTransparent
	}
	return fb.pix[y*fb.width+x]
}

// FillRect fills the part of r that lies inside the buffer.
func (fb *Framebuffer) FillRect(r Rect, c Color) {
	r = r.Intersect(fb.Rect())
	for y := r.Y; y < r.Bottom(); y++ {
		row := fb.pix[y*fb.width+r.X : y*fb.width+r.Right()]
		for i := range row {
			row[i] = c
		}
	}
}

// StrokeRect draws a one pixel outline of r.
func (fb *Framebuffer) StrokeRect(r Rect, c Color) {
	if r.Empty() {
		return
	}
	fb.DrawHLine(r.X, r.Y, r.W, c)
	fb.DrawHLine(r.X, r.Bottom()-1, r.W, c)
	fb.DrawVLine(r.X, r.Y, r.H, c)
	fb.DrawVLine(r.Right()-1, r.Y, r.H, c)
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (fb *Framebuffer) DrawHLine(x, y, length int, c Color) {
	fb.FillRect(NewRect(x, y, length, 1), c)
}

// DrawVLine draws a vertical line from (x, y) with the given length.
func (fb *Framebuffer) DrawVLine(x, y, length int, c Color) {
	fb.FillRect(NewRect(x, y, 1, length), c)
}

// Rect returns the buffer bounds as a Rect.
func (fb *Framebuffer) Rect() Rect {
	return NewRect(0, 0, fb.width, fb.height)
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model {
	return ColorModel
}

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// At implements image.Image.
func (fb *Framebuffer) At(x, y int) color.Color {
	return fb.Pixel(x, y)
}

// Set implements draw.Image.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, toColor(c).(Color))
}
