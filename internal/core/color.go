package core

import "image/color"

// Color is a 32-bit 0xAARRGGBB pixel, the framebuffer's native format.
// Uploading it as ARGB8888 needs no conversion on little-endian hosts.
type Color uint32

// Predefined colors used by overlays and the test card.
const (
	ColorTransparent Color = 0x00000000
	ColorBlack       Color = 0xFF000000
	ColorWhite       Color = 0xFFFFFFFF
	ColorRed         Color = 0xFFFF0000
	ColorGreen       Color = 0xFF00FF00
	ColorBlue        Color = 0xFF0000FF
	ColorYellow      Color = 0xFFFFFF00
	ColorGray        Color = 0xFF808080
	ColorDarkGray    Color = 0xFF202020
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return ARGB(0xFF, r, g, b)
}

// ARGB returns a color with an explicit alpha channel.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c) }

// RGBA implements color.Color with alpha-premultiplied components.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A())
	r = uint32(c.R()) * a / 0xFF
	g = uint32(c.G()) * a / 0xFF
	b = uint32(c.B()) * a / 0xFF
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

// ColorModel converts any color.Color into a Color.
var ColorModel = color.ModelFunc(toColor)

func toColor(c color.Color) color.Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(nrgba.A, nrgba.R, nrgba.G, nrgba.B)
}
