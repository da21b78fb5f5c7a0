package core

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var textFace = basicfont.Face7x13

// LineHeight is the advance between two lines of overlay text.
const LineHeight = 13

// DrawText draws text with its top-left corner at (x, y).
// Glyphs that extend beyond the buffer are clipped.
func (fb *Framebuffer) DrawText(x, y int, text string, c Color) {
	d := font.Drawer{
		Dst:  fb,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(x, y+textFace.Ascent),
	}
	d.DrawString(text)
}

// DrawTextCentered draws text centered horizontally at the given y position.
func (fb *Framebuffer) DrawTextCentered(y int, text string, c Color) {
	fb.DrawText((fb.width-TextWidth(text))/2, y, text, c)
}

// TextWidth returns the rendered width of text in pixels.
func TextWidth(text string) int {
	return font.MeasureString(textFace, text).Round()
}
