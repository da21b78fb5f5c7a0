package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HalfBlock draws the upper pixel in the foreground color and the lower
// pixel in the background color.
const HalfBlock = '▀'

type cellColors struct {
	top, bottom lipgloss.Color
}

func hexColor(img *image.RGBA, x, y int) lipgloss.Color {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+3 : i+3]
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", p[0], p[1], p[2]))
}

// RenderFrame converts an image to half-block cells. Each output line covers
// two pixel rows. Adjacent cells with the same colors are grouped to
// minimize ANSI escape sequences.
func RenderFrame(img *image.RGBA) string {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	rows := (height + 1) / 2

	var sb strings.Builder
	sb.Grow(width*rows*4 + rows)

	for row := range rows {
		if row > 0 {
			sb.WriteRune('\n')
		}
		y := b.Min.Y + row*2

		cellAt := func(x int) cellColors {
			c := cellColors{top: hexColor(img, x, y), bottom: "#000000"}
			if y+1 < b.Max.Y {
				c.bottom = hexColor(img, x, y+1)
			}
			return c
		}

		x := b.Min.X
		for x < b.Max.X {
			start := cellAt(x)
			n := 0
			for x < b.Max.X && cellAt(x) == start {
				n++
				x++
			}
			style := lipgloss.NewStyle().Foreground(start.top).Background(start.bottom)
			sb.WriteString(style.Render(strings.Repeat(string(HalfBlock), n)))
		}
	}
	return sb.String()
}
