// Package cursor provides the pointer shapes and renders them at the
// configured cursor scale.
package cursor

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/praetor-game/praetor/internal/core"
)

// Shape identifies a pointer shape.
type Shape int

const (
	Arrow Shape = iota
	Shovel
	Sword
	// Count is the number of shapes.
	Count
)

func (s Shape) String() string {
	switch s {
	case Arrow:
		return "arrow"
	case Shovel:
		return "shovel"
	case Sword:
		return "sword"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Supported cursor scales in percent.
var Scales = []int{100, 150, 200}

type shape struct {
	hotX, hotY int
	rows       []string
}

// '#' is the outline, '\'' the fill, anything else is transparent.
var shapes = [Count]shape{
	Arrow: {0, 0, []string{
		"#",
		"##",
		"#'#",
		"#''#",
		"#'''#",
		"#''''#",
		"#'''''#",
		"#''''''#",
		"#'''''''#",
		"#''''''''#",
		"#'''''''''#",
		"#''''''#####",
		"#'''#''#",
		"#''# #''#",
		"#'#  #''#",
		"##    #''#",
		"#     #''#",
		"       #''#",
		"       #''#",
		"        ##",
	}},
	Shovel: {1, 14, []string{
		"          ####",
		"         #''''#",
		"         #'''''#",
		"          #''''#",
		"         #''###",
		"        #''#",
		"       #''#",
		"      #''#",
		"  ## #''#",
		" #''#''#",
		"#''''''#",
		"#'''''#",
		"#''''#",
		"#'''#",
		" ###",
	}},
	Sword: {0, 0, []string{
		"##",
		"#'#",
		" #'#",
		"  #'#",
		"   #'#",
		"    #'#",
		"     #'#",
		"      #'#   ##",
		"       #'# #'#",
		"        #'#'#",
		"         #'#",
		"        #'#'#",
		"       #'# #'##",
		"      ##    #''#",
		"             ##",
	}},
}

// Image is a rendered cursor.
type Image struct {
	Shape      Shape
	HotX, HotY int
	RGBA       *image.RGBA
}

// Width returns the image width.
func (img *Image) Width() int { return img.RGBA.Bounds().Dx() }

// Height returns the image height.
func (img *Image) Height() int { return img.RGBA.Bounds().Dy() }

// NormalizeScale maps any percentage to the nearest supported cursor scale.
func NormalizeScale(pct int) int {
	best := Scales[0]
	for _, s := range Scales[1:] {
		if core.Abs(s-pct) < core.Abs(best-pct) {
			best = s
		}
	}
	return best
}

// Render draws shape at the given cursor scale percentage.
func Render(s Shape, scalePct int) (*Image, error) {
	if s < 0 || s >= Count {
		return nil, fmt.Errorf("cursor: unknown shape %d", int(s))
	}
	def := shapes[s]
	base := rasterize(def.rows)
	scalePct = NormalizeScale(scalePct)
	if scalePct == 100 {
		return &Image{Shape: s, HotX: def.hotX, HotY: def.hotY, RGBA: base}, nil
	}

	b := base.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scalePct/100, b.Dy()*scalePct/100))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, b, draw.Src, nil)
	return &Image{
		Shape: s,
		HotX:  def.hotX * scalePct / 100,
		HotY:  def.hotY * scalePct / 100,
		RGBA:  dst,
	}, nil
}

func rasterize(rows []string) *image.RGBA {
	width := 0
	for _, r := range rows {
		width = core.Max(width, len(r))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, len(rows)))
	for y, r := range rows {
		for x, ch := range r {
			switch ch {
			case '#':
				img.SetRGBA(x, y, color.RGBA{A: 0xFF})
			case '\'':
				img.SetRGBA(x, y, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
			}
		}
	}
	return img
}

// TextureSize returns the power-of-two edge of a square texture that holds
// an image of the given size.
func TextureSize(w, h int) int {
	size := 1
	for size < w || size < h {
		size <<= 1
	}
	return size
}

// Pixels returns the image as size*size ARGB pixels, anchored top-left and
// padded with transparency.
func (img *Image) Pixels(size int) []core.Color {
	pix := make([]core.Color, size*size)
	b := img.RGBA.Bounds()
	for y := 0; y < core.Min(b.Dy(), size); y++ {
		for x := 0; x < core.Min(b.Dx(), size); x++ {
			c := img.RGBA.RGBAAt(b.Min.X+x, b.Min.Y+y)
			pix[y*size+x] = core.ARGB(c.A, c.R, c.G, c.B)
		}
	}
	return pix
}
