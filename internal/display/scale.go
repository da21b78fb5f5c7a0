package display

import "github.com/praetor-game/praetor/internal/core"

// Logical resolution the simulation needs at minimum, and the scale range.
const (
	MinLogicalWidth  = 640
	MinLogicalHeight = 480
	MinScale         = 50
	MaxScale         = 500
)

// PixelsToLogical converts a physical length to logical pixels at pct percent.
// Both divisions truncate.
func PixelsToLogical(pixels, pct int, density float64) int {
	return int(float64(pixels*100/pct) / density)
}

// LogicalToPixels converts a logical length to physical pixels at pct percent.
// Density is applied as a multiplier on this side, the inverse of the
// division in PixelsToLogical, so a size survives the round trip.
func LogicalToPixels(logical, pct int, density float64) int {
	return int(float64(logical*pct/100) * density)
}

// MaxScalePercentage is the largest scale at which a MinLogicalWidth x
// MinLogicalHeight logical screen still fits a physical size.
func MaxScalePercentage(pixelW, pixelH int, density float64) int {
	byWidth := int(float64(pixelW*100) / density / MinLogicalWidth)
	byHeight := int(float64(pixelH*100) / density / MinLogicalHeight)
	return core.Min(byWidth, byHeight)
}

// EffectiveScale lowers requested to the maximum the physical size allows,
// keeping the result within [MinScale, MaxScale].
func EffectiveScale(requested, pixelW, pixelH int, density float64) int {
	return core.Clamp(core.Min(requested, MaxScalePercentage(pixelW, pixelH, density)), MinScale, MaxScale)
}

type scaleState struct {
	requested int
	effective int
	density   float64
}

func (s scaleState) toLogical(pixels int) int {
	return PixelsToLogical(pixels, s.effective, s.density)
}

func (s scaleState) toPixels(logical int) int {
	return LogicalToPixels(logical, s.effective, s.density)
}
