package systems

import (
	"image/color"
	"math"

	"github.com/pthm-cable/circuit/config"
)

// Bounds holds canvas geometry derived for the active mode. It must be
// recomputed whenever the canvas size or the mode's unit length changes.
type Bounds struct {
	Width, Height float64 // canvas pixels
	CX, CY        float64 // canvas-space anchor of the shape

	// Hexagon: traces past these grid-unit limits die
	DieX, DieY float64
	// Chip: traces past this grid-unit distance on either axis die
	MaxDist float64
}

// ComputeBounds derives Bounds for a canvas size and mode. Degenerate sizes
// yield zero limits, which makes every trace die at its next phase.
func ComputeBounds(width, height int, mode *config.ModeConfig) Bounds {
	w := math.Max(float64(width), 0)
	h := math.Max(float64(height), 0)
	b := Bounds{Width: w, Height: h, CX: w / 2, CY: h / 2}
	if mode == nil || mode.UnitLength <= 0 {
		return b
	}
	b.DieX = w / 2 / mode.UnitLength
	b.DieY = h / 2 / mode.UnitLength
	b.MaxDist = math.Max(w, h) / (2 * mode.UnitLength)
	return b
}

// Env is everything a trace needs for one call: the active mode's parameters
// and the geometry computed for it. It is passed explicitly on every call.
type Env struct {
	Shape   Shape
	Mode    *config.ModeConfig
	Bounds  Bounds
	Palette []color.RGBA
}
