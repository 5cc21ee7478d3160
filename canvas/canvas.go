// Package canvas defines the persistent drawing surface the engine paints on.
//
// Colors passed to a Canvas are straight (non-premultiplied) RGBA, the same
// convention raylib uses. Coordinates are pixels with y growing downward.
package canvas

import "image/color"

// CompositeOp selects how subsequent fills combine with existing pixels.
type CompositeOp uint8

const (
	// SourceOver blends the fill over the destination by its alpha.
	SourceOver CompositeOp = iota
	// Lighter adds the fill to the destination, saturating each channel.
	Lighter
)

// String returns the canvas-style name of the op.
func (op CompositeOp) String() string {
	switch op {
	case SourceOver:
		return "source-over"
	case Lighter:
		return "lighter"
	}
	return "unknown"
}

// Factor weights one side of a blend.
type Factor uint8

const (
	FactorZero Factor = iota
	FactorOne
	FactorSrcAlpha
	FactorOneMinusSrcAlpha
)

// Weight returns the factor scaled to [0, 255] for a source alpha of a.
func (f Factor) Weight(a uint8) uint32 {
	switch f {
	case FactorOne:
		return 255
	case FactorSrcAlpha:
		return uint32(a)
	case FactorOneMinusSrcAlpha:
		return 255 - uint32(a)
	}
	return 0
}

// BlendFunc is a separable additive blend: each channel becomes
// src*Src + dst*Dst, saturated, with separate factors for color and alpha.
type BlendFunc struct {
	SrcRGB, DstRGB     Factor
	SrcAlpha, DstAlpha Factor
}

// Blend returns the blend function of op. Every surface implements op with
// exactly these factors, so an opaque surface stays opaque under both ops.
func (op CompositeOp) Blend() BlendFunc {
	if op == Lighter {
		return BlendFunc{
			SrcRGB: FactorSrcAlpha, DstRGB: FactorOne,
			SrcAlpha: FactorOne, DstAlpha: FactorOne,
		}
	}
	return BlendFunc{
		SrcRGB: FactorSrcAlpha, DstRGB: FactorOneMinusSrcAlpha,
		SrcAlpha: FactorOne, DstAlpha: FactorOneMinusSrcAlpha,
	}
}

// Canvas is a persistent 2D surface. Pixels survive between frames; the frame
// driver fades them explicitly.
type Canvas interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h int)

	// BeginFrame and EndFrame bracket a batch of draw calls.
	BeginFrame()
	EndFrame()

	SetComposite(op CompositeOp)
	// SetShadow sets the glow applied around subsequent fills. blur <= 0 disables it.
	SetShadow(blur float64, c color.RGBA)

	FillRect(x, y, w, h float64, c color.RGBA)
	StrokeRect(x, y, w, h, lineWidth float64, c color.RGBA)
}

// Black is the opaque clear color.
var Black = color.RGBA{A: 255}

// Clear paints the whole surface with an opaque color, ignoring shadow and composite state.
func Clear(cv Canvas, c color.RGBA) {
	w, h := cv.Size()
	cv.SetComposite(SourceOver)
	cv.SetShadow(0, c)
	c.A = 255
	cv.FillRect(0, 0, float64(w), float64(h), c)
}

// WithAlpha returns c with its alpha set from a [0, 1] fraction.
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(alpha*255 + 0.5)
	return c
}
