package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Raster is a CPU canvas backed by an RGBA image. It backs headless runs and
// PNG snapshots, so it follows the same compositing rules as the GPU surface.
type Raster struct {
	img        *image.RGBA
	op         CompositeOp
	shadowBlur float64
	shadowCol  color.RGBA
}

// NewRaster creates an opaque black raster of the given size.
func NewRaster(w, h int) *Raster {
	r := &Raster{}
	r.Resize(w, h)
	return r
}

// Resize reallocates the surface. Existing pixels are discarded.
func (r *Raster) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	Clear(r, Black)
}

// Size returns the surface dimensions.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) BeginFrame() {}
func (r *Raster) EndFrame()   {}

// SetComposite sets the blend mode for subsequent fills.
func (r *Raster) SetComposite(op CompositeOp) { r.op = op }

// SetShadow sets glow parameters for subsequent fills.
func (r *Raster) SetShadow(blur float64, c color.RGBA) {
	r.shadowBlur = blur
	r.shadowCol = c
}

// FillRect fills an axis-aligned rectangle, drawing the glow first.
func (r *Raster) FillRect(x, y, w, h float64, c color.RGBA) {
	if r.shadowBlur > 0 && r.shadowCol.A > 0 {
		r.glow(x, y, w, h)
	}
	r.fill(x, y, w, h, c)
}

// StrokeRect outlines a rectangle with the line centred on its edges.
func (r *Raster) StrokeRect(x, y, w, h, lineWidth float64, c color.RGBA) {
	hw := lineWidth / 2
	r.fill(x-hw, y-hw, w+lineWidth, lineWidth, c)   // top
	r.fill(x-hw, y+h-hw, w+lineWidth, lineWidth, c) // bottom
	r.fill(x-hw, y+hw, lineWidth, h-lineWidth, c)   // left
	r.fill(x+w-hw, y+hw, lineWidth, h-lineWidth, c) // right
}

// glow approximates a gaussian shadow with a few expanding low-alpha rings.
func (r *Raster) glow(x, y, w, h float64) {
	steps := int(math.Ceil(r.shadowBlur / 2))
	if steps > 6 {
		steps = 6
	}
	for i := steps; i >= 1; i-- {
		spread := r.shadowBlur * float64(i) / float64(steps)
		a := float64(r.shadowCol.A) / 255 * 0.35 / float64(i+1)
		r.fill(x-spread, y-spread, w+2*spread, h+2*spread, WithAlpha(r.shadowCol, a))
	}
}

func (r *Raster) fill(x, y, w, h float64, c color.RGBA) {
	if w <= 0 || h <= 0 || c.A == 0 {
		return
	}
	rect := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(r.img.Rect)
	if rect.Empty() {
		return
	}

	bf := r.op.Blend()
	srgb, drgb := bf.SrcRGB.Weight(c.A), bf.DstRGB.Weight(c.A)
	sa, da := bf.SrcAlpha.Weight(c.A), bf.DstAlpha.Weight(c.A)
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		i := r.img.PixOffset(rect.Min.X, py)
		for px := rect.Min.X; px < rect.Max.X; px++ {
			p := r.img.Pix[i : i+4 : i+4]
			p[0] = mix(p[0], c.R, srgb, drgb)
			p[1] = mix(p[1], c.G, srgb, drgb)
			p[2] = mix(p[2], c.B, srgb, drgb)
			p[3] = mix(p[3], c.A, sa, da)
			i += 4
		}
	}
}

// mix returns src*sw + dst*dw with weights in [0, 255], saturated.
func mix(dst, src uint8, sw, dw uint32) uint8 {
	v := (uint32(src)*sw + uint32(dst)*dw + 127) / 255
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// At returns the pixel at (x, y).
func (r *Raster) At(x, y int) color.RGBA {
	return r.img.RGBAAt(x, y)
}

// Image exposes the backing image. Callers must not retain it across Resize.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// WritePNG encodes the current surface to path.
func (r *Raster) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, r.img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}
