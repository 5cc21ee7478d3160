// Package renderer provides the GPU trail surface the engine paints on.
package renderer

import (
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/circuit/canvas"
)

// maxGlowRings bounds the halo drawn around each fill.
const maxGlowRings = 6

// TrailCanvas is a persistent render texture implementing canvas.Canvas.
// Pixels are never cleared between frames; the engine fades them itself.
// Must be created after the raylib window.
type TrailCanvas struct {
	target        rl.RenderTexture2D
	width, height int

	op         canvas.CompositeOp
	shadowBlur float64
	shadowCol  color.RGBA

	inFrame bool
}

// NewTrailCanvas allocates a black trail surface.
func NewTrailCanvas(width, height int) *TrailCanvas {
	tc := &TrailCanvas{}
	tc.Resize(width, height)
	return tc
}

// Resize reallocates the render texture. Existing pixels are discarded.
func (tc *TrailCanvas) Resize(width, height int) {
	if tc.inFrame {
		tc.EndFrame()
	}
	if tc.width > 0 && tc.height > 0 {
		rl.UnloadRenderTexture(tc.target)
	}
	tc.width, tc.height = max(width, 0), max(height, 0)
	if tc.width == 0 || tc.height == 0 {
		tc.target = rl.RenderTexture2D{}
		return
	}
	tc.target = rl.LoadRenderTexture(int32(tc.width), int32(tc.height))
	rl.SetTextureFilter(tc.target.Texture, rl.FilterBilinear)

	rl.BeginTextureMode(tc.target)
	rl.ClearBackground(rl.Black)
	rl.EndTextureMode()
}

// Size returns the surface dimensions.
func (tc *TrailCanvas) Size() (int, int) {
	return tc.width, tc.height
}

// BeginFrame opens the render texture for a batch of draws.
func (tc *TrailCanvas) BeginFrame() {
	if tc.inFrame || tc.empty() {
		return
	}
	rl.BeginTextureMode(tc.target)
	beginBlend(tc.op)
	tc.inFrame = true
}

// EndFrame closes the batch opened by BeginFrame.
func (tc *TrailCanvas) EndFrame() {
	if !tc.inFrame {
		return
	}
	rl.EndBlendMode()
	rl.EndTextureMode()
	tc.inFrame = false
}

// SetComposite switches the blend mode, also mid-frame.
func (tc *TrailCanvas) SetComposite(op canvas.CompositeOp) {
	if op == tc.op {
		return
	}
	tc.op = op
	if tc.inFrame {
		rl.EndBlendMode()
		beginBlend(op)
	}
}

// SetShadow sets the glow drawn behind subsequent fills.
func (tc *TrailCanvas) SetShadow(blur float64, c color.RGBA) {
	tc.shadowBlur = blur
	tc.shadowCol = c
}

// FillRect fills a rectangle, glow first.
func (tc *TrailCanvas) FillRect(x, y, w, h float64, c color.RGBA) {
	tc.draw(func() {
		if tc.shadowBlur > 0 && tc.shadowCol.A > 0 {
			tc.glow(x, y, w, h)
		}
		rl.DrawRectangleRec(rect(x, y, w, h), c)
	})
}

// StrokeRect outlines a rectangle with the line centred on its edges.
func (tc *TrailCanvas) StrokeRect(x, y, w, h, lineWidth float64, c color.RGBA) {
	hw := lineWidth / 2
	tc.draw(func() {
		rl.DrawRectangleLinesEx(rect(x-hw, y-hw, w+lineWidth, h+lineWidth), float32(lineWidth), c)
	})
}

// glow draws expanding low-alpha rings, matching canvas.Raster.
func (tc *TrailCanvas) glow(x, y, w, h float64) {
	steps := min(int(math.Ceil(tc.shadowBlur/2)), maxGlowRings)
	for i := steps; i >= 1; i-- {
		spread := tc.shadowBlur * float64(i) / float64(steps)
		a := float64(tc.shadowCol.A) / 255 * 0.35 / float64(i+1)
		rl.DrawRectangleRec(rect(x-spread, y-spread, w+2*spread, h+2*spread), canvas.WithAlpha(tc.shadowCol, a))
	}
}

// draw runs fn inside the render texture, opening it when called between
// frames (pause and reset paint outside the tick).
func (tc *TrailCanvas) draw(fn func()) {
	if tc.inFrame {
		fn()
		return
	}
	if tc.empty() {
		return
	}
	tc.BeginFrame()
	fn()
	tc.EndFrame()
}

func (tc *TrailCanvas) empty() bool {
	return tc.width == 0 || tc.height == 0
}

// DrawView presents the canvas region (x, y, w, h) scaled to fill a
// dstW by dstH area at the screen origin. Call between BeginDrawing and
// EndDrawing.
func (tc *TrailCanvas) DrawView(x, y, w, h, dstW, dstH float32) {
	if tc.empty() || w <= 0 || h <= 0 {
		return
	}
	src := rl.Rectangle{X: x, Y: float32(tc.height) - y - h, Width: w, Height: -h}
	dst := rl.Rectangle{Width: dstW, Height: dstH}
	rl.DrawTexturePro(tc.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// WritePNG exports the current surface.
func (tc *TrailCanvas) WritePNG(path string) error {
	if tc.empty() {
		return fmt.Errorf("exporting %s: empty surface", path)
	}
	img := rl.LoadImageFromTexture(tc.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting %s: failed", path)
	}
	return nil
}

// Unload releases GPU resources.
func (tc *TrailCanvas) Unload() {
	if tc.inFrame {
		tc.EndFrame()
	}
	if !tc.empty() {
		rl.UnloadRenderTexture(tc.target)
	}
	tc.width, tc.height = 0, 0
}

var glFactors = [...]int32{
	canvas.FactorZero:             rl.Zero,
	canvas.FactorOne:              rl.One,
	canvas.FactorSrcAlpha:         rl.SrcAlpha,
	canvas.FactorOneMinusSrcAlpha: rl.OneMinusSrcAlpha,
}

// beginBlend applies op with separate color and alpha factors so the texture
// stays opaque. The stock raylib modes would fade its alpha with the color.
func beginBlend(op canvas.CompositeOp) {
	bf := op.Blend()
	rl.SetBlendFactorsSeparate(
		glFactors[bf.SrcRGB], glFactors[bf.DstRGB],
		glFactors[bf.SrcAlpha], glFactors[bf.DstAlpha],
		rl.FuncAdd, rl.FuncAdd,
	)
	rl.BeginBlendMode(rl.BlendCustomSeparate)
}

func rect(x, y, w, h float64) rl.Rectangle {
	return rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}
}
