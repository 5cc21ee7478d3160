package inspector

import (
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 0x9c, G: 0xff, B: 0xff, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 0x1c, G: 0x84, B: 0xb9, A: 255}
)

// Row heights in pixels, shared by the drawing code and panel sizing.
const (
	labelRow = 20
	barRow   = 18
	angleRow = 44
)

func rowHeight(w Widget) int32 {
	switch w {
	case WidgetAngle:
		return angleRow
	case WidgetBar, WidgetColor:
		return barRow
	default:
		return labelRow
	}
}

func drawLabel(x, y int32, name, text string) {
	rl.DrawText(name+": "+text, x, y, 16, ColorText)
}

func drawBar(x, y int32, name string, value, full float64) {
	ratio := math.Max(0, math.Min(1, value/full))
	const barW, barH = 120, 14

	rl.DrawText(name, x, y, 14, ColorTextDim)
	bx := x + 80
	rl.DrawRectangle(bx, y, barW, barH, ColorBarBg)
	rl.DrawRectangle(bx, y, int32(barW*ratio), barH, ColorBarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), bx+barW+5, y, 14, ColorTextDim)
}

// drawAngle renders a compass needle pointing along radians (canvas y down).
func drawAngle(x, y int32, name string, radians float64) {
	const size = 40
	cx, cy := x+60+size/2, y+size/2

	rl.DrawText(name, x, cy-7, 14, ColorTextDim)
	rl.DrawCircle(cx, cy, size/2, ColorAngleBg)
	rl.DrawCircleLines(cx, cy, size/2, ColorTextDim)

	r := float64(size/2 - 4)
	tip := rl.Vector2{
		X: float32(float64(cx) + r*math.Cos(radians)),
		Y: float32(float64(cy) + r*math.Sin(radians)),
	}
	rl.DrawLineEx(rl.Vector2{X: float32(cx), Y: float32(cy)}, tip, 2, ColorAngleNeedle)

	deg := math.Round(radians * 180 / math.Pi)
	rl.DrawText(fmt.Sprintf("%.0f deg", deg), x+60+size+5, cy-7, 14, ColorTextDim)
}

func drawSwatch(x, y int32, name string, c color.RGBA, text string) {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawRectangle(x+80, y, 14, 14, c)
	rl.DrawText(text, x+100, y, 14, ColorText)
}

// DrawField renders f at (x, y) and returns the height it used. Fields whose
// value does not suit their widget fall back to a label.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := f.Float(); ok {
			drawBar(x, y, f.Name, v, f.Max)
			return barRow
		}
	case WidgetAngle:
		if v, ok := f.Float(); ok {
			drawAngle(x, y, f.Name, v)
			return angleRow
		}
	case WidgetColor:
		if c, ok := f.Value.(color.RGBA); ok {
			drawSwatch(x, y, f.Name, c, f.Text())
			return barRow
		}
	}
	drawLabel(x, y, f.Name, f.Text())
	return labelRow
}
