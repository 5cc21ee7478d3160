package game

import (
	"github.com/pthm-cable/circuit/canvas"
)

// clear paints the whole surface with the background color.
func (g *Game) clear() {
	canvas.Clear(g.surface, g.cfg.Derived.ClearColor)
}

// fade washes the surface with the translucent background color, so trails
// decay geometrically.
func (g *Game) fade() {
	w, h := g.surface.Size()
	bg := g.cfg.Derived.ClearColor
	g.surface.SetComposite(canvas.SourceOver)
	g.surface.SetShadow(0, bg)
	g.surface.FillRect(0, 0, float64(w), float64(h), canvas.WithAlpha(bg, g.env.Mode.TrailFadeAlpha))
}

// drawChip strokes the chip square and a small marker on each corner.
func (g *Game) drawChip() {
	pal := &g.cfg.Palette
	size := g.env.Mode.BoundarySize
	b := g.env.Bounds
	left, top := b.CX-size/2, b.CY-size/2

	g.surface.SetComposite(canvas.SourceOver)
	g.surface.StrokeRect(left, top, size, size, pal.OutlineWidth, g.cfg.Derived.OutlineColor)

	m := pal.MarkerSize
	corners := [4][2]float64{
		{left, top},
		{left + size, top},
		{left + size, top + size},
		{left, top + size},
	}
	for _, c := range corners {
		g.surface.StrokeRect(c[0]-m/2, c[1]-m/2, m, m, pal.MarkerWidth, g.cfg.Derived.MarkerColor)
	}
}
