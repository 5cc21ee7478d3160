package game

import (
	"log/slog"

	"github.com/pthm-cable/circuit/systems"
)

// Pause suspends ticks and paints the surface black once.
func (g *Game) Pause() {
	if g.paused {
		return
	}
	g.paused = true
	g.clear()
	slog.Info("paused", "tick", g.tick, "frame", g.frame)
}

// Resume restarts ticks on the next frame.
func (g *Game) Resume() {
	if !g.paused {
		return
	}
	g.paused = false
	slog.Info("resumed", "tick", g.tick, "frame", g.frame)
}

// TogglePause switches between running and paused.
func (g *Game) TogglePause() {
	if g.paused {
		g.Resume()
	} else {
		g.Pause()
	}
}

// Reset removes every trace, zeroes the tick counter and paints black. The
// run state is left as it was.
func (g *Game) Reset() {
	g.pop.Clear()
	g.tick = 0
	g.collector.Restart(0)
	g.pop.Tracer().Stats.Reset()
	g.clear()
	slog.Info("reset", "frame", g.frame, "shape", g.shape.String())
}

// ChangeShape switches the active mode and reinitializes every live trace
// under it. Unknown names and the current shape are ignored.
func (g *Game) ChangeShape(name string) {
	shape, ok := systems.ParseShape(name)
	if !ok {
		slog.Debug("ignoring unknown shape", "shape", name)
		return
	}
	if shape == g.shape {
		return
	}
	g.applyShape(shape)
	g.pop.OnModeChanged(g.env)
	slog.Info("shape changed", "shape", shape.String(), "tick", g.tick, "live", g.pop.Len())
}

// Resize adopts new surface dimensions. The surface is cleared and the
// bounds of the active mode recomputed before the next tick.
func (g *Game) Resize(w, h int) {
	g.surface.Resize(w, h)
	g.clear()
	g.env.Bounds = systems.ComputeBounds(w, h, g.env.Mode)
	g.pop.OnBoundsChanged(g.env)
	slog.Info("resized", "width", w, "height", h)
}

// applyShape selects the mode's parameters and derives its bounds from the
// current surface size.
func (g *Game) applyShape(shape systems.Shape) {
	mode := g.cfg.Mode(shape.String())
	w, h := g.surface.Size()
	g.shape = shape
	g.env = systems.Env{
		Shape:   shape,
		Mode:    mode,
		Bounds:  systems.ComputeBounds(w, h, mode),
		Palette: g.cfg.Derived.TraceColors,
	}
}
