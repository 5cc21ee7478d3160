package game

import (
	"errors"
	"log/slog"
)

// ErrStalled is returned by Run when the engine is paused and nothing
// scheduled can resume it.
var ErrStalled = errors.New("engine stalled while paused")

// Run updates the game frame by frame until maxTicks ticks have run since
// start (0 = no limit). Resets do not restart the count. Run returns
// ErrStalled once the game has stayed paused for longer than the director's
// horizon, so a paused headless run cannot spin forever.
func (g *Game) Run(maxTicks int64) error {
	lastTick := g.frame
	for maxTicks <= 0 || g.ticks < maxTicks {
		before := g.ticks
		g.Update()
		if g.ticks != before {
			lastTick = g.frame
			continue
		}
		if g.paused && g.frame-lastTick > g.director.Horizon() {
			slog.Warn("engine stalled",
				"frame", g.frame,
				"total_ticks", g.ticks,
				"director", g.director.Enabled(),
			)
			return ErrStalled
		}
	}
	return nil
}
