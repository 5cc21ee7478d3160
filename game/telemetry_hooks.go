package game

import (
	"log/slog"
	"path/filepath"

	"github.com/pthm-cable/circuit/components"
	"github.com/pthm-cable/circuit/telemetry"
)

// pngWriter is implemented by surfaces that can export their pixels.
type pngWriter interface {
	WritePNG(path string) error
}

// flushTelemetry closes the stats window when it is full.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	counters := &g.pop.Tracer().Stats
	g.ages = g.pop.Ages(g.ages)
	stats := g.collector.Flush(g.tick, g.shape.String(), g.pop.Len(), g.env.Mode.PopulationCap, *counters, g.ages)
	counters.Reset()
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// maybeSnapshot saves the trace state, and the frame when the surface
// supports it, every snapshotEvery ticks.
func (g *Game) maybeSnapshot() {
	if g.snapshotDir == "" || g.snapshotEvery <= 0 || g.tick%g.snapshotEvery != 0 {
		return
	}
	g.SaveSnapshot()
}

// SaveSnapshot writes the current state to the snapshot directory.
func (g *Game) SaveSnapshot() {
	if g.snapshotDir == "" {
		return
	}

	path, err := telemetry.SaveSnapshot(g.createSnapshot(), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	if pw, ok := g.surface.(pngWriter); ok {
		png := filepath.Join(g.snapshotDir, telemetry.SnapshotName(g.tick)+".png")
		if err := pw.WritePNG(png); err != nil {
			slog.Error("failed to save frame", "error", err)
		}
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot() *telemetry.Snapshot {
	w, h := g.surface.Size()
	snapshot := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Seed:    g.rngSeed,
		Width:   w,
		Height:  h,
		Shape:   g.shape.String(),
		Tick:    g.tick,
		Traces:  make([]telemetry.TraceState, 0, g.pop.Len()),
	}
	g.pop.Each(func(_ int, t *components.Trace) {
		snapshot.Traces = append(snapshot.Traces, telemetry.NewTraceState(t))
	})
	return snapshot
}
