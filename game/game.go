// Package game drives the trace engine one display frame at a time.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/circuit/canvas"
	"github.com/pthm-cable/circuit/config"
	"github.com/pthm-cable/circuit/systems"
	"github.com/pthm-cable/circuit/telemetry"
)

// Surface is a canvas that can change size. Resizing clears it to black.
type Surface interface {
	canvas.Canvas
	Resize(w, h int)
}

// Game holds the complete engine state. It is not safe for concurrent use;
// the host loop owns it and calls Update once per display refresh.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	surface Surface
	pop     *systems.Population

	shape systems.Shape
	env   systems.Env

	tick   int64 // engine ticks since the last reset
	ticks  int64 // engine ticks since start, kept across resets
	frame  int64 // display frames since start, counted while paused too
	paused bool

	director *Director

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	ages          []float64

	snapshotDir   string
	snapshotEvery int64
}

// NewGame creates a game painting on surface. The only errors come from
// setting up the output directory.
func NewGame(surface Surface, opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}
	snapshotEvery := cfg.Telemetry.SnapshotEvery
	if opts.SnapshotEvery > 0 {
		snapshotEvery = opts.SnapshotEvery
	}

	g := &Game{
		cfg:           cfg,
		rng:           rng,
		rngSeed:       opts.Seed,
		surface:       surface,
		pop:           systems.NewPopulation(rng),
		paused:        cfg.Engine.StartPaused,
		director:      NewDirector(cfg.Director),
		collector:     telemetry.NewCollector(statsWindow),
		perfCollector: telemetry.NewPerfCollector(statsWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		snapshotDir:   opts.SnapshotDir,
		snapshotEvery: int64(snapshotEvery),
	}

	shape, _ := systems.ParseShape(cfg.Engine.InitialShape)
	g.applyShape(shape)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	g.clear()

	slog.Info("engine created",
		"seed", opts.Seed,
		"headless", opts.Headless,
		"shape", g.shape.String(),
		"width", g.env.Bounds.Width,
		"height", g.env.Bounds.Height,
		"paused", g.paused,
	)

	return g, nil
}

// Update advances one display frame: scripted events run first, then one
// engine tick if the game is running.
func (g *Game) Update() {
	g.frame++
	g.perfCollector.RecordFrame()
	g.director.Run(g.frame, g)
	if g.paused {
		return
	}
	g.Tick()
}

// Tick performs one engine tick regardless of the run state.
func (g *Game) Tick() {
	g.tick++
	g.ticks++
	g.perfCollector.StartTick()

	g.surface.BeginFrame()

	g.perfCollector.StartPhase(telemetry.PhaseFade)
	g.fade()

	g.perfCollector.StartPhase(telemetry.PhaseOutline)
	if g.shape == systems.Chip {
		g.drawChip()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTraces)
	g.surface.SetComposite(canvas.Lighter)
	g.pop.Tick(g.env, g.surface)

	g.surface.EndFrame()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.maybeSnapshot()

	g.perfCollector.EndTick()
}

// Paused reports whether ticks are suspended.
func (g *Game) Paused() bool { return g.paused }

// Shape returns the active mode.
func (g *Game) Shape() systems.Shape { return g.shape }

// CurrentTick returns the number of ticks since the last reset.
func (g *Game) CurrentTick() int64 { return g.tick }

// TotalTicks returns the number of ticks since start. Reset does not clear it.
func (g *Game) TotalTicks() int64 { return g.ticks }

// Frame returns the number of display frames seen.
func (g *Game) Frame() int64 { return g.frame }

// Population returns the trace population.
func (g *Game) Population() *systems.Population { return g.pop }

// Bounds returns the geometry of the active mode.
func (g *Game) Bounds() systems.Bounds { return g.env.Bounds }

// Env returns the active mode, geometry and palette.
func (g *Game) Env() systems.Env { return g.env }

// Director returns the scripted event player.
func (g *Game) Director() *Director { return g.director }

// Config returns the configuration the game was created with.
func (g *Game) Config() *config.Config { return g.cfg }

// Perf returns the current performance window.
func (g *Game) Perf() telemetry.PerfStats { return g.perfCollector.Stats() }

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
