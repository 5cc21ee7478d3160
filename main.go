package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guptarohit/asciigraph"

	"github.com/pthm-cable/circuit/camera"
	"github.com/pthm-cable/circuit/canvas"
	"github.com/pthm-cable/circuit/config"
	"github.com/pthm-cable/circuit/game"
	"github.com/pthm-cable/circuit/inspector"
	"github.com/pthm-cable/circuit/renderer"
	"github.com/pthm-cable/circuit/telemetry"
	"github.com/pthm-cable/circuit/ui"
)

const panelWidth = 230

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	shape := flag.String("shape", "", "Initial shape: hexagon or chip (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for PNG and JSON snapshots")
	snapshotEvery := flag.Int("snapshot-every", 0, "Ticks between snapshots (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	plot := flag.Bool("plot", false, "Headless: print a chart of live traces per stats window on exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *shape != "" {
		if cfg.Mode(*shape) == nil {
			slog.Error("unknown shape", "shape", *shape)
			os.Exit(1)
		}
		cfg.Engine.InitialShape = *shape
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:        cfg,
		Seed:          rngSeed,
		Headless:      *headless,
		LogStats:      *logStats,
		StatsWindow:   *statsWindow,
		OutputDir:     *outputDir,
		SnapshotDir:   *snapshotDir,
		SnapshotEvery: *snapshotEvery,
	}

	if *headless {
		runHeadless(cfg, opts, *maxTicks, *plot)
		return
	}
	runWindow(cfg, opts, *maxTicks)
}

// runHeadless ticks on a CPU raster as fast as possible.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int, plot bool) {
	var live []float64
	if plot {
		opts.StatsCallback = func(s telemetry.WindowStats) {
			live = append(live, float64(s.Live))
		}
	}

	surface := canvas.NewRaster(cfg.Screen.Width, cfg.Screen.Height)
	g, err := game.NewGame(surface, opts)
	if err != nil {
		slog.Error("failed to start engine", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"shape", cfg.Engine.InitialShape,
		"max_ticks", maxTicks,
	)

	if err := g.Run(int64(maxTicks)); err != nil {
		slog.Error("headless run stopped early", "error", err, "total_ticks", g.TotalTicks())
	} else {
		slog.Info("max ticks reached", "total_ticks", g.TotalTicks(), "live", g.Population().Len())
	}
	if len(live) > 0 {
		fmt.Fprintln(os.Stderr, asciigraph.Plot(live,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("live traces per window"),
		))
	}
}

// runWindow opens a resizable window and paints on a GPU trail surface.
func runWindow(cfg *config.Config, opts game.Options, maxTicks int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Circuit")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	trail := renderer.NewTrailCanvas(cfg.Screen.Width, cfg.Screen.Height)
	defer trail.Unload()

	g, err := game.NewGame(trail, opts)
	if err != nil {
		slog.Error("failed to start engine", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	width, height := cfg.Screen.Width, cfg.Screen.Height
	hud := ui.NewHUD()
	panel := ui.NewControlsPanel(int32(width-panelWidth-10), 10, panelWidth)
	perf := ui.NewPerfPanel(10, 100)
	insp := inspector.NewInspector(10, 200)
	view := camera.New(float32(width), float32(height), float32(width), float32(height))
	toggles := ui.Toggles{Panel: panel}

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			width, height = rl.GetScreenWidth(), rl.GetScreenHeight()
			g.Resize(width, height)
			panel.SetPosition(int32(width-panelWidth-10), 10)
			view.Resize(float32(width), float32(height), float32(width), float32(height))
		}

		ui.HandleKeys(g, &toggles)
		ui.HandleCamera(view)
		insp.HandleInput(g, view)
		g.Update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		minX, minY, maxX, maxY := view.VisibleWorldBounds()
		trail.DrawView(minX, minY, maxX-minX, maxY-minY, float32(width), float32(height))
		insp.DrawSelectionHighlight(g, view)

		hud.Draw(ui.HUDData{
			Title:    "Circuit",
			Shape:    g.Shape().String(),
			Live:     g.Population().Len(),
			Cap:      cfg.Mode(g.Shape().String()).PopulationCap,
			Tick:     g.CurrentTick(),
			FPS:      rl.GetFPS(),
			Paused:   g.Paused(),
			Director: g.Director().Enabled(),
		})
		panel.Draw(g)
		insp.Draw(g)
		if toggles.Perf {
			perf.Draw(g.Perf())
		}
		hud.DrawControls(int32(height), ui.KeyLegend)

		rl.EndDrawing()

		if maxTicks > 0 && g.TotalTicks() >= int64(maxTicks) {
			break
		}
	}
}
