package game

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/circuit/canvas"
	"github.com/pthm-cable/circuit/components"
	"github.com/pthm-cable/circuit/config"
	"github.com/pthm-cable/circuit/systems"
)

func newTestGame(t *testing.T, cfg *config.Config, opts Options) (*Game, *canvas.Raster) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	opts.Config = cfg
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	r := canvas.NewRaster(640, 360)
	g, err := NewGame(r, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g, r
}

func allBlack(r *canvas.Raster) bool {
	pix := r.Image().Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 0 || pix[i+1] != 0 || pix[i+2] != 0 {
			return false
		}
	}
	return true
}

func TestNewGameInitialState(t *testing.T) {
	g, r := newTestGame(t, nil, Options{})

	if g.Paused() {
		t.Error("new game is paused")
	}
	if g.Shape() != systems.Hexagon {
		t.Errorf("shape = %v, want hexagon", g.Shape())
	}
	if g.CurrentTick() != 0 || g.Population().Len() != 0 {
		t.Errorf("tick=%d live=%d, want empty", g.CurrentTick(), g.Population().Len())
	}
	if !allBlack(r) {
		t.Error("surface not black at start")
	}
	b := g.Bounds()
	if b.CX != 320 || b.CY != 180 || b.DieX != 16 || b.DieY != 9 {
		t.Errorf("bounds = %+v", b)
	}
}

func TestStartPaused(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.StartPaused = true
	g, _ := newTestGame(t, cfg, Options{})

	for i := 0; i < 10; i++ {
		g.Update()
	}
	if g.CurrentTick() != 0 || g.Frame() != 10 {
		t.Errorf("tick=%d frame=%d, want 0/10", g.CurrentTick(), g.Frame())
	}
}

func TestUpdateTicksWhileRunning(t *testing.T) {
	g, r := newTestGame(t, nil, Options{})

	for i := 0; i < 30; i++ {
		g.Update()
	}
	if g.CurrentTick() != 30 || g.Frame() != 30 {
		t.Errorf("tick=%d frame=%d, want 30/30", g.CurrentTick(), g.Frame())
	}
	if g.Population().Len() != 30 {
		t.Errorf("live = %d, want one spawn per tick", g.Population().Len())
	}
	if allBlack(r) {
		t.Error("nothing was drawn")
	}
}

func TestTickFadesTrails(t *testing.T) {
	cfg := config.Default()
	cfg.Hexagon.SpawnChance = 0
	g, r := newTestGame(t, cfg, Options{})

	r.SetComposite(canvas.SourceOver)
	r.SetShadow(0, canvas.Black)
	r.FillRect(0, 0, 1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g.Tick()
	// alpha 0.04 rounds to 10/255: 255*245/255
	if got := r.At(0, 0).R; got != 245 {
		t.Errorf("after one fade R = %d, want 245", got)
	}
	g.Tick()
	if got := r.At(0, 0).R; got >= 245 {
		t.Errorf("second fade did not darken: R = %d", got)
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	g, r := newTestGame(t, nil, Options{})
	for i := 0; i < 50; i++ {
		g.Update()
	}

	g.Pause()
	if !g.Paused() {
		t.Fatal("Pause did not pause")
	}
	if !allBlack(r) {
		t.Error("surface not black after pause")
	}
	tick := g.CurrentTick()

	g.Pause()
	for i := 0; i < 5; i++ {
		g.Update()
	}
	if g.CurrentTick() != tick {
		t.Errorf("ticked while paused: %d -> %d", tick, g.CurrentTick())
	}
	if !allBlack(r) {
		t.Error("surface painted while paused")
	}

	g.Resume()
	g.Resume()
	g.Update()
	if g.CurrentTick() != tick+1 {
		t.Errorf("tick after resume = %d, want %d", g.CurrentTick(), tick+1)
	}
}

func TestTogglePause(t *testing.T) {
	g, _ := newTestGame(t, nil, Options{})
	g.TogglePause()
	if !g.Paused() {
		t.Error("first toggle should pause")
	}
	g.TogglePause()
	if g.Paused() {
		t.Error("second toggle should resume")
	}
}

func TestReset(t *testing.T) {
	for _, paused := range []bool{false, true} {
		g, r := newTestGame(t, nil, Options{})
		for i := 0; i < 40; i++ {
			g.Update()
		}
		if paused {
			g.Pause()
		}

		g.Reset()
		if g.Population().Len() != 0 || g.CurrentTick() != 0 {
			t.Errorf("paused=%v: live=%d tick=%d after reset", paused, g.Population().Len(), g.CurrentTick())
		}
		if !allBlack(r) {
			t.Errorf("paused=%v: surface not black after reset", paused)
		}
		if g.Paused() != paused {
			t.Errorf("reset changed run state to paused=%v", g.Paused())
		}

		g.Reset()
		if g.Population().Len() != 0 || g.CurrentTick() != 0 {
			t.Errorf("paused=%v: second reset not a no-op", paused)
		}
	}
}

func TestChangeShape(t *testing.T) {
	g, _ := newTestGame(t, nil, Options{})
	for i := 0; i < 20; i++ {
		g.Update()
	}

	resets := func() []int32 {
		var out []int32
		g.Population().Each(func(_ int, tr *components.Trace) { out = append(out, tr.Resets) })
		return out
	}
	before := resets()

	g.ChangeShape("triangle")
	g.ChangeShape("hexagon")
	if g.Shape() != systems.Hexagon {
		t.Fatalf("shape = %v after ignored changes", g.Shape())
	}
	after := resets()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("trace %d reinitialized by an ignored shape change", i)
		}
	}

	g.ChangeShape("chip")
	if g.Shape() != systems.Chip {
		t.Fatalf("shape = %v, want chip", g.Shape())
	}
	if g.Population().Len() != 20 {
		t.Errorf("live = %d, want 20 kept across the change", g.Population().Len())
	}
	if want := 640.0 / 2 / 15; math.Abs(g.Bounds().MaxDist-want) > 1e-9 {
		t.Errorf("max dist = %v, want %v", g.Bounds().MaxDist, want)
	}
	g.Population().Each(func(i int, tr *components.Trace) {
		if !isQuarterTurn(tr.Heading) {
			t.Errorf("trace %d heading %v after change to chip", i, tr.Heading)
		}
	})
}

func isQuarterTurn(h float64) bool {
	k := h / (math.Pi / 2)
	return math.Abs(k-math.Round(k)) < 1e-9
}

func TestChipDrawsOutline(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.InitialShape = config.ShapeChip
	cfg.Chip.SpawnChance = 0
	g, r := newTestGame(t, cfg, Options{})

	g.Tick()
	// 120px square centred on (320,180); the top edge spans rows 119-120
	want := cfg.Derived.OutlineColor
	if got := r.At(320, 119); got != want {
		t.Errorf("top edge pixel = %v, want %v", got, want)
	}
	// Corner marker centred on (260,120)
	if got := r.At(258, 118); got != cfg.Derived.MarkerColor {
		t.Errorf("marker pixel = %v, want %v", got, cfg.Derived.MarkerColor)
	}
	if got := r.At(320, 180); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("chip interior = %v, want black", got)
	}
}

func TestResize(t *testing.T) {
	g, r := newTestGame(t, nil, Options{})
	for i := 0; i < 10; i++ {
		g.Update()
	}

	g.Resize(320, 200)
	if w, h := r.Size(); w != 320 || h != 200 {
		t.Fatalf("surface = %dx%d, want 320x200", w, h)
	}
	if !allBlack(r) {
		t.Error("surface not black after resize")
	}
	b := g.Bounds()
	if b.CX != 160 || b.CY != 100 || b.DieX != 8 || b.DieY != 5 {
		t.Errorf("bounds after resize = %+v", b)
	}
	if g.Population().Len() != 10 {
		t.Errorf("resize changed population to %d", g.Population().Len())
	}

	g.Resize(0, 0)
	g.Update()
	if g.Bounds().DieX != 0 {
		t.Errorf("degenerate resize die x = %v", g.Bounds().DieX)
	}
}

func TestSameSeedSameFrames(t *testing.T) {
	g1, r1 := newTestGame(t, nil, Options{Seed: 7})
	g2, r2 := newTestGame(t, nil, Options{Seed: 7})
	for i := 0; i < 200; i++ {
		g1.Update()
		g2.Update()
		if i == 100 {
			g1.ChangeShape("chip")
			g2.ChangeShape("chip")
		}
	}
	if !bytes.Equal(r1.Image().Pix, r2.Image().Pix) {
		t.Error("same seed produced different frames")
	}
}

func TestDirectorDrivesGame(t *testing.T) {
	cfg := config.Default()
	cfg.Director = config.DirectorConfig{
		Enabled: true,
		Events: []config.DirectorEvent{
			{Frame: 3, Action: "shape", Shape: "chip"},
			{Frame: 5, Action: "pause"},
			{Frame: 8, Action: "resume"},
		},
	}
	g, _ := newTestGame(t, cfg, Options{})

	for i := 0; i < 6; i++ {
		g.Update()
	}
	if g.Shape() != systems.Chip || !g.Paused() {
		t.Fatalf("after 6 frames shape=%v paused=%v", g.Shape(), g.Paused())
	}
	// Frames 1-4 ticked; frame 5 paused before its tick
	if g.CurrentTick() != 4 {
		t.Errorf("tick = %d, want 4", g.CurrentTick())
	}

	g.Update()
	g.Update()
	if g.Paused() || g.CurrentTick() != 5 {
		t.Errorf("after resume paused=%v tick=%d, want running at 5", g.Paused(), g.CurrentTick())
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := t.TempDir()
	g, _ := newTestGame(t, nil, Options{OutputDir: dir, StatsWindow: 10})

	for i := 0; i < 25; i++ {
		g.Update()
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 windows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[1], "10,hexagon,10,50,10,") {
		t.Errorf("first window row = %q", lines[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestSnapshots(t *testing.T) {
	dir := t.TempDir()
	g, _ := newTestGame(t, nil, Options{SnapshotDir: dir, SnapshotEvery: 5})

	for i := 0; i < 12; i++ {
		g.Update()
	}
	for _, name := range []string{
		"snapshot_000005.json", "snapshot_000005.png",
		"snapshot_000010.json", "snapshot_000010.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "snapshot_000012.json")); err == nil {
		t.Error("snapshot written off schedule")
	}
}
