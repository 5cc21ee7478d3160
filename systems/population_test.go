package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/circuit/components"
	"github.com/pthm-cable/circuit/config"
)

func TestPopulationRespectsCap(t *testing.T) {
	cfg := config.Default()
	cfg.Hexagon.PopulationCap = 10
	env := testEnv(Hexagon, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(11)))
	cv := &recorder{}

	for i := 0; i < 500; i++ {
		pop.Tick(env, cv)
		if pop.Len() > 10 {
			t.Fatalf("tick %d: population %d exceeds cap", i, pop.Len())
		}
	}
	// spawn_chance is 1, so one trace joins per tick until the cap
	if pop.Len() != 10 {
		t.Errorf("population = %d, want 10", pop.Len())
	}
	if pop.Spawned != 10 {
		t.Errorf("spawned = %d, want 10", pop.Spawned)
	}
}

func TestPopulationSpawnChanceZero(t *testing.T) {
	cfg := config.Default()
	cfg.Chip.SpawnChance = 0
	env := testEnv(Chip, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(12)))

	for i := 0; i < 100; i++ {
		pop.Tick(env, &recorder{})
	}
	if pop.Len() != 0 {
		t.Errorf("population = %d, want 0 with spawn chance 0", pop.Len())
	}
}

func TestPopulationStepsInOrder(t *testing.T) {
	cfg := config.Default()
	env := testEnv(Hexagon, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(13)))
	cv := &recorder{}

	for i := 0; i < 5; i++ {
		pop.Tick(env, cv)
	}
	// Trace i joined at tick i and has been stepped every tick since
	pop.Each(func(i int, tr *components.Trace) {
		if tr.Resets == 0 && tr.Age != int32(5-i) {
			t.Errorf("trace %d age = %d, want %d", i, tr.Age, 5-i)
		}
	})
}

func TestPopulationModeChange(t *testing.T) {
	cfg := config.Default()
	hex := testEnv(Hexagon, cfg)
	chip := testEnv(Chip, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(14)))
	cv := &recorder{}

	for i := 0; i < 40; i++ {
		pop.Tick(hex, cv)
	}
	before := pop.Len()

	pop.OnModeChanged(chip)
	if pop.Len() != before {
		t.Fatalf("mode change altered population: %d -> %d", before, pop.Len())
	}

	half := cfg.Chip.BoundarySize / (2 * cfg.Chip.UnitLength)
	pop.Each(func(i int, tr *components.Trace) {
		if !isMultiple(tr.Heading, math.Pi/2) {
			t.Errorf("trace %d heading %v not a chip direction", i, tr.Heading)
		}
		onX := math.Abs(math.Abs(tr.SpawnX)-half) < 1e-9 && math.Abs(tr.SpawnY) <= half
		onY := math.Abs(math.Abs(tr.SpawnY)-half) < 1e-9 && math.Abs(tr.SpawnX) <= half
		if !onX && !onY {
			t.Errorf("trace %d spawn (%v,%v) off the chip edge", i, tr.SpawnX, tr.SpawnY)
		}
		if tr.SegmentBudget == 0 {
			t.Errorf("trace %d has no segment budget", i)
		}
	})
}

func TestPopulationKeepsExcessAfterModeChange(t *testing.T) {
	cfg := config.Default()
	hex := testEnv(Hexagon, cfg)
	chip := testEnv(Chip, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(15)))
	cv := &recorder{}

	for i := 0; i < 60; i++ {
		pop.Tick(hex, cv)
	}
	if pop.Len() != cfg.Hexagon.PopulationCap {
		t.Fatalf("population = %d, want hexagon cap", pop.Len())
	}

	pop.OnModeChanged(chip)
	for i := 0; i < 20; i++ {
		pop.Tick(chip, cv)
	}
	// Chip cap is lower; existing traces are not truncated and none are added
	if pop.Len() != cfg.Hexagon.PopulationCap {
		t.Errorf("population = %d, want %d", pop.Len(), cfg.Hexagon.PopulationCap)
	}
}

func TestPopulationClear(t *testing.T) {
	cfg := config.Default()
	env := testEnv(Hexagon, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(16)))
	cv := &recorder{}

	for i := 0; i < 20; i++ {
		pop.Tick(env, cv)
	}
	pop.Clear()
	if pop.Len() != 0 || pop.Spawned != 0 {
		t.Fatalf("after Clear: len=%d spawned=%d", pop.Len(), pop.Spawned)
	}

	// Slots are reusable after a clear
	for i := 0; i < 3; i++ {
		pop.Tick(env, cv)
	}
	if pop.Len() != 3 {
		t.Errorf("population after refill = %d, want 3", pop.Len())
	}
}

func TestPopulationBoundsChangeKeepsPositions(t *testing.T) {
	cfg := config.Default()
	env := testEnv(Hexagon, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(17)))
	cv := &recorder{}
	for i := 0; i < 30; i++ {
		pop.Tick(env, cv)
	}

	type pos struct{ x, y float64 }
	var before []pos
	pop.Each(func(_ int, tr *components.Trace) { before = append(before, pos{tr.X, tr.Y}) })

	env.Bounds = ComputeBounds(640, 480, env.Mode)
	pop.OnBoundsChanged(env)

	pop.Each(func(i int, tr *components.Trace) {
		if before[i] != (pos{tr.X, tr.Y}) {
			t.Errorf("trace %d moved on bounds change", i)
		}
	})
}

func TestHexagonScenarioStaysBounded(t *testing.T) {
	cfg := config.Default()
	cfg.Hexagon.PopulationCap = 50
	cfg.Hexagon.PhaseBaseDuration = 10
	cfg.Hexagon.PhaseAddedDuration = 10
	cfg.Hexagon.DeathChance = 0.05
	env := testEnv(Hexagon, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(42)))
	cv := &recorder{}

	for i := 0; i < 1000; i++ {
		pop.Tick(env, cv)
		pop.Each(func(j int, tr *components.Trace) {
			// Death is only checked at phase starts: one unit of overshoot is allowed
			if math.Abs(tr.X) > env.Bounds.DieX+1 || math.Abs(tr.Y) > env.Bounds.DieY+1 {
				t.Fatalf("tick %d trace %d at (%v,%v) beyond die bounds", i, j, tr.X, tr.Y)
			}
		})
	}
	if pop.Len() > 50 {
		t.Errorf("population = %d, want <= 50", pop.Len())
	}
	ages := pop.Ages(nil)
	if len(ages) != pop.Len() {
		t.Errorf("ages has %d entries, want %d", len(ages), pop.Len())
	}
}

func TestPopulationNearest(t *testing.T) {
	cfg := config.Default()
	env := testEnv(Hexagon, cfg)
	pop := NewPopulation(rand.New(rand.NewSource(14)))
	for i := 0; i < 3; i++ {
		pop.Tick(env, &recorder{})
	}

	hx, hy := HeadPosition(pop.At(1), env)
	i, ok := pop.Nearest(env, hx+1, hy, 6)
	if !ok {
		t.Fatal("expected a trace near its own head")
	}
	if got := pop.At(i); got == nil {
		t.Fatalf("At(%d) = nil", i)
	}

	if _, ok := pop.Nearest(env, -1000, -1000, 6); ok {
		t.Error("found a trace far outside the canvas")
	}
	if pop.At(-1) != nil || pop.At(pop.Len()) != nil {
		t.Error("At out of range should return nil")
	}
}
