// Package systems provides the trace state machine and the population that owns traces.
package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/circuit/canvas"
	"github.com/pthm-cable/circuit/components"
)

// Population owns the live traces. Each trace is an entity in an ECS world;
// the entity slice fixes render order. Dead traces are reinitialized in place,
// so the population only grows until it reaches the active cap.
type Population struct {
	world    *ecs.World
	traceMap *ecs.Map1[components.Trace]
	entities []ecs.Entity

	rng    *rand.Rand
	tracer *Tracer

	Spawned int // traces created since the last Clear
}

// NewPopulation creates an empty population.
func NewPopulation(rng *rand.Rand) *Population {
	world := ecs.NewWorld()
	return &Population{
		world:    world,
		traceMap: ecs.NewMap1[components.Trace](world),
		entities: make([]ecs.Entity, 0, 64),
		rng:      rng,
		tracer:   NewTracer(rng),
	}
}

// Tracer exposes the state machine, mostly for its event counters.
func (p *Population) Tracer() *Tracer {
	return p.tracer
}

// Len returns the number of live traces.
func (p *Population) Len() int {
	return len(p.entities)
}

// Tick admits at most one new trace when under the mode's cap and the spawn
// check passes, then steps every trace in order.
func (p *Population) Tick(env Env, cv canvas.Canvas) {
	if len(p.entities) < env.Mode.PopulationCap && p.rng.Float64() < env.Mode.SpawnChance {
		p.spawn(env)
	}
	for _, e := range p.entities {
		p.tracer.Step(p.traceMap.Get(e), env, cv)
	}
}

func (p *Population) spawn(env Env) {
	var t components.Trace
	p.tracer.Initialize(&t, env)
	p.entities = append(p.entities, p.traceMap.NewEntity(&t))
	p.Spawned++
	p.tracer.Stats.Spawns++
}

// OnModeChanged reinitializes every trace under the new mode. Traces above
// the new mode's cap are kept; only future spawns respect it.
func (p *Population) OnModeChanged(env Env) {
	for _, e := range p.entities {
		t := p.traceMap.Get(e)
		t.Resets++
		p.tracer.Initialize(t, env)
	}
}

// OnBoundsChanged is called after a resize. Bounds travel in Env on every
// call, so positions are left untouched and the new limits apply from the
// next phase start.
func (p *Population) OnBoundsChanged(env Env) {}

// Clear removes every trace.
func (p *Population) Clear() {
	for _, e := range p.entities {
		p.world.RemoveEntity(e)
	}
	p.entities = p.entities[:0]
	p.Spawned = 0
}

// Each calls fn for every live trace in render order. fn must not retain t.
func (p *Population) Each(fn func(i int, t *components.Trace)) {
	for i, e := range p.entities {
		fn(i, p.traceMap.Get(e))
	}
}

// At returns the trace at render index i, or nil when i is out of range.
func (p *Population) At(i int) *components.Trace {
	if i < 0 || i >= len(p.entities) {
		return nil
	}
	return p.traceMap.Get(p.entities[i])
}

// Nearest returns the index of the trace whose head is closest to (x, y)
// within radius pixels.
func (p *Population) Nearest(env Env, x, y, radius float64) (int, bool) {
	best, bestDist := -1, radius*radius
	for i, e := range p.entities {
		hx, hy := HeadPosition(p.traceMap.Get(e), env)
		dx, dy := hx-x, hy-y
		if d := dx*dx + dy*dy; d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// Ages returns the age of every live trace, in render order.
func (p *Population) Ages(dst []float64) []float64 {
	dst = dst[:0]
	for _, e := range p.entities {
		dst = append(dst, float64(p.traceMap.Get(e).Age))
	}
	return dst
}
