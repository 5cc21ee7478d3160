package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/pthm-cable/circuit/canvas"
	"github.com/pthm-cable/circuit/components"
)

// MaxCascade bounds how many times one phase start may reinitialize a trace
// that dies immediately. With death chances below 1 the loop ends long before.
const MaxCascade = 16

// Point size of a trace head in pixels.
const pointSize = 2

// Chip turn distribution: 30% +90°, 30% -90°, 40% straight on.
const (
	chipTurnPlus  = 0.3
	chipTurnMinus = 0.6
)

// DeathCause records why a trace was reinitialized.
type DeathCause uint8

const (
	Alive DeathCause = iota
	DiedBoundary
	DiedChance
	DiedBudget
)

// Counters accumulates trace events between telemetry flushes.
type Counters struct {
	Spawns           int
	Phases           int
	Sparks           int
	BoundaryDeaths   int
	ChanceDeaths     int
	BudgetDeaths     int
	CascadeExhausted int
}

// Reset zeroes all counters.
func (c *Counters) Reset() { *c = Counters{} }

// Deaths is the total number of reinitializations caused by dying.
func (c *Counters) Deaths() int {
	return c.BoundaryDeaths + c.ChanceDeaths + c.BudgetDeaths
}

func (c *Counters) record(cause DeathCause) {
	switch cause {
	case DiedBoundary:
		c.BoundaryDeaths++
	case DiedChance:
		c.ChanceDeaths++
	case DiedBudget:
		c.BudgetDeaths++
	}
}

// Tracer runs the trace state machine. It owns no traces; the population
// hands each one in together with the active Env.
type Tracer struct {
	rng   *rand.Rand
	Stats Counters
}

// NewTracer creates a tracer drawing randomness from rng.
func NewTracer(rng *rand.Rand) *Tracer {
	return &Tracer{rng: rng}
}

// Initialize places t at its mode's spawn point and starts its first phase.
func (tr *Tracer) Initialize(t *components.Trace, env Env) {
	tr.spawn(t, env)
	tr.beginPhase(t, env)
}

// spawn resets every field of t for a fresh life without starting a phase.
func (tr *Tracer) spawn(t *components.Trace, env Env) {
	resets := t.Resets
	*t = components.Trace{Resets: resets}

	if env.Shape == Chip {
		tr.spawnChip(t, env)
	}
	// Hexagon traces start at the origin with heading 0 and no velocity;
	// the first phase picks their direction.
	t.SpawnX, t.SpawnY = t.X, t.Y

	if n := len(env.Palette); n > 0 {
		t.Color = env.Palette[tr.rng.Intn(n)]
	} else {
		t.Color = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
}

// spawnChip puts t on a random edge of the chip square, heading away from it.
func (tr *Tracer) spawnChip(t *components.Trace, env Env) {
	m := env.Mode
	half := m.BoundarySize / (2 * m.UnitLength)
	offset := (tr.rng.Float64() - 0.5) * m.BoundarySize / m.UnitLength

	switch tr.rng.Intn(4) {
	case 0: // top
		t.X, t.Y, t.Dir = offset, -half, 3
	case 1: // right
		t.X, t.Y, t.Dir = half, offset, 0
	case 2: // bottom
		t.X, t.Y, t.Dir = offset, half, 1
	default: // left
		t.X, t.Y, t.Dir = -half, offset, 2
	}
	setHeading(t, Chip)

	lo, hi := m.MinSegments, m.MaxSegments
	t.SegmentBudget = int32(lo + tr.rng.Intn(hi-lo+1))
}

// beginPhase locks in the finished phase's displacement, picks the next
// direction and duration, and reinitializes t while it lands in a dead state.
func (tr *Tracer) beginPhase(t *components.Trace, env Env) {
	for attempt := 0; ; attempt++ {
		t.X += t.VX
		t.Y += t.VY
		t.PhaseElapsed = 0
		t.PhaseDuration = tr.phaseDuration(env)
		tr.turn(t, env.Shape)
		tr.Stats.Phases++

		cause := tr.deathCause(t, env)
		if cause == Alive {
			return
		}
		tr.Stats.record(cause)
		if attempt+1 >= MaxCascade {
			// Keep the last configuration rather than spin.
			tr.Stats.CascadeExhausted++
			return
		}
		t.Resets++
		tr.spawn(t, env)
	}
}

// phaseDuration samples base + added*U, floored and clamped to one tick.
func (tr *Tracer) phaseDuration(env Env) int32 {
	m := env.Mode
	d := int32(math.Floor(m.PhaseBaseDuration + m.PhaseAddedDuration*tr.rng.Float64()))
	if d < 1 {
		d = 1
	}
	return d
}

func (tr *Tracer) turn(t *components.Trace, shape Shape) {
	if shape == Chip {
		r := tr.rng.Float64()
		switch {
		case r < chipTurnPlus:
			t.Dir++
		case r < chipTurnMinus:
			t.Dir--
		}
		t.Segments++
	} else if tr.rng.Float64() < 0.5 {
		t.Dir++
	} else {
		t.Dir--
	}
	// Keep Dir in [0, n) so Heading stays small and exact
	n := shape.Directions()
	t.Dir = ((t.Dir % n) + n) % n
	setHeading(t, shape)
}

func setHeading(t *components.Trace, shape Shape) {
	t.Heading = float64(t.Dir) * shape.BaseAngle()
	t.VX = math.Cos(t.Heading)
	t.VY = math.Sin(t.Heading)
}

func (tr *Tracer) deathCause(t *components.Trace, env Env) DeathCause {
	b := env.Bounds
	if env.Shape == Chip {
		switch {
		case t.Segments >= t.SegmentBudget:
			return DiedBudget
		case math.Abs(t.X) > b.MaxDist || math.Abs(t.Y) > b.MaxDist:
			return DiedBoundary
		case tr.rng.Float64() < env.Mode.DeathChance:
			return DiedChance
		}
		return Alive
	}

	if tr.rng.Float64() < env.Mode.DeathChance {
		return DiedChance
	}
	if t.X > b.DieX || t.X < -b.DieX || t.Y > b.DieY || t.Y < -b.DieY {
		return DiedBoundary
	}
	return Alive
}

// Step advances t by one tick and draws its head (and maybe a spark) on cv.
func (tr *Tracer) Step(t *components.Trace, env Env, cv canvas.Canvas) {
	t.PhaseElapsed++
	t.Age++
	if t.PhaseElapsed >= t.PhaseDuration {
		tr.beginPhase(t, env)
	}

	m := env.Mode
	px, py := HeadPosition(t, env)

	cv.SetShadow(t.Progress()*m.ShadowBlurMultiplier, t.Color)
	cv.FillRect(px, py, pointSize, pointSize, t.Color)

	if tr.rng.Float64() < m.SparkChance {
		sx := px + tr.jitter(m.SparkDistance) - m.SparkSize/2
		sy := py + tr.jitter(m.SparkDistance) - m.SparkSize/2
		cv.FillRect(sx, sy, m.SparkSize, m.SparkSize, t.Color)
		tr.Stats.Sparks++
	}
}

// HeadPosition returns the canvas position of t's head. The head eases out
// along the phase direction, covering the whole step by the end of the phase.
func HeadPosition(t *components.Trace, env Env) (x, y float64) {
	wave := math.Sin(t.Progress() * math.Pi / 2)
	x = env.Bounds.CX + (t.X+t.VX*wave)*env.Mode.UnitLength
	y = env.Bounds.CY + (t.Y+t.VY*wave)*env.Mode.UnitLength
	return x, y
}

// jitter returns a value in (-d, d) with a random sign.
func (tr *Tracer) jitter(d float64) float64 {
	v := tr.rng.Float64() * d
	if tr.rng.Float64() < 0.5 {
		return -v
	}
	return v
}
