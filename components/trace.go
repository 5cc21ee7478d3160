// Package components defines ECS components for the trace engine.
package components

import "image/color"

// Trace is one animated segment chain. Positions are grid units relative to
// the active shape's anchor; one grid unit is ModeConfig.UnitLength pixels.
type Trace struct {
	// Anchor of the current phase (the previous phase's end point)
	X, Y float64 `inspect:"label,fmt:%.1f"`
	// Direction of the current phase
	VX, VY float64 `inspect:"skip"`
	// Heading in radians, always Dir * the mode's base angle
	Heading float64 `inspect:"angle"`
	Dir     int     `inspect:"skip"`

	// Phase timing in ticks
	PhaseElapsed  int32 `inspect:"skip"`
	PhaseDuration int32
	Age           int32 // ticks since the last initialization

	Color color.RGBA `inspect:"color"`

	// Chip only
	Segments      int32
	SegmentBudget int32

	// Diagnostics
	SpawnX, SpawnY float64 `inspect:"label,fmt:%.1f"` // anchor chosen at initialization
	Resets         int32   // times this slot was reinitialized
}

// Progress returns the phase completion ratio in [0, 1].
func (t *Trace) Progress() float64 {
	if t.PhaseDuration <= 0 {
		return 1
	}
	return float64(t.PhaseElapsed) / float64(t.PhaseDuration)
}
