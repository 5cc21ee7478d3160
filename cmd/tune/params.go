package main

import (
	"math"

	"github.com/pthm-cable/circuit/config"
)

// ParamSpec defines a single tunable mode parameter.
type ParamSpec struct {
	Name string  // yaml key inside the mode block
	Min  float64 // lower bound
	Max  float64 // upper bound
	Int  bool    // rounded when applied
}

// ParamVector holds the tunable parameters of one mode.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "death_chance", Min: 0.005, Max: 0.2},
			{Name: "phase_base_duration", Min: 3, Max: 40},
			{Name: "phase_added_duration", Min: 0, Max: 40},
			{Name: "spawn_chance", Min: 0.05, Max: 1},
			{Name: "population_cap", Min: 5, Max: 150, Int: true},
			{Name: "trail_fade_alpha", Min: 0.01, Max: 0.2},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp keeps every value within its bounds and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Min(math.Max(v[i], spec.Min), spec.Max)
		if spec.Int {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToMode writes parameter values into a mode. Order matches Specs.
func (pv *ParamVector) ApplyToMode(m *config.ModeConfig, values []float64) {
	c := pv.Clamp(values)
	m.DeathChance = c[0]
	m.PhaseBaseDuration = c[1]
	m.PhaseAddedDuration = c[2]
	m.SpawnChance = c[3]
	m.PopulationCap = int(c[4])
	m.TrailFadeAlpha = c[5]
}

// ExtractFromMode reads the current parameter values of a mode.
func (pv *ParamVector) ExtractFromMode(m *config.ModeConfig) []float64 {
	return []float64{
		m.DeathChance,
		m.PhaseBaseDuration,
		m.PhaseAddedDuration,
		m.SpawnChance,
		float64(m.PopulationCap),
		m.TrailFadeAlpha,
	}
}
