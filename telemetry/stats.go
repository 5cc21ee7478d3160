package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64  `csv:"-"`
	WindowEndTick   int64  `csv:"window_end"`
	Shape           string `csv:"shape"`

	// Population at window end
	Live int `csv:"live"`
	Cap  int `csv:"cap"`

	// Events during window
	Spawns           int `csv:"spawns"`
	Phases           int `csv:"phases"`
	Sparks           int `csv:"sparks"`
	BoundaryDeaths   int `csv:"boundary_deaths"`
	ChanceDeaths     int `csv:"chance_deaths"`
	BudgetDeaths     int `csv:"budget_deaths"`
	CascadeExhausted int `csv:"cascade_exhausted"`

	// Deaths per started phase
	DeathRate float64 `csv:"death_rate"`

	// Trace age distribution in ticks (sampled at window end)
	AgeMean float64 `csv:"age_mean"`
	AgeStd  float64 `csv:"age_std"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`
}

// ComputeAgeStats calculates mean, sample standard deviation and percentiles.
// values is sorted in place.
func ComputeAgeStats(values []float64) (mean, std, p50, p90 float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0
	case 1:
		return values[0], 0, values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sort.Float64s(values)
	p50 = stat.Quantile(0.50, stat.LinInterp, values, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, values, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.String("shape", s.Shape),
		slog.Int("live", s.Live),
		slog.Int("cap", s.Cap),
		slog.Int("spawns", s.Spawns),
		slog.Int("phases", s.Phases),
		slog.Int("sparks", s.Sparks),
		slog.Int("boundary_deaths", s.BoundaryDeaths),
		slog.Int("chance_deaths", s.ChanceDeaths),
		slog.Int("budget_deaths", s.BudgetDeaths),
		slog.Int("cascade_exhausted", s.CascadeExhausted),
		slog.Float64("death_rate", s.DeathRate),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_std", s.AgeStd),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"shape", s.Shape,
		"live", s.Live,
		"cap", s.Cap,
		"spawns", s.Spawns,
		"phases", s.Phases,
		"sparks", s.Sparks,
		"boundary_deaths", s.BoundaryDeaths,
		"chance_deaths", s.ChanceDeaths,
		"budget_deaths", s.BudgetDeaths,
		"cascade_exhausted", s.CascadeExhausted,
		"death_rate", s.DeathRate,
		"age_mean", s.AgeMean,
		"age_p90", s.AgeP90,
	)
}
