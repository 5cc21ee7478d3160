package telemetry

import "github.com/pthm-cable/circuit/systems"

// Collector groups engine ticks into fixed windows and produces WindowStats.
type Collector struct {
	windowTicks     int64
	windowStartTick int64
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// WindowTicks returns the window length.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Restart begins a new window at tick, dropping the current one. Used after
// the engine's tick counter is reset.
func (c *Collector) Restart(tick int64) {
	c.windowStartTick = tick
}

// Flush produces a WindowStats for the window ending at currentTick and
// starts the next one. ages is sorted in place. The caller resets counters.
func (c *Collector) Flush(
	currentTick int64,
	shape string,
	live, cap int,
	counters systems.Counters,
	ages []float64,
) WindowStats {
	var deathRate float64
	if counters.Phases > 0 {
		deathRate = float64(counters.Deaths()) / float64(counters.Phases)
	}

	mean, std, p50, p90 := ComputeAgeStats(ages)

	stats := WindowStats{
		WindowStartTick:  c.windowStartTick,
		WindowEndTick:    currentTick,
		Shape:            shape,
		Live:             live,
		Cap:              cap,
		Spawns:           counters.Spawns,
		Phases:           counters.Phases,
		Sparks:           counters.Sparks,
		BoundaryDeaths:   counters.BoundaryDeaths,
		ChanceDeaths:     counters.ChanceDeaths,
		BudgetDeaths:     counters.BudgetDeaths,
		CascadeExhausted: counters.CascadeExhausted,
		DeathRate:        deathRate,
		AgeMean:          mean,
		AgeStd:           std,
		AgeP50:           p50,
		AgeP90:           p90,
	}

	c.windowStartTick = currentTick
	return stats
}
