package game

import (
	"github.com/pthm-cable/circuit/config"
	"github.com/pthm-cable/circuit/telemetry"
)

// Options configures a Game. Zero values select the config defaults.
type Options struct {
	// Config overrides the global configuration (config.Cfg) when set.
	Config *config.Config

	Seed     int64
	Headless bool

	LogStats    bool
	StatsWindow int    // ticks per telemetry window (0 = use config)
	OutputDir   string // CSV and config output (empty = disabled)

	SnapshotDir   string // PNG and JSON snapshots (empty = disabled)
	SnapshotEvery int    // ticks between snapshots (0 = use config)

	// StatsCallback receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}
