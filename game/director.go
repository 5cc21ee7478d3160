package game

import (
	"log/slog"

	"github.com/pthm-cable/circuit/config"
)

// Controls is the control surface the director drives.
type Controls interface {
	Pause()
	Resume()
	Reset()
	ChangeShape(name string)
}

// Director replays a frame-keyed script of control calls. It stands in for
// the scroll and visibility signals a host page would deliver.
type Director struct {
	enabled bool
	loop    int64
	events  []config.DirectorEvent
}

// NewDirector creates a director from its config.
func NewDirector(cfg config.DirectorConfig) *Director {
	return &Director{
		enabled: cfg.Enabled,
		loop:    int64(cfg.LoopFrames),
		events:  cfg.Events,
	}
}

// Enabled reports whether the script is playing.
func (d *Director) Enabled() bool { return d.enabled }

// Horizon returns the number of frames within which every event that can
// still fire will have fired: the loop period, or the last event frame when
// the script plays once. A disabled director has a horizon of 0.
func (d *Director) Horizon() int64 {
	if !d.enabled {
		return 0
	}
	if d.loop > 0 {
		return d.loop
	}
	var last int64
	for _, ev := range d.events {
		last = max(last, int64(ev.Frame))
	}
	return last
}

// SetEnabled starts or stops the script.
func (d *Director) SetEnabled(on bool) {
	if d.enabled == on {
		return
	}
	d.enabled = on
	slog.Info("director", "enabled", on)
}

// Run fires every event scheduled for frame. With a loop period the script
// repeats, keyed on frame modulo the period.
func (d *Director) Run(frame int64, c Controls) {
	if !d.enabled {
		return
	}
	local := frame
	if d.loop > 0 {
		local = frame % d.loop
	}
	for _, ev := range d.events {
		if int64(ev.Frame) != local {
			continue
		}
		slog.Debug("director event", "frame", frame, "action", ev.Action, "shape", ev.Shape)
		switch ev.Action {
		case "pause":
			c.Pause()
		case "resume":
			c.Resume()
		case "reset":
			c.Reset()
		case "shape":
			c.ChangeShape(ev.Shape)
		}
	}
}
