package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/circuit/camera"
	"github.com/pthm-cable/circuit/config"
)

// KeyLegend describes the bindings handled by HandleKeys.
const KeyLegend = "[Space] pause  [R] reset  [H] hexagon  [C] chip  [D] director  [S] snapshot  [Tab] panel  [P] perf  [click] inspect  [wheel/arrows/Home] view"

// Toggles holds view state flipped from the keyboard.
type Toggles struct {
	Panel *ControlsPanel
	Perf  bool
}

// HandleKeys applies this frame's key presses.
func HandleKeys(ctl Controller, t *Toggles) {
	if rl.IsKeyPressed(rl.KeySpace) {
		ctl.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		ctl.Reset()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		ctl.ChangeShape(config.ShapeHexagon)
	}
	if rl.IsKeyPressed(rl.KeyC) {
		ctl.ChangeShape(config.ShapeChip)
	}
	if rl.IsKeyPressed(rl.KeyD) {
		d := ctl.Director()
		d.SetEnabled(!d.Enabled())
	}
	if rl.IsKeyPressed(rl.KeyS) {
		ctl.SaveSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyTab) && t.Panel != nil {
		t.Panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		t.Perf = !t.Perf
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
}

// HandleCamera applies mouse wheel zoom, arrow key panning and Home to reset.
func HandleCamera(cam *camera.Camera) {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		cam.ZoomAt(1+wheel*0.1, mouse.X, mouse.Y)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
