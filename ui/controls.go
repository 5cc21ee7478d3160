package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/circuit/config"
	"github.com/pthm-cable/circuit/game"
	"github.com/pthm-cable/circuit/systems"
)

// Controller is the engine surface the panel and keys act on.
type Controller interface {
	Paused() bool
	TogglePause()
	Reset()
	ChangeShape(name string)
	Shape() systems.Shape
	Director() *game.Director
	SaveSnapshot()
	Population() *systems.Population
	Config() *config.Config
}

// ControlsPanel renders the right-side panel of engine buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition moves the panel, e.g. after a window resize.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and applies any button pressed this frame.
func (c *ControlsPanel) Draw(ctl Controller) {
	if !c.visible {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	bh := r.Theme.ButtonHeight
	lh := r.Theme.LineHeight
	inner := c.width - pad*2
	half := (inner - pad) / 2

	height := pad*2 + lh + 3*(bh+pad) + 3*lh + 2
	r.DrawPanel(c.x, c.y, c.width, height)

	y := r.DrawSectionHeader(c.x+pad, c.y+pad, "Engine")

	pauseLabel := "Pause"
	if ctl.Paused() {
		pauseLabel = "Resume"
	}
	if gui.Button(button(c.x+pad, y, half, bh), pauseLabel) {
		ctl.TogglePause()
	}
	if gui.Button(button(c.x+pad*2+half, y, half, bh), "Reset") {
		ctl.Reset()
	}
	y += bh + pad

	if gui.Button(button(c.x+pad, y, half, bh), "Hexagon") {
		ctl.ChangeShape(config.ShapeHexagon)
	}
	if gui.Button(button(c.x+pad*2+half, y, half, bh), "Chip") {
		ctl.ChangeShape(config.ShapeChip)
	}
	y += bh + pad

	d := ctl.Director()
	directorLabel := "Director: off"
	if d.Enabled() {
		directorLabel = "Director: on"
	}
	if gui.Button(button(c.x+pad, y, half, bh), directorLabel) {
		d.SetEnabled(!d.Enabled())
	}
	if gui.Button(button(c.x+pad*2+half, y, half, bh), "Snapshot") {
		ctl.SaveSnapshot()
	}
	y += bh + pad

	shape := ctl.Shape()
	y = r.DrawBar(c.x+pad, y, "Traces", ctl.Population().Len(), ctl.Config().Mode(shape.String()).PopulationCap, inner)
	y = r.DrawIndicator(c.x+pad, y, "hexagon", shape == systems.Hexagon)
	r.DrawIndicator(c.x+pad, y, "chip", shape == systems.Chip)
}

func button(x, y, w, h int32) rl.Rectangle {
	return rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}
}
