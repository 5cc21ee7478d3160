package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/circuit/camera"
	"github.com/pthm-cable/circuit/components"
	"github.com/pthm-cable/circuit/systems"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 30

	// pickRadius is how far from a trace head a click still selects it.
	pickRadius = 12
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// Source is the engine state the inspector reads.
type Source interface {
	Population() *systems.Population
	Env() systems.Env
}

// Inspector manages trace selection and panel rendering.
type Inspector struct {
	selected    int
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector whose panel sits at (x, y).
func NewInspector(x, y int32) *Inspector {
	return &Inspector{panelX: x, panelY: y}
}

// SetPosition moves the panel.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.panelX, ins.panelY = x, y
}

// HandleInput selects the trace under a left click and clears the selection
// on a right click or a click on the close button. The click is mapped to
// canvas coordinates through view.
func (ins *Inspector) HandleInput(src Source, view *camera.Camera) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	mx, my := int32(mouse.X), int32(mouse.Y)

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
			ins.Deselect()
			return
		}
		if mx >= ins.panelX && mx <= ins.panelX+PanelWidth &&
			my >= ins.panelY && my <= ins.panelY+ins.panelHeight() {
			return
		}
	}

	wx, wy := view.ScreenToWorld(mouse.X, mouse.Y)
	radius := pickRadius / float64(view.Zoom)
	if i, ok := src.Population().Nearest(src.Env(), float64(wx), float64(wy), radius); ok {
		ins.selected = i
		ins.hasSelected = true
	}
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the render index of the selected trace.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// trace returns the selected trace, dropping the selection when the
// population no longer has it.
func (ins *Inspector) trace(src Source) *components.Trace {
	if !ins.hasSelected {
		return nil
	}
	t := src.Population().At(ins.selected)
	if t == nil {
		ins.Deselect()
	}
	return t
}

// Draw renders the inspector panel if a trace is selected.
func (ins *Inspector) Draw(src Source) {
	t := ins.trace(src)
	if t == nil {
		return
	}

	panelHeight := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("TRACE #%d", ins.selected), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	hx, hy := systems.HeadPosition(t, src.Env())
	drawLabel(x, y, "Head", fmt.Sprintf("(%.0f, %.0f)", hx, hy))
	y += labelRow
	drawBar(x, y, "Phase", t.Progress(), 1)
	y += barRow

	rl.DrawLine(x, y+2, ins.panelX+PanelWidth-PanelPadding, y+2, ColorPanelBorder)
	y += 8

	for _, f := range ExtractFields(t) {
		y += DrawField(x, y, f)
	}
}

// DrawSelectionHighlight circles the selected trace head on screen.
func (ins *Inspector) DrawSelectionHighlight(src Source, view *camera.Camera) {
	t := ins.trace(src)
	if t == nil {
		return
	}
	hx, hy := systems.HeadPosition(t, src.Env())
	sx, sy := view.WorldToScreen(float32(hx), float32(hy))
	rl.DrawCircleLines(int32(sx), int32(sy), pickRadius, rl.Yellow)
}

// panelHeight sums the rows Draw emits.
func (ins *Inspector) panelHeight() int32 {
	height := int32(HeaderHeight + PanelPadding)
	height += labelRow + barRow + 8 // head, phase bar, separator
	for _, f := range ExtractFields(&components.Trace{}) {
		height += rowHeight(f.Widget)
	}
	return height + PanelPadding
}
