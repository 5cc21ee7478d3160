package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawBar draws a fill bar for value/limit, turning to the high color when full.
func (r *Renderer) DrawBar(x, y int32, label string, value, limit int, width int32) int32 {
	ratio := float32(0)
	if limit > 0 {
		ratio = min(float32(value)/float32(limit), 1)
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if ratio >= 1 {
		fill = r.Theme.BarFillHigh
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill)

	rl.DrawText(fmt.Sprintf("%d/%d", value, limit), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawIndicator draws a status square followed by a label.
func (r *Renderer) DrawIndicator(x, y int32, label string, on bool) int32 {
	c := rl.Color{R: 80, G: 80, B: 80, A: 255}
	textColor := r.Theme.LabelColor
	if on {
		c = r.Theme.ActiveColor
		textColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, c)
	rl.DrawText(label, x+14, y, r.Theme.FontSize, textColor)
	return y + r.Theme.LineHeight
}
