// Package camera provides a 2D zoom and pan view over the trail canvas.
package camera

// Camera controls the viewport into the trail canvas. The view never leaves
// the canvas: at zoom 1 it shows the whole surface.
type Camera struct {
	// Position is the view center in canvas coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Canvas dimensions
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the canvas with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		Zoom:    1.0,
		MaxZoom: 4.0,
	}
	c.Resize(viewportW, viewportH, worldW, worldH)
	c.Reset()
	return c
}

// scale is the number of screen pixels per canvas pixel.
func (c *Camera) scale() (sx, sy float32) {
	sx, sy = c.Zoom, c.Zoom
	if c.WorldW > 0 {
		sx *= c.ViewportW / c.WorldW
	}
	if c.WorldH > 0 {
		sy *= c.ViewportH / c.WorldH
	}
	return sx, sy
}

// WorldToScreen converts canvas coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	kx, ky := c.scale()
	sx = c.ViewportW/2 + (wx-c.X)*kx
	sy = c.ViewportH/2 + (wy-c.Y)*ky
	return sx, sy
}

// ScreenToWorld converts screen coordinates to canvas coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	kx, ky := c.scale()
	if kx == 0 || ky == 0 {
		return c.X, c.Y
	}
	wx = c.X + (sx-c.ViewportW/2)/kx
	wy = c.Y + (sy-c.ViewportH/2)/ky
	return wx, wy
}

// Resize updates viewport and canvas dimensions, keeping the view inside the canvas.
func (c *Camera) Resize(viewportW, viewportH, worldW, worldH float32) {
	c.ViewportW, c.ViewportH = viewportW, viewportH
	c.WorldW, c.WorldH = worldW, worldH
	c.MinZoom = 1.0
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	kx, ky := c.scale()
	if kx == 0 || ky == 0 {
		return
	}
	c.X += dx / kx
	c.Y += dy / ky
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt multiplies the zoom by factor, keeping the canvas point under the
// screen position (sx, sy) fixed where the bounds allow it.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	kx, ky := c.scale()
	if kx > 0 && ky > 0 {
		c.X = wx - (sx-c.ViewportW/2)/kx
		c.Y = wy - (sy-c.ViewportH/2)/ky
	}
	c.clampCenter()
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// Zoomed reports whether the view differs from the full canvas.
func (c *Camera) Zoomed() bool {
	return c.Zoom != 1.0
}

// VisibleWorldBounds returns the canvas rectangle shown on screen.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.WorldW / (2 * c.Zoom)
	halfH := c.WorldH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the visible rectangle within the canvas.
func (c *Camera) clampCenter() {
	halfW := c.WorldW / (2 * c.Zoom)
	halfH := c.WorldH / (2 * c.Zoom)
	c.X = clamp(c.X, halfW, c.WorldW-halfW)
	c.Y = clamp(c.Y, halfH, c.WorldH-halfH)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
