package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected camera at (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 || cam.Zoomed() {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestIdentityAtZoomOne(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	for _, p := range []struct{ x, y float32 }{{0, 0}, {100, 50}, {1280, 720}} {
		sx, sy := cam.WorldToScreen(p.x, p.y)
		if !near(sx, p.x) || !near(sy, p.y) {
			t.Errorf("WorldToScreen(%v,%v) = (%v,%v), want identity", p.x, p.y, sx, sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	cam.ZoomAt(2, 300, 200)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	before, _ := cam.ScreenToWorld(500, 300)

	cam.ZoomAt(2, 500, 300)
	after, _ := cam.ScreenToWorld(500, 300)

	if !near(before, after) {
		t.Errorf("point under cursor moved from %v to %v", before, after)
	}
	if cam.Zoom != 2 {
		t.Errorf("zoom = %v, want 2", cam.Zoom)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom = %v, want min %v", cam.Zoom, cam.MinZoom)
	}
	cam.ZoomBy(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %v, want max %v", cam.Zoom, cam.MaxZoom)
	}
}

func TestPanStaysInsideCanvas(t *testing.T) {
	cam := New(1280, 720, 1280, 720)

	cam.Pan(500, 0)
	if cam.X != 640 {
		t.Errorf("pan at zoom 1 should not move, X = %v", cam.X)
	}

	cam.SetZoom(2)
	cam.Pan(-10000, -10000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) {
		t.Errorf("visible min = (%v,%v), want (0,0)", minX, minY)
	}
}

func TestResizeScalesToViewport(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	cam.Resize(640, 360, 1280, 720)

	sx, sy := cam.WorldToScreen(1280, 720)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("canvas corner at (%v,%v), want (640,360)", sx, sy)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 1280, 720)
	cam.ZoomAt(3, 10, 10)
	cam.Reset()

	if cam.X != 640 || cam.Y != 360 || cam.Zoom != 1 {
		t.Errorf("reset to (%v,%v) zoom %v", cam.X, cam.Y, cam.Zoom)
	}
}
