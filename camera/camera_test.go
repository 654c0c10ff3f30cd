package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	// Should be centered on world
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
	// Fit zoom: the world (extent 2) fills the smaller dimension (720)
	if math.Abs(float64(cam.Zoom-360)) > 0.01 {
		t.Errorf("expected zoom 360, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(800)
	cam.X = 0.25
	cam.Y = -0.1

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestToroidalMapping(t *testing.T) {
	cam := New(720, 720)
	cam.Wrap = true
	cam.SetZoom(cam.MaxZoom)
	cam.X = -0.95 // near left seam

	// A point at the world right edge is closer across the seam, so it
	// should land left of the screen center.
	sx, _ := cam.WorldToScreen(0.95, 0)
	if sx >= 360 {
		t.Errorf("expected point left of screen center, got x=%f", sx)
	}
}

func TestPanClampsWithoutWrap(t *testing.T) {
	cam := New(1280, 720)
	cam.Pan(-1e6, 0)
	if cam.X != -1 {
		t.Errorf("expected X clamped to -1, got %f", cam.X)
	}
}

func TestPanWrapsWithWrap(t *testing.T) {
	cam := New(1280, 720)
	cam.Wrap = true
	cam.X = -0.9
	cam.Pan(-0.3*cam.Zoom, 0)

	// Panning past the seam should come out near the right edge.
	if cam.X < 0 {
		t.Errorf("expected X to wrap around to the positive side, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.SetZoom(1) // Far below fit
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1e9)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	cam := New(1280, 720)
	const sx, sy = 900, 200

	wxBefore, wyBefore := cam.ScreenToWorld(sx, sy)
	cam.ZoomAt(2, sx, sy)
	wxAfter, wyAfter := cam.ScreenToWorld(sx, sy)

	if math.Abs(float64(wxAfter-wxBefore)) > 0.001 || math.Abs(float64(wyAfter-wyBefore)) > 0.001 {
		t.Errorf("world point under cursor moved: (%f,%f) -> (%f,%f)",
			wxBefore, wyBefore, wxAfter, wyAfter)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(720, 720)
	cam.SetZoom(cam.MaxZoom)

	if !cam.IsVisible(0, 0, 0.01) {
		t.Error("camera center should be visible")
	}
	if cam.IsVisible(0.9, 0.9, 0.01) {
		t.Error("far corner should be culled at max zoom")
	}
	// A large radius can straddle the view edge.
	if !cam.IsVisible(0.1, 0, 0.1) {
		t.Error("circle overlapping the view edge should be visible")
	}
}

func TestResizeKeepsZoomInRange(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(cam.MinZoom)

	cam.Resize(2560, 1440)
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f after resize", cam.Zoom, cam.MinZoom)
	}
}
