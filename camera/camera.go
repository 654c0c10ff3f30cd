// Package camera provides a 2D camera system for viewport control.
package camera

import "math"

// WorldExtent is the side length of the world square, which spans
// [-1, 1] on both axes.
const WorldExtent = 2.0

// Camera controls the viewport into the simulation world. Zoom is in
// screen pixels per world unit; at minimum zoom the whole world fits
// the viewport. When Wrap is set, world-to-screen mapping takes the
// toroidal shortest path, matching the wrap boundary mode.
type Camera struct {
	// Center is the camera position in world coordinates
	X, Y float32

	// Zoom in screen pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Wrap enables toroidal shortest-path mapping
	Wrap bool

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world, zoomed so the world fills
// the smaller viewport dimension.
func New(viewportW, viewportH float32) *Camera {
	fit := fitZoom(viewportW, viewportH)
	return &Camera{
		X:         0,
		Y:         0,
		Zoom:      fit,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   fit,
		MaxZoom:   fit * 32,
	}
}

// fitZoom is the zoom at which the world exactly fills the smaller
// viewport dimension.
func fitZoom(viewportW, viewportH float32) float32 {
	short := viewportW
	if viewportH < short {
		short = viewportH
	}
	return short / WorldExtent
}

// WorldToScreen converts world coordinates to screen coordinates. Under
// Wrap the delta from the camera center takes the toroidal shortest
// path, so points across the seam land just off the near edge.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := c.delta(wx, c.X)
	dy := c.delta(wy, c.Y)

	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	if c.Wrap {
		wx = wrapCoord(wx)
		wy = wrapCoord(wy)
	}
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius in
// world units could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := c.delta(wx, c.X)
	dy := c.delta(wy, c.Y)

	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius

	return absf(dx) <= halfW && absf(dy) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	fit := fitZoom(viewportW, viewportH)
	c.MinZoom = fit
	c.MaxZoom = fit * 32
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	if c.Wrap {
		c.X = wrapCoord(c.X)
		c.Y = wrapCoord(c.Y)
	} else {
		c.X = clamp(c.X, -1, 1)
		c.Y = clamp(c.Y, -1, 1)
	}
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the world point under the given
// screen position fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	// Move the center so (wx, wy) is back under the cursor.
	c.X = wx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = wy - (sy-c.ViewportH/2)/c.Zoom
	if !c.Wrap {
		c.X = clamp(c.X, -1, 1)
		c.Y = clamp(c.Y, -1, 1)
	}
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
	c.Zoom = c.MinZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible
// area as (minX, minY, maxX, maxY). Under Wrap, min may be < -1 when the
// view crosses the seam.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// delta computes the signed distance from 'from' to 'to', taking the
// toroidal shortest path when wrapping is enabled.
func (c *Camera) delta(to, from float32) float32 {
	d := to - from
	if !c.Wrap {
		return d
	}
	if d > WorldExtent/2 {
		d -= WorldExtent
	} else if d < -WorldExtent/2 {
		d += WorldExtent
	}
	return d
}

// wrapCoord maps a coordinate onto [-1, 1) toroidally.
func wrapCoord(x float32) float32 {
	r := float32(math.Mod(float64(x+1), WorldExtent))
	if r < 0 {
		r += WorldExtent
	}
	return r - 1
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
