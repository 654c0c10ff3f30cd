// Package renderer draws the trail canvas and the agent population with
// raylib. All heavy lifting happens on the CPU; the canvas is uploaded
// as a texture once per frame and scaled through the camera.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mire/camera"
	"github.com/pthm-cable/mire/field"
	"github.com/pthm-cable/mire/vec"
)

// CanvasRenderer maintains a GPU texture mirroring the trail canvas.
type CanvasRenderer struct {
	tex    rl.Texture2D
	pixels []color.RGBA
	dim    int

	initialized bool
}

// NewCanvasRenderer creates an uninitialized canvas renderer. Init must
// run after the raylib window exists.
func NewCanvasRenderer() *CanvasRenderer {
	return &CanvasRenderer{}
}

// Init allocates the texture at the given canvas dimension.
func (r *CanvasRenderer) Init(dim int) {
	if r.initialized && dim == r.dim {
		return
	}
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}

	r.dim = dim
	r.pixels = make([]color.RGBA, dim*dim)

	img := rl.GenImageColor(dim, dim, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update converts the canvas cells to pixels and uploads them. When
// showBrush is set, the staging buffer is shown instead of the blended
// canvas. Exposure scales brightness before clamping.
func (r *CanvasRenderer) Update(f *field.Field, showBrush bool, exposure float32) {
	if !r.initialized || f.Dim != r.dim {
		r.Init(f.Dim)
	}

	cells := f.Cells()
	if showBrush {
		cells = f.Brush()
	}
	for i, c := range cells {
		r.pixels[i] = shadeCell(c, exposure)
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// shadeCell maps one canvas cell to a pixel. Deposit weight drives
// brightness; the flow direction tints it, warm for +x and cool for +y,
// so lanes moving in different directions read as different colors.
func shadeCell(c vec.Vec4, exposure float32) color.RGBA {
	w := c.W * exposure
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}

	flow := vec.Vec2{X: c.X, Y: c.Y}
	mag := flow.Len()
	var tx, ty float32
	if mag > 1e-6 {
		tx = (flow.X/mag + 1) / 2
		ty = (flow.Y/mag + 1) / 2
	} else {
		tx, ty = 0.5, 0.5
	}

	// Base gray from deposit, shifted by direction tint.
	base := w * 255
	return color.RGBA{
		R: u8(base * (0.55 + 0.45*tx)),
		G: u8(base * (0.55 + 0.45*ty)),
		B: u8(base * 0.9),
		A: 255,
	}
}

func u8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Draw renders the canvas texture through the camera. The texture covers
// the world square [-1, 1] on both axes.
func (r *CanvasRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	sx, sy := cam.WorldToScreen(-1, -1)
	side := camera.WorldExtent * cam.Zoom

	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.dim), Height: float32(r.dim)}
	dstRect := rl.Rectangle{X: sx, Y: sy, Width: side, Height: side}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)

	if cam.Wrap {
		// Ghost copies across the seam keep a panned view seamless.
		for _, off := range [3]rl.Vector2{
			{X: side}, {Y: side}, {X: side, Y: side},
		} {
			for _, sign := range [2]float32{-1, 1} {
				ghost := dstRect
				ghost.X += off.X * sign
				ghost.Y += off.Y * sign
				if ghost.X < cam.ViewportW && ghost.X+side > 0 &&
					ghost.Y < cam.ViewportH && ghost.Y+side > 0 &&
					(ghost.X != dstRect.X || ghost.Y != dstRect.Y) {
					rl.DrawTexturePro(r.tex, srcRect, ghost, rl.Vector2{}, 0, rl.White)
				}
			}
		}
	}
}

// Unload frees GPU resources.
func (r *CanvasRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
