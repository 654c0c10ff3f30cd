// Package field implements the trail canvas: a square grid of 4-channel
// float cells covering the world rectangle [-1,1]^2. Agents deposit into
// a staging buffer ("brush") each tick; the canvas update diffuses the
// previous canvas and blends the staged deposits in. Current and next
// canvases are double-buffered so a tick never reads a cell it is
// writing.
//
// Channel layout per cell: X/Y accumulate agent flow direction, Z a
// constant presence deposit, W full opacity.
package field

import (
	"fmt"

	"github.com/pthm-cable/mire/params"
	"github.com/pthm-cable/mire/vec"
)

// Splat kernel shape. The kernel is radially symmetric with a hard
// circular cutoff; cells outside the cutoff receive nothing.
const (
	kernelRadius = 2      // cells
	kernelSigma  = 1.0    // cells
	presenceRate = 0.05   // Z-channel deposit per unit weight
	maxDim       = 1 << 14
)

// Field is the double-buffered trail canvas plus its staging buffer.
type Field struct {
	Dim int

	front []vec.Vec4
	back  []vec.Vec4
	brush []vec.Vec4

	// wrap selects toroidal sampling and stencil neighbors; otherwise
	// coordinates clamp at the edges.
	wrap bool

	// kernel holds the precomputed Gaussian weights for one splat.
	kernel [2*kernelRadius + 1][2*kernelRadius + 1]float32
}

// New allocates a canvas of dim x dim cells.
func New(dim int) (*Field, error) {
	if dim <= 0 || dim > maxDim {
		return nil, fmt.Errorf("field: invalid canvas dimension %d", dim)
	}
	f := &Field{
		Dim:   dim,
		front: make([]vec.Vec4, dim*dim),
		back:  make([]vec.Vec4, dim*dim),
		brush: make([]vec.Vec4, dim*dim),
	}
	for dy := -kernelRadius; dy <= kernelRadius; dy++ {
		for dx := -kernelRadius; dx <= kernelRadius; dx++ {
			d2 := float32(dx*dx + dy*dy)
			if d2 > kernelRadius*kernelRadius+0.25 {
				continue
			}
			f.kernel[dy+kernelRadius][dx+kernelRadius] = expf(-d2 / (2 * kernelSigma * kernelSigma))
		}
	}
	return f, nil
}

// SetWrap switches between toroidal and clamped boundary behavior.
func (f *Field) SetWrap(wrap bool) {
	f.wrap = wrap
}

// Cells returns the readable canvas. The slice must be treated as a
// snapshot: the driver never mutates it until the next swap.
func (f *Field) Cells() []vec.Vec4 {
	return f.front
}

// Brush returns the staged deposits laid down this tick.
func (f *Field) Brush() []vec.Vec4 {
	return f.brush
}

// ClearBrush zeroes the staging buffer. Called once per tick before
// splatting.
func (f *Field) ClearBrush() {
	clear(f.brush)
}

// worldToGrid maps a world position to continuous grid coordinates.
// World [-1,1] spans the full canvas on both axes (the canvas is square,
// like the world rectangle).
func (f *Field) worldToGrid(p vec.Vec2) (float32, float32) {
	u := p.X/2 + 0.5
	v := p.Y/2 + 0.5
	if f.wrap {
		u = vec.Fract(u)
		v = vec.Fract(v)
	}
	return u * float32(f.Dim), v * float32(f.Dim)
}

func (f *Field) wrapIndex(i int) int {
	i %= f.Dim
	if i < 0 {
		i += f.Dim
	}
	return i
}

func (f *Field) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= f.Dim {
		return f.Dim - 1
	}
	return i
}

func (f *Field) cellIndex(x, y int) int {
	if f.wrap {
		return f.wrapIndex(y)*f.Dim + f.wrapIndex(x)
	}
	return f.clampIndex(y)*f.Dim + f.clampIndex(x)
}

// Sample returns the bilinearly interpolated canvas value at a world
// position. Out-of-range positions wrap or clamp per the boundary mode.
func (f *Field) Sample(p vec.Vec2) vec.Vec4 {
	gx, gy := f.worldToGrid(p)
	gx -= 0.5
	gy -= 0.5

	x0 := floorInt(gx)
	y0 := floorInt(gy)
	tx := gx - float32(x0)
	ty := gy - float32(y0)

	c00 := f.front[f.cellIndex(x0, y0)]
	c10 := f.front[f.cellIndex(x0+1, y0)]
	c01 := f.front[f.cellIndex(x0, y0+1)]
	c11 := f.front[f.cellIndex(x0+1, y0+1)]

	top := c00.Scale(1 - tx).Add(c10.Scale(tx))
	bot := c01.Scale(1 - tx).Add(c11.Scale(tx))
	return top.Scale(1 - ty).Add(bot.Scale(ty))
}

// Splat deposits one agent's contribution into the staging buffer:
// a Gaussian dot weighted by (vel.x, vel.y, presence, 1). Accumulation
// is additive, so overlapping agents sum. Callers splat sequentially;
// the summation order is then fixed, which keeps the staged field
// bit-reproducible.
func (f *Field) Splat(pos, vel vec.Vec2) {
	gx, gy := f.worldToGrid(pos)
	cx := floorInt(gx)
	cy := floorInt(gy)

	for dy := -kernelRadius; dy <= kernelRadius; dy++ {
		for dx := -kernelRadius; dx <= kernelRadius; dx++ {
			w := f.kernel[dy+kernelRadius][dx+kernelRadius]
			if w == 0 {
				continue
			}
			i := f.cellIndex(cx+dx, cy+dy)
			c := &f.brush[i]
			c.X += vel.X * w
			c.Y += vel.Y * w
			c.Z += presenceRate * w
			c.W += w
		}
	}
}

// Stroke deposits an external draw event into the staging buffer: a line
// segment from a to b with a Gaussian falloff of the given radius (world
// units), scaled by power and by (1 - persistence) at each cell.
func (f *Field) Stroke(a, b vec.Vec2, radius, power float32, persistence params.Setting) {
	if radius <= 0 || power == 0 {
		return
	}
	// Bounding box of the segment, padded to the falloff extent.
	pad := radius * 3
	minX := minf(a.X, b.X) - pad
	maxX := maxf(a.X, b.X) + pad
	minY := minf(a.Y, b.Y) - pad
	maxY := maxf(a.Y, b.Y) + pad

	gx0, gy0 := f.worldToGrid(vec.Vec2{X: minX, Y: minY})
	gx1, gy1 := f.worldToGrid(vec.Vec2{X: maxX, Y: maxY})
	x0, y0 := floorInt(gx0), floorInt(gy0)
	x1, y1 := floorInt(gx1), floorInt(gy1)
	if !f.wrap {
		x0, x1 = f.clampIndex(x0), f.clampIndex(x1)
		y0, y1 = f.clampIndex(y0), f.clampIndex(y1)
	}
	if x1 < x0 || y1 < y0 {
		// The padded box straddled the wrap seam; fall back to the
		// whole canvas rather than missing cells.
		x0, y0 = 0, 0
		x1, y1 = f.Dim-1, f.Dim-1
	}

	inv := 1 / (2 * radius * radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := f.cellCenter(x, y)
			d2 := segmentDistSq(p, a, b)
			w := expf(-d2 * inv)
			if w < 1e-4 {
				continue
			}
			pers := vec.Clamp01(persistence.Resolve(p, 0))
			amt := power * w * (1 - pers)
			i := f.cellIndex(x, y)
			f.brush[i].Z += amt
			f.brush[i].W += amt
		}
	}
}

// cellCenter returns the world position of a cell's center.
func (f *Field) cellCenter(x, y int) vec.Vec2 {
	return vec.Vec2{
		X: (float32(x)+0.5)/float32(f.Dim)*2 - 1,
		Y: (float32(y)+0.5)/float32(f.Dim)*2 - 1,
	}
}

// Step computes the next canvas from the current canvas and the staged
// deposits, then swaps buffers. Per cell:
//
//	next = blur(prev)*persistence + (1-persistence)*staged
//
// where blur mixes the cell toward its 4-neighbor average by the
// diffusion constant. The convex blend keeps the equilibrium magnitude
// independent of persistence: only the convergence time changes.
//
// parallel, if non-nil, partitions [0, rows) across workers; each row
// range writes disjoint cells of the back buffer.
func (f *Field) Step(persistence, diffusion params.Setting, parallel func(n int, job func(lo, hi int))) {
	job := func(y0, y1 int) {
		f.stepRows(y0, y1, persistence, diffusion)
	}
	if parallel != nil {
		parallel(f.Dim, job)
	} else {
		job(0, f.Dim)
	}
	f.front, f.back = f.back, f.front
}

func (f *Field) stepRows(y0, y1 int, persistence, diffusion params.Setting) {
	dim := f.Dim
	for y := y0; y < y1; y++ {
		var yN, yS int
		if f.wrap {
			yN = f.wrapIndex(y-1) * dim
			yS = f.wrapIndex(y+1) * dim
		} else {
			yN = f.clampIndex(y-1) * dim
			yS = f.clampIndex(y+1) * dim
		}
		row := y * dim
		for x := 0; x < dim; x++ {
			var xW, xE int
			if f.wrap {
				xW = f.wrapIndex(x - 1)
				xE = f.wrapIndex(x + 1)
			} else {
				xW = f.clampIndex(x - 1)
				xE = f.clampIndex(x + 1)
			}
			i := row + x

			p := f.cellCenter(x, y)
			pers := vec.Clamp01(persistence.Resolve(p, 0))
			diff := vec.Clamp01(diffusion.Resolve(p, 0))

			c := f.front[i]
			if diff > 0 {
				avg := f.front[yN+x].
					Add(f.front[yS+x]).
					Add(f.front[row+xW]).
					Add(f.front[row+xE]).
					Scale(0.25)
				c = c.Scale(1 - diff).Add(avg.Scale(diff))
			}
			f.back[i] = c.Scale(pers).Add(f.brush[i].Scale(1 - pers))
		}
	}
}

// TotalDeposit sums the opacity channel across the canvas. Used by
// telemetry to watch for runaway growth or collapse.
func (f *Field) TotalDeposit() float64 {
	var sum float64
	for i := range f.front {
		sum += float64(f.front[i].W)
	}
	return sum
}

// MaxMagnitude returns the largest flow magnitude on the canvas.
func (f *Field) MaxMagnitude() float32 {
	var maxM float32
	for i := range f.front {
		c := f.front[i]
		m := c.X*c.X + c.Y*c.Y
		if m > maxM {
			maxM = m
		}
	}
	return sqrtf(maxM)
}

// segmentDistSq returns the squared distance from p to segment ab.
func segmentDistSq(p, a, b vec.Vec2) float32 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	denom := ab.Dot(ab)
	t := float32(0)
	if denom > 0 {
		t = ap.Dot(ab) / denom
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	d := ap.Sub(ab.Scale(t))
	return d.Dot(d)
}
