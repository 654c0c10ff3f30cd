package field

import (
	"math"
	"testing"

	"github.com/pthm-cable/mire/params"
	"github.com/pthm-cable/mire/vec"
)

const epsilon = 1e-4

func TestNewRejectsBadDimensions(t *testing.T) {
	for _, dim := range []int{0, -1, maxDim + 1} {
		if _, err := New(dim); err == nil {
			t.Errorf("New(%d) succeeded, want error", dim)
		}
	}
	if _, err := New(64); err != nil {
		t.Fatalf("New(64) failed: %v", err)
	}
}

func TestSplatDepositsAroundAgent(t *testing.T) {
	f, _ := New(64)
	f.Splat(vec.Vec2{}, vec.Vec2{X: 0.5, Y: -0.25})

	var total vec.Vec4
	for _, c := range f.Brush() {
		total = total.Add(c)
	}
	if total.W <= 0 {
		t.Fatal("splat deposited no opacity")
	}
	// Flow channels carry velocity direction.
	if total.X <= 0 || total.Y >= 0 {
		t.Errorf("flow deposit (%f, %f) does not follow velocity", total.X, total.Y)
	}
	// Deposit ratio matches the velocity ratio.
	if r := total.X / total.W; math.Abs(float64(r-0.5)) > epsilon {
		t.Errorf("x-flow per weight = %f, want 0.5", r)
	}
}

func TestSplatAdditive(t *testing.T) {
	f, _ := New(64)
	f.Splat(vec.Vec2{}, vec.Vec2{X: 1})
	var once float32
	for _, c := range f.Brush() {
		once += c.W
	}
	f.Splat(vec.Vec2{}, vec.Vec2{X: 1})
	var twice float32
	for _, c := range f.Brush() {
		twice += c.W
	}
	if math.Abs(float64(twice-2*once)) > epsilon {
		t.Errorf("two splats deposited %f, want %f", twice, 2*once)
	}
}

// Constant deposition must converge to the same steady-state magnitude
// regardless of persistence; persistence controls only how fast.
func TestEquilibriumIndependentOfPersistence(t *testing.T) {
	steady := func(persistence float32) float64 {
		f, _ := New(32)
		for i := 0; i < 600; i++ {
			f.ClearBrush()
			f.Splat(vec.Vec2{}, vec.Vec2{X: 0.1})
			f.Step(params.Fixed(persistence), params.Fixed(0), nil)
		}
		return f.TotalDeposit()
	}

	a := steady(0.5)
	b := steady(0.95)
	if a <= 0 || b <= 0 {
		t.Fatalf("degenerate steady states: %f, %f", a, b)
	}
	if rel := math.Abs(a-b) / a; rel > 0.01 {
		t.Errorf("steady state varies with persistence: %f vs %f (rel %f)", a, b, rel)
	}
}

// Diffusion spreads deposits but must not create or destroy mass under
// wrap boundaries (the 4-neighbor average is mass conserving).
func TestDiffusionConservesMassUnderWrap(t *testing.T) {
	f, _ := New(32)
	f.SetWrap(true)
	f.ClearBrush()
	f.Splat(vec.Vec2{}, vec.Vec2{X: 1})
	f.Step(params.Fixed(0), params.Fixed(0), nil)
	before := f.TotalDeposit()

	// Pure diffusion: full persistence, nothing staged.
	f.ClearBrush()
	for i := 0; i < 50; i++ {
		f.Step(params.Fixed(1), params.Fixed(1), nil)
	}
	after := f.TotalDeposit()

	if math.Abs(before-after)/before > 0.001 {
		t.Errorf("diffusion changed total mass: %f -> %f", before, after)
	}

	// And it must actually spread: peak decreases.
	if f.MaxMagnitude() >= 1 {
		t.Error("diffusion did not lower the peak")
	}
}

func TestSampleWrapsAcrossSeam(t *testing.T) {
	f, _ := New(64)
	f.SetWrap(true)
	f.ClearBrush()
	f.Splat(vec.Vec2{X: -1, Y: 0}, vec.Vec2{X: 1})
	f.Step(params.Fixed(0), params.Fixed(0), nil)

	left := f.Sample(vec.Vec2{X: -1, Y: 0})
	right := f.Sample(vec.Vec2{X: 1, Y: 0})
	if left.W <= 0 {
		t.Fatal("no deposit at splat position")
	}
	if math.Abs(float64(left.W-right.W)) > epsilon {
		t.Errorf("seam samples differ under wrap: %f vs %f", left.W, right.W)
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	build := func() *Field {
		f, _ := New(48)
		f.ClearBrush()
		for i := 0; i < 20; i++ {
			x := float32(i)/10 - 1
			f.Splat(vec.Vec2{X: x, Y: x * 0.5}, vec.Vec2{X: 0.2, Y: -0.1})
		}
		return f
	}

	serial := build()
	serial.Step(params.Fixed(0.9), params.Fixed(0.5), nil)

	chunked := build()
	chunked.Step(params.Fixed(0.9), params.Fixed(0.5), func(n int, job func(lo, hi int)) {
		// Fake parallelism: run the same row chunks a scheduler would.
		const workers = 4
		chunk := (n + workers - 1) / workers
		for lo := 0; lo < n; lo += chunk {
			hi := lo + chunk
			if hi > n {
				hi = n
			}
			job(lo, hi)
		}
	})

	sc := serial.Cells()
	cc := chunked.Cells()
	for i := range sc {
		if sc[i] != cc[i] {
			t.Fatalf("cell %d differs between serial and chunked step", i)
		}
	}
}

func TestStrokeDeposits(t *testing.T) {
	f, _ := New(64)
	f.ClearBrush()
	f.Stroke(vec.Vec2{X: -0.5}, vec.Vec2{X: 0.5}, 0.05, 1.0, params.Fixed(0.9))

	var total float32
	for _, c := range f.Brush() {
		total += c.W
	}
	if total <= 0 {
		t.Fatal("stroke deposited nothing")
	}

	// Deposit concentrates near the segment.
	near := f.Brush()[f.cellIndex(32, 32)]
	far := f.Brush()[f.cellIndex(32, 8)]
	if near.W <= far.W {
		t.Errorf("stroke not centered on segment: near=%f far=%f", near.W, far.W)
	}
}

func TestStrokeScaledByPersistence(t *testing.T) {
	deposit := func(p float32) float32 {
		f, _ := New(32)
		f.ClearBrush()
		f.Stroke(vec.Vec2{}, vec.Vec2{X: 0.1}, 0.1, 1.0, params.Fixed(p))
		var total float32
		for _, c := range f.Brush() {
			total += c.W
		}
		return total
	}

	lo := deposit(0.9)
	hi := deposit(0.0)
	if lo >= hi {
		t.Errorf("stroke deposit not scaled by (1-persistence): %f vs %f", lo, hi)
	}
}
