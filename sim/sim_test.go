package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/mire/params"
	"github.com/pthm-cable/mire/vec"
)

const epsilon = 1e-5

// coastSettings returns settings under which agents simply coast:
// no forces, no strafe, no drag loss, no hazard.
func coastSettings() *Settings {
	st := DefaultSettings()
	st.AxialForce = params.Fixed(0)
	st.LateralForce = params.Fixed(0)
	st.GlobalForce = params.Fixed(0)
	st.StrafePower = params.Fixed(0)
	st.Drag = params.Fixed(1)
	st.HazardRate = params.Fixed(0)
	return st
}

func newTestSim(t *testing.T, st *Settings, population int) *Sim {
	t.Helper()
	s, err := NewWithPopulation(st, population, 0.01)
	if err != nil {
		t.Fatalf("NewWithPopulation: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestCohortIsPureFunctionOfIndex(t *testing.T) {
	const n = 1000
	const cohorts = 64
	for i := 0; i < n; i++ {
		want := cohorts * i / n
		if got := cohortOf(i, n, cohorts); got != want {
			t.Fatalf("cohortOf(%d) = %d, want %d", i, got, want)
		}
	}
	if cohortOf(n-1, n, cohorts) >= cohorts {
		t.Error("cohort index escaped its range")
	}
}

func TestPlacementDeterministic(t *testing.T) {
	for _, mode := range []PlacementMode{PlacementGrid, PlacementRandom, PlacementRing} {
		st := coastSettings()
		st.Placement = mode
		s := newTestSim(t, st, 256)

		a := s.placeAgent(17, 256, st)
		b := s.placeAgent(17, 256, st)
		if a != b {
			t.Errorf("mode %v: placement not deterministic", mode)
		}
		if a.Pos.X < -1 || a.Pos.X > 1 || a.Pos.Y < -1 || a.Pos.Y > 1 {
			t.Errorf("mode %v: placed agent outside world: %+v", mode, a.Pos)
		}
		if a.Vel.X == 0 && a.Vel.Y == 0 {
			t.Errorf("mode %v: placed agent with zero velocity", mode)
		}
	}
}

func TestPlacementRingRadius(t *testing.T) {
	st := coastSettings()
	st.Placement = PlacementRing
	s := newTestSim(t, st, 100)

	for _, i := range []int{0, 25, 50, 99} {
		a := s.placeAgent(i, 100, st)
		r := a.Pos.Len()
		if math.Abs(float64(r-ringRadius)) > epsilon {
			t.Errorf("agent %d at radius %f, want %f", i, r, ringRadius)
		}
	}
}

func TestPlacementGridKeyedByCohort(t *testing.T) {
	st := coastSettings()
	st.Placement = PlacementGrid
	st.Cohorts = 4
	s := newTestSim(t, st, 400)

	// Agents in the same cohort share a lattice point.
	a := s.placeAgent(0, 400, st)
	b := s.placeAgent(50, 400, st) // still cohort 0
	if a.Pos != b.Pos {
		t.Error("same-cohort agents placed at different lattice points")
	}
	c := s.placeAgent(399, 400, st) // cohort 3
	if a.Pos == c.Pos {
		t.Error("different cohorts share a lattice point")
	}
}

func stepOne(t *testing.T, s *Sim, st *Settings, a Agent) Agent {
	t.Helper()
	s.rebuildEffectiveRules(st)
	src := []Agent{a}
	dst := make([]Agent, 1)
	s.updateAgent(0, src, dst, st, 5)
	return dst[0]
}

func TestBoundaryBounce(t *testing.T) {
	st := coastSettings()
	st.Boundary = BoundaryBounce
	s := newTestSim(t, st, 1)

	got := stepOne(t, s, st, Agent{
		Pos: vec.Vec2{X: 0.95, Y: 0},
		Vel: vec.Vec2{X: 0.1, Y: 0},
	})

	if math.Abs(float64(got.Pos.X-0.95)) > epsilon {
		t.Errorf("bounce position = %f, want reflection to 0.95", got.Pos.X)
	}
	if math.Abs(float64(got.Vel.X+0.1)) > epsilon {
		t.Errorf("bounce velocity = %f, want sign flip to -0.1", got.Vel.X)
	}
}

func TestBoundaryWrap(t *testing.T) {
	st := coastSettings()
	st.Boundary = BoundaryWrap
	s := newTestSim(t, st, 1)

	got := stepOne(t, s, st, Agent{
		Pos: vec.Vec2{X: 0.95, Y: 0},
		Vel: vec.Vec2{X: 0.1, Y: 0},
	})

	if math.Abs(float64(got.Pos.X+0.95)) > epsilon {
		t.Errorf("wrap position = %f, want -0.95", got.Pos.X)
	}
	// Velocity passes through unchanged.
	if math.Abs(float64(got.Vel.X-0.1)) > epsilon {
		t.Errorf("wrap velocity = %f, want 0.1", got.Vel.X)
	}
}

func TestBoundaryReset(t *testing.T) {
	st := coastSettings()
	st.Boundary = BoundaryReset
	s := newTestSim(t, st, 1)

	got := stepOne(t, s, st, Agent{
		Pos: vec.Vec2{X: 0.95, Y: 0},
		Vel: vec.Vec2{X: 0.1, Y: 0},
	})

	want := s.placeAgent(0, 1, st)
	if got != want {
		t.Errorf("reset boundary produced %+v, want fresh placement %+v", got, want)
	}
}

// With the canvas flow everywhere parallel to the agent's heading, the
// left and right sensors read mirror-symmetric signals, and the
// mirror-and-sum evaluation must cancel all lateral output exactly: the
// agent stays on its axis.
func TestMirrorSymmetryCancellation(t *testing.T) {
	st := DefaultSettings()
	st.HazardRate = params.Fixed(0)
	s := newTestSim(t, st, 1)

	cells := s.Canvas().Cells()
	for i := range cells {
		cells[i] = vec.Vec4{X: 0, Y: 0.3, Z: 0.05, W: 1}
	}

	got := stepOne(t, s, st, Agent{
		Pos: vec.Vec2{X: 0, Y: 0},
		Vel: vec.Vec2{X: 0, Y: 0.01},
	})

	if got.Pos.X != 0 {
		t.Errorf("lateral drift: pos.X = %g, want exactly 0", got.Pos.X)
	}
	if got.Vel.X != 0 {
		t.Errorf("lateral drift: vel.X = %g, want exactly 0", got.Vel.X)
	}
	// Axial response must exist (the field is nonzero).
	if got.Pos.Y == 0 && got.Vel.Y == 0.01 {
		t.Error("no axial response to a nonzero field")
	}
}

func TestZeroVelocityNeverNaN(t *testing.T) {
	st := DefaultSettings()
	st.HazardRate = params.Fixed(0)
	s := newTestSim(t, st, 1)

	got := stepOne(t, s, st, Agent{})
	for _, v := range []float32{got.Pos.X, got.Pos.Y, got.Vel.X, got.Vel.Y} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("zero-velocity agent produced non-finite state: %+v", got)
		}
	}
}

func TestHazardReinitializesEveryAgent(t *testing.T) {
	st := coastSettings()
	st.HazardRate = params.Fixed(1) // certain hazard
	st.Placement = PlacementRing
	s := newTestSim(t, st, 64)

	s.Advance() // frame 0: initial placement
	s.Advance() // hazard draw always fires

	snap := s.Snapshot(nil)
	for i, a := range snap {
		want := s.placeAgent(i, 64, st)
		if a != want {
			t.Fatalf("agent %d not reinitialized under certain hazard", i)
		}
	}
}

func TestResetReplacesAgentsNextTick(t *testing.T) {
	st := DefaultSettings()
	st.Placement = PlacementRandom
	s := newTestSim(t, st, 128)

	for i := 0; i < 5; i++ {
		s.Advance()
	}
	s.Reset()
	if s.Frame() != 0 {
		t.Fatalf("Reset left frame at %d", s.Frame())
	}
	s.Advance()

	snap := s.Snapshot(nil)
	for i, a := range snap {
		want := s.placeAgent(i, 128, st)
		if a != want {
			t.Fatalf("agent %d not repositioned on the reset frame", i)
		}
	}
}

func TestSetConfigEffectiveNextTick(t *testing.T) {
	st := coastSettings()
	s := newTestSim(t, st, 64)

	next := coastSettings()
	next.Boundary = BoundaryWrap
	s.SetConfig(next)

	if s.Settings() != next {
		t.Error("Settings() should report the pending configuration")
	}
	s.Advance()
	if s.settings != next {
		t.Error("pending configuration was not swapped in at tick start")
	}
}

func TestResizeReallocates(t *testing.T) {
	s := newTestSim(t, coastSettings(), 64)
	s.Advance()

	if err := s.Resize(256, 0.04); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if s.Count() != 256 {
		t.Errorf("population after resize = %d, want 256", s.Count())
	}
	if s.Frame() != 0 {
		t.Error("resize did not restart the frame counter")
	}

	if err := s.Resize(0, 1); err == nil {
		t.Error("Resize(0, 1) succeeded, want error")
	}
	if err := s.Resize(100, -1); err == nil {
		t.Error("Resize with negative world size succeeded, want error")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestSim(t, coastSettings(), 32)
	s.Advance()

	snap := s.Snapshot(nil)
	snap[0].Pos.X = 42

	again := s.Snapshot(nil)
	if again[0].Pos.X == 42 {
		t.Error("snapshot aliases live simulation state")
	}
}

// End-to-end scenario: a coasting population must stay in bounds and the
// canvas must settle to a bounded, nonzero deposit level.
func TestEndToEndBounded(t *testing.T) {
	st := coastSettings()
	st.TrailPersistence = params.Fixed(0.98)
	st.TrailDiffusion = params.Fixed(1)
	st.Placement = PlacementRandom

	const n = 1000
	s := newTestSim(t, st, n)

	for i := 0; i < 100; i++ {
		s.Advance()
	}

	snap := s.Snapshot(nil)
	for i, a := range snap {
		if a.Pos.X < -1 || a.Pos.X > 1 || a.Pos.Y < -1 || a.Pos.Y > 1 {
			t.Fatalf("agent %d escaped the world: %+v", i, a.Pos)
		}
	}

	total := s.Canvas().TotalDeposit()
	if total <= 0 {
		t.Fatal("canvas collapsed to zero despite nonzero deposition")
	}
	// Each agent deposits a kernel of bounded total weight per tick, and
	// the convex blend cannot exceed the per-tick deposit at
	// equilibrium. A generous multiple of N catches runaway growth.
	if total > float64(n)*100 {
		t.Fatalf("canvas deposit %f suggests runaway growth", total)
	}
}
