package sim

import (
	"math"

	"github.com/pthm-cable/mire/noise"
	"github.com/pthm-cable/mire/vec"
)

// sensorReach converts the sensor-distance setting to world units.
const sensorReach = 0.02

// initialSpeed is the velocity magnitude scale for freshly placed
// agents. Placement must not leave an agent with exactly zero velocity:
// zero velocity means zero orientation, and a zero-orientation agent
// produces no force and never moves again.
const initialSpeed = 1e-3

const ringRadius = 0.5

// updateAgent advances one agent from src to dst. Reads only src and the
// current canvas, writes only dst[i]; safe to run for all agents in
// parallel.
func (s *Sim) updateAgent(i int, src, dst []Agent, st *Settings, frame int) {
	n := len(src)
	a := src[i]

	cohorts := st.Cohorts
	if cohorts < 1 {
		cohorts = 1
	}
	cohortIdx := cohortOf(i, n, cohorts)
	cohort := cohortNorm(cohortIdx, cohorts)
	normIdx := float32(i) / float32(n)

	// Hazard/reset branch. The draw is keyed on (normalized index,
	// frame), so agents at the same normalized index correlate across
	// population sizes; that is observed behavior, kept as-is.
	hazard := st.HazardRate.Resolve(a.Pos, cohort)
	if frame == 0 || noise.Hash(normIdx, float32(frame)) < hazard {
		dst[i] = s.placeAgent(i, n, st)
		return
	}

	orient := a.Vel.SafeNormalize()
	orient = applyAbsoluteOrientation(orient, a.Pos, st)
	fwd := orient
	left := orient.Perp()

	// Sensing: two field samples at ±sensorAngle·π along the
	// orientation, decomposed into the agent's local frame.
	ang := st.SensorAngle.Resolve(a.Pos, cohort) * math.Pi
	dist := st.SensorDistance.Resolve(a.Pos, cohort) * sensorReach
	sL := s.canvas.Sample(a.Pos.Add(orient.Rotate(ang).Scale(dist)))
	sR := s.canvas.Sample(a.Pos.Add(orient.Rotate(-ang).Scale(dist)))

	gain := st.SensorGain.Resolve(a.Pos, cohort) * s.senseScale
	flowL := vec.Vec2{X: sL.X, Y: sL.Y}
	flowR := vec.Vec2{X: sR.X, Y: sR.Y}
	sig := vec.Vec4{
		X: flowL.Dot(fwd),
		Y: flowL.Dot(left),
		Z: flowR.Dot(fwd),
		W: flowR.Dot(left),
	}.Scale(gain)

	// Evaluate the black box on the signal and on its left-right mirror,
	// then fold the mirrored output back. Summing base + reflected
	// mirror cancels any systematic clockwise/counter-clockwise bias
	// the raw rule would introduce.
	r := &s.effRules[cohortIdx]
	out := r.Evaluate(sig)
	if !st.DisableSymmetry {
		m := r.Evaluate(vec.Vec4{X: sig.Z, Y: -sig.W, Z: sig.X, W: -sig.Y})
		out = vec.Vec4{
			X: out.X + m.X,
			Y: out.Y - m.Y,
			Z: out.Z + m.Z,
			W: out.W - m.W,
		}
	}

	axial := st.AxialForce.Resolve(a.Pos, cohort)
	lateral := st.LateralForce.Resolve(a.Pos, cohort)
	global := st.GlobalForce.Resolve(a.Pos, cohort)

	force := fwd.Scale(out.X * axial).
		Add(left.Scale(out.Y * lateral)).
		Scale(global * s.forceScale)
	strafe := fwd.Scale(out.Z).
		Add(left.Scale(out.W)).
		Scale(s.strafeScale)

	vel := a.Vel.Scale(st.Drag.Resolve(a.Pos, cohort)).Add(force)
	pos := a.Pos.Add(vel)
	pos = pos.Add(strafe.Scale(st.StrafePower.Resolve(a.Pos, cohort)))

	switch st.Boundary {
	case BoundaryWrap:
		pos = wrapPosition(pos)
	case BoundaryReset:
		if pos.X < -1 || pos.X > 1 || pos.Y < -1 || pos.Y > 1 {
			dst[i] = s.placeAgent(i, n, st)
			return
		}
	default: // BoundaryBounce
		if pos.X < -1 || pos.X > 1 {
			pos.X = edgeFold(pos.X)
			vel.X = -vel.X
		}
		if pos.Y < -1 || pos.Y > 1 {
			pos.Y = edgeFold(pos.Y)
			vel.Y = -vel.Y
		}
	}

	dst[i] = Agent{Pos: pos, Vel: vel}
}

// placeAgent returns a freshly initialized agent per the placement mode.
// Placement is a pure function of (index, population, settings), so a
// reset reproduces the exact same layout.
func (s *Sim) placeAgent(i, n int, st *Settings) Agent {
	cohorts := st.Cohorts
	if cohorts < 1 {
		cohorts = 1
	}
	cohortIdx := cohortOf(i, n, cohorts)

	switch st.Placement {
	case PlacementRandom:
		h := noise.Hash4(float32(i), st.RuleSeed+11.318)
		return Agent{
			Pos: vec.Vec2{X: h.X*2 - 1, Y: h.Y*2 - 1},
			Vel: vec.Vec2{X: h.Z*2 - 1, Y: h.W*2 - 1}.Scale(initialSpeed),
		}
	case PlacementRing:
		theta := 2 * math.Pi * float64(i) / float64(n)
		dir := vec.Vec2{X: float32(math.Cos(theta)), Y: float32(math.Sin(theta))}
		return Agent{
			Pos: dir.Scale(ringRadius),
			Vel: dir.Perp().Scale(initialSpeed),
		}
	default: // PlacementGrid: one lattice point per cohort.
		side := int(math.Ceil(math.Sqrt(float64(cohorts))))
		gx := cohortIdx % side
		gy := cohortIdx / side
		pos := vec.Vec2{
			X: (float32(gx)+0.5)/float32(side)*2 - 1,
			Y: (float32(gy)+0.5)/float32(side)*2 - 1,
		}
		h := noise.Hash4(float32(i), st.RuleSeed+3.771)
		return Agent{
			Pos: pos,
			Vel: vec.Vec2{X: h.X*2 - 1, Y: h.Y*2 - 1}.Scale(initialSpeed),
		}
	}
}

// applyAbsoluteOrientation blends a fixed direction into the sensing
// orientation when the mode is enabled.
func applyAbsoluteOrientation(orient, pos vec.Vec2, st *Settings) vec.Vec2 {
	var target vec.Vec2
	switch st.AbsoluteOrientation {
	case OrientationYAxis:
		target = vec.Vec2{Y: 1}
	case OrientationRadial:
		target = pos.SafeNormalize()
	default:
		return orient
	}
	mix := st.OrientationMix
	blended := orient.Scale(1 - mix).Add(target.Scale(mix))
	return blended.SafeNormalize()
}

// edgeFold reflects an out-of-range coordinate back into [-1, 1]:
// sign(x) * (1 - abs(1 - abs(x))).
func edgeFold(x float32) float32 {
	ax := absf(x)
	folded := 1 - absf(1-ax)
	if x < 0 {
		return -folded
	}
	return folded
}

// wrapPosition maps a position onto the torus: 2*(fract(p/2-0.5)-0.5).
func wrapPosition(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: 2 * (vec.Fract(p.X/2-0.5) - 0.5),
		Y: 2 * (vec.Fract(p.Y/2-0.5) - 0.5),
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
