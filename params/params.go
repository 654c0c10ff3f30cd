// Package params implements position- and cohort-dependent resolution of
// physics parameters ("sweeps"). Both the agent update and the field
// update resolve parameters through this package; the two call sites must
// agree exactly for saved configurations to behave identically, so the
// resolution logic lives here and nowhere else.
package params

import "github.com/pthm-cable/mire/vec"

// Sweep modes. Zero disables a sweep axis, positive runs min to max,
// negative runs max to min.
const (
	SweepOff     float32 = 0
	SweepNormal  float32 = 1
	SweepInverse float32 = -1
)

// Setting is one scalar physics parameter with an optional sweep range.
// When no sweep axis is active the base Value is used everywhere;
// otherwise the resolved value is the average of the active axis
// contributions, each mixed across [Min, Max].
type Setting struct {
	Value float32 `yaml:"value"`
	Min   float32 `yaml:"min"`
	Max   float32 `yaml:"max"`

	XSweep      float32 `yaml:"x_sweep"`
	YSweep      float32 `yaml:"y_sweep"`
	CohortSweep float32 `yaml:"cohort_sweep"`
}

// Fixed returns a Setting that always resolves to v.
func Fixed(v float32) Setting {
	return Setting{Value: v, Min: v, Max: v}
}

// mix linearly interpolates between a and b by t.
func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Resolve returns the effective parameter value at a world position
// (components in [-1, 1]) and normalized cohort (in [0, 1]).
func (s Setting) Resolve(pos vec.Vec2, cohort float32) float32 {
	if s.XSweep == 0 && s.YSweep == 0 && s.CohortSweep == 0 {
		return s.Value
	}

	// World position maps to [0, 1] for mixing.
	nx := (pos.X + 1) / 2
	ny := (pos.Y + 1) / 2

	var result float32
	var active float32

	if s.XSweep != 0 {
		if s.XSweep > 0 {
			result += mix(s.Min, s.Max, nx)
		} else {
			result += mix(s.Max, s.Min, nx)
		}
		active++
	}
	if s.YSweep != 0 {
		if s.YSweep > 0 {
			result += mix(s.Min, s.Max, ny)
		} else {
			result += mix(s.Max, s.Min, ny)
		}
		active++
	}
	if s.CohortSweep != 0 {
		if s.CohortSweep > 0 {
			result += mix(s.Min, s.Max, cohort)
		} else {
			result += mix(s.Max, s.Min, cohort)
		}
		active++
	}

	// Averaging keeps the result inside [Min, Max] no matter how many
	// axes are active.
	return result / active
}

// Swept reports whether any sweep axis is active.
func (s Setting) Swept() bool {
	return s.XSweep != 0 || s.YSweep != 0 || s.CohortSweep != 0
}
