// Package rule implements the parametric "black box" that turns an
// agent's sensor readings into motion outputs. A rule is a fixed set of
// Fourier centers; evaluating it is an unconstrained sum of damped
// oscillators, so output magnitude is unbounded by construction and all
// force scaling downstream exists to compensate.
package rule

import (
	"math"

	"github.com/pthm-cable/mire/noise"
	"github.com/pthm-cable/mire/vec"
)

// NumCenters is the fixed number of Fourier centers per rule.
const NumCenters = 10

// phaseStep spaces the per-center phase offsets.
const phaseStep = 0.6283

// Center is one Fourier center: a 4-vector frequency and a 4-vector
// amplitude. The amplitude's W component doubles as a phase shift.
type Center struct {
	Freq vec.Vec4 `yaml:"freq"`
	Amp  vec.Vec4 `yaml:"amp"`
}

// Rule is a fixed-size value type; it has no identity beyond its
// contents and is copied freely.
type Rule [NumCenters]Center

// Evaluate maps a 4-vector signal to a 4-vector output. Centers are
// accumulated in index order with left-to-right arithmetic; the order is
// part of the reproducibility contract and must not be changed.
func (r *Rule) Evaluate(signal vec.Vec4) vec.Vec4 {
	var sum vec.Vec4
	for i := 0; i < NumCenters; i++ {
		phase := signal.Dot(r[i].Freq)
		offset := 2*float32(i)*phaseStep + r[i].Amp.W*math.Pi
		basis := vec.Vec4{
			X: sinf(phase + offset),
			Y: cosf(phase + 0.7*offset),
			Z: sinf(2*phase + 1.3*offset),
			W: cosf(2*phase + 0.5*offset),
		}
		sum = sum.Add(r[i].Amp.Mul(basis))
	}
	return sum
}

// IsUnset reports whether the rule carries the "no rule configured"
// sentinel: center-0 frequency and center-5 amplitude both exactly zero.
// This is a magic-value convention inherited from saved configurations,
// not a general zero check; a rule with any nonzero value in those two
// slots is considered configured even if every other slot is zero.
func (r *Rule) IsUnset() bool {
	return r[0].Freq.IsZero() && r[5].Amp.IsZero()
}

// Generate derives a rule from a seed. Frequencies are biased toward low
// values: the first hash of each center sets a shared scale 1+2*h0^2 that
// stretches all four components.
func Generate(seed float32) Rule {
	var r Rule
	for i := 0; i < NumCenters; i++ {
		var h [8]float32
		for k := 0; k < 8; k++ {
			h[k] = noise.Hash(seed, float32(i*8+k))
		}
		scale := 1 + 2*h[0]*h[0]
		r[i].Freq = vec.Vec4{
			X: (h[0]*2 - 1) * scale,
			Y: (h[1]*2 - 1) * scale,
			Z: (h[2]*2 - 1) * scale,
			W: (h[3]*2 - 1) * scale,
		}
		r[i].Amp = vec.Vec4{
			X: h[4]*2 - 1,
			Y: h[5]*2 - 1,
			Z: h[6]*2 - 1,
			W: h[7]*2 - 1,
		}
	}
	return r
}

// Mutate perturbs the rule in place. The perturbation is keyed on the
// rule's own contents (centers 4, 7 and 1) plus the cohort value, so the
// same rule and cohort always mutate the same way: stable across frames,
// distinct across cohorts. Amplitudes shift additively within
// [-amount, amount]; frequencies scale multiplicatively.
func (r *Rule) Mutate(cohort, amount float32) {
	if amount == 0 {
		return
	}
	seed := sum4(r[4].Freq) + sum4(r[7].Amp) + sum4(r[1].Freq) + cohort
	for i := 0; i < NumCenters; i++ {
		h := noise.Hash4(seed, float32(i))
		r[i].Amp = r[i].Amp.Add(vec.Vec4{
			X: h.X*2 - 1,
			Y: h.Y*2 - 1,
			Z: h.Z*2 - 1,
			W: h.W*2 - 1,
		}.Scale(amount))
		f := 1 + amount*0.5*(noise.Hash(seed, float32(i)+0.5)-0.5)
		r[i].Freq = r[i].Freq.Scale(f)
	}
}

// Effective resolves the rule an agent cohort actually runs this tick:
// the base rule (or, under the unset sentinel, a rule generated from
// ruleSeed+cohort) with the cohort mutation applied. The mutation is
// never persisted; callers recompute it each tick.
func Effective(base Rule, ruleSeed, cohort, amount float32) Rule {
	r := base
	if r.IsUnset() {
		r = Generate(ruleSeed + cohort)
	}
	r.Mutate(cohort, amount)
	return r
}

func sum4(v vec.Vec4) float32 {
	return v.X + v.Y + v.Z + v.W
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}
