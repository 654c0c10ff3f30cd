// Package noise provides the deterministic hash primitive underlying all
// randomness in the simulation. Every call is a pure function of its
// inputs; there is no retained state. The bit pattern of the result is a
// hard contract: reruns and alternate execution backends must produce
// identical floats for identical inputs.
package noise

import (
	"math"

	"github.com/pthm-cable/mire/vec"
)

// pcg runs one step of a PCG-style integer mix.
func pcg(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// Hash maps two arbitrary float32 values (coordinates, indices, seeds)
// to a float32 in [0, 1). The inputs are bit-reinterpreted, so -0 and +0
// hash differently; callers that care must canonicalize.
func Hash(x, y float32) float32 {
	h := pcg(pcg(math.Float32bits(x)) ^ math.Float32bits(y))
	return float32(h) / float32(math.MaxUint32)
}

// Offsets decorrelating the four Hash4 lanes. The exact values are
// arbitrary; changing them changes every generated rule.
const (
	off0 = 17.1718
	off1 = 23.3131
	off2 = 5.5353
	off3 = 11.1414
	off4 = 31.4159
	off5 = 13.3737
)

// Hash4 produces four decorrelated floats in [0, 1) from the same input
// pair by hashing four fixed coordinate transforms of it: identity,
// negate+offset, swap+offset, and swap+negate+offset.
func Hash4(x, y float32) vec.Vec4 {
	return vec.Vec4{
		X: Hash(x, y),
		Y: Hash(-x+off0, -y+off1),
		Z: Hash(y+off2, x+off3),
		W: Hash(-y+off4, -x+off5),
	}
}
