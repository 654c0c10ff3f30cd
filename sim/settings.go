package sim

import (
	"github.com/pthm-cable/mire/params"
	"github.com/pthm-cable/mire/rule"
)

// BoundaryMode selects what happens when an agent leaves the world
// rectangle.
type BoundaryMode int

const (
	BoundaryBounce BoundaryMode = iota
	BoundaryReset
	BoundaryWrap
)

// PlacementMode selects how agents are (re)initialized.
type PlacementMode int

const (
	PlacementGrid PlacementMode = iota
	PlacementRandom
	PlacementRing
)

// OrientationMode optionally overrides the velocity-derived sensing
// orientation with an absolute direction.
type OrientationMode int

const (
	OrientationOff OrientationMode = iota
	OrientationYAxis
	OrientationRadial
)

// Settings is the immutable-per-tick configuration snapshot the core
// runs against. The core never validates it: malformed values may make
// the picture ugly but must not crash the simulation. Swapping settings
// takes effect at the start of the next tick.
type Settings struct {
	RuleSeed float32
	Cohorts  int
	Rule     rule.Rule

	SensorGain     params.Setting
	SensorAngle    params.Setting
	SensorDistance params.Setting
	MutationScale  params.Setting
	Drag           params.Setting
	StrafePower    params.Setting
	AxialForce     params.Setting
	LateralForce   params.Setting
	GlobalForce    params.Setting
	HazardRate     params.Setting

	TrailPersistence params.Setting
	TrailDiffusion   params.Setting

	Boundary  BoundaryMode
	Placement PlacementMode

	// DisableSymmetry skips the mirrored rule evaluation, exposing
	// whatever rotational bias the raw rule carries.
	DisableSymmetry bool

	// AbsoluteOrientation / OrientationMix blend a fixed direction into
	// the sensing orientation.
	AbsoluteOrientation OrientationMode
	OrientationMix      float32
}

// DefaultSettings mirrors the stock preset: sweep ranges and base values
// carried over from saved-configuration compatibility.
func DefaultSettings() *Settings {
	return &Settings{
		RuleSeed: 0.42,
		Cohorts:  64,

		AxialForce:     params.Setting{Value: 0.371, Min: -1, Max: 1},
		LateralForce:   params.Setting{Value: -0.707, Min: -1, Max: 1},
		SensorGain:     params.Setting{Value: 0.116, Min: 0, Max: 5},
		MutationScale:  params.Setting{Value: 0, Min: -0.5, Max: 0.5},
		Drag:           params.Setting{Value: 0.504, Min: -1, Max: 1},
		StrafePower:    params.Setting{Value: 0.224, Min: 0, Max: 0.5},
		SensorAngle:    params.Setting{Value: 0.45, Min: -1, Max: 1},
		GlobalForce:    params.Setting{Value: 1.0, Min: 0, Max: 2},
		SensorDistance: params.Setting{Value: 1.0, Min: 0, Max: 4},
		HazardRate:     params.Setting{Value: 0, Min: 0, Max: 0.05},

		TrailPersistence: params.Setting{Value: 0.938, Min: 0, Max: 1},
		TrailDiffusion:   params.Setting{Value: 1.0, Min: 0, Max: 1},

		Boundary:       BoundaryBounce,
		Placement:      PlacementGrid,
		OrientationMix: 1.0,
	}
}
