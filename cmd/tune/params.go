// Package main provides CMA-ES search over physics parameters for
// configurations that produce strongly structured trail patterns.
package main

import (
	"github.com/pthm-cable/mire/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable physics parameters.
// Sweep ranges and trail persistence bounds are tighter than the UI
// slider ranges; values outside them rarely produce stable patterns.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "sensor_gain", Min: -2.0, Max: 2.0, Default: 0.371},
			{Name: "sensor_angle", Min: -3.14, Max: 3.14, Default: -0.707},
			{Name: "sensor_distance", Min: 0.0, Max: 1.0, Default: 0.116},
			{Name: "drag", Min: 0.0, Max: 1.0, Default: 0.504},
			{Name: "strafe_power", Min: 0.0, Max: 1.0, Default: 0.224},
			{Name: "axial_force", Min: 0.0, Max: 2.0, Default: 0.45},
			{Name: "lateral_force", Min: 0.0, Max: 2.0, Default: 1.0},
			{Name: "mutation_scale", Min: 0.0, Max: 0.5, Default: 0.0},
			{Name: "trail_persistence", Min: 0.8, Max: 0.995, Default: 0.938},
			{Name: "trail_diffusion", Min: 0.0, Max: 1.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp restricts raw values to their declared bounds.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := raw[i]
		if v < spec.Min {
			v = spec.Min
		}
		if v > spec.Max {
			v = spec.Max
		}
		clamped[i] = v
	}
	return clamped
}

// ApplyToConfig writes a parameter vector into a config's physics block.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	raw = pv.Clamp(raw)
	cfg.Physics.SensorGain.Value = float32(raw[0])
	cfg.Physics.SensorAngle.Value = float32(raw[1])
	cfg.Physics.SensorDistance.Value = float32(raw[2])
	cfg.Physics.Drag.Value = float32(raw[3])
	cfg.Physics.StrafePower.Value = float32(raw[4])
	cfg.Physics.AxialForce.Value = float32(raw[5])
	cfg.Physics.LateralForce.Value = float32(raw[6])
	cfg.Physics.MutationScale.Value = float32(raw[7])
	cfg.Physics.TrailPersistence.Value = float32(raw[8])
	cfg.Physics.TrailDiffusion.Value = float32(raw[9])
}
