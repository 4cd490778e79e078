package main

import (
	"github.com/pthm-cable/gust/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "gravity", Path: "physics.gravity", Min: 0, Max: 400, Default: 50},
			{Name: "shrink_rate", Path: "physics.shrink_rate", Min: 0, Max: 3, Default: 0.4},
			{Name: "fade_window", Path: "physics.fade_window", Min: 0.5, Max: 10, Default: 5},
			{Name: "restitution", Path: "restitution.coeff", Min: 0.1, Max: 2, Default: 1.5},
			{Name: "wind_decay", Path: "wind.decay", Min: 0.8, Max: 1, Default: 0.99},
			{Name: "lifespan", Path: "particle.lifespan", Min: 1, Max: 30, Default: 11},
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

// Normalize converts raw parameter values to [0,1].
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}

// ApplyToConfig writes clamped values into cfg. The restitution policy is
// switched to fixed so the coefficient takes effect.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)
	cfg.Physics.Gravity = v[0]
	cfg.Physics.ShrinkRate = v[1]
	cfg.Physics.FadeWindow = v[2]
	cfg.Restitution.Kind = config.RestitutionFixed
	cfg.Restitution.Coeff = v[3]
	cfg.Wind.Decay = v[4]
	cfg.Particle.Lifespan = v[5]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Physics.Gravity,
		cfg.Physics.ShrinkRate,
		cfg.Physics.FadeWindow,
		cfg.Restitution.Coeff,
		cfg.Wind.Decay,
		cfg.Particle.Lifespan,
	}
}
