package systems

import (
	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/config"
)

// Perlin parameters for the gust generator.
const (
	gustAlpha   = 2.0
	gustBeta    = 2.0
	gustOctaves = 3
	gustYOffset = 1000.0 // decorrelates the Y channel from X
)

// AmbientWind is the process-level wind vector composed each frame from
// input pushes and field contributions, then decayed.
type AmbientWind struct {
	base  r2.Vec
	step  float64
	decay float64

	gust      *perlin.Perlin
	gustAmp   float64
	gustFreq  float64
	gustClock float64
}

// NewAmbientWind creates a calm wind.
func NewAmbientWind(cfg config.WindConfig) *AmbientWind {
	w := &AmbientWind{
		step:     cfg.Step,
		decay:    cfg.Decay,
		gustAmp:  cfg.GustAmplitude,
		gustFreq: cfg.GustFrequency,
	}
	if cfg.GustAmplitude != 0 {
		w.gust = perlin.NewPerlin(gustAlpha, gustBeta, gustOctaves, cfg.GustSeed)
	}
	return w
}

// Push adds one step of wind in direction dir (per-axis -1, 0 or 1 for
// held arrow keys).
func (w *AmbientWind) Push(dir r2.Vec) {
	w.base = r2.Add(w.base, r2.Scale(w.step, dir))
}

// Add accumulates an arbitrary contribution, such as a field sum.
func (w *AmbientWind) Add(v r2.Vec) {
	w.base = r2.Add(w.base, v)
}

// Decay applies the per-frame falloff.
func (w *AmbientWind) Decay() {
	w.base = r2.Scale(w.decay, w.base)
}

// Advance moves the gust clock forward.
func (w *AmbientWind) Advance(dt float64) {
	w.gustClock += dt
}

// Base returns the accumulated wind without gusts.
func (w *AmbientWind) Base() r2.Vec {
	return w.base
}

// Vector returns the wind to apply this frame.
func (w *AmbientWind) Vector() r2.Vec {
	if w.gust == nil {
		return w.base
	}
	t := w.gustClock * w.gustFreq
	g := r2.Vec{
		X: w.gust.Noise1D(t),
		Y: w.gust.Noise1D(t + gustYOffset),
	}
	return r2.Add(w.base, r2.Scale(w.gustAmp, g))
}

// Reset calms the wind.
func (w *AmbientWind) Reset() {
	w.base = r2.Vec{}
	w.gustClock = 0
}
