package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/config"
)

// Restitution decides the post-collision velocity for a particle that
// struck edge e.
type Restitution interface {
	Bounce(vel r2.Vec, e Edge) r2.Vec
}

// FixedElastic reverses the struck axis and scales it by Coeff. A
// coefficient above 1 adds energy on every bounce.
type FixedElastic struct {
	Coeff float64
}

// Bounce implements Restitution.
func (f FixedElastic) Bounce(vel r2.Vec, e Edge) r2.Vec {
	switch e {
	case EdgeLeft, EdgeRight:
		vel.X *= -f.Coeff
	case EdgeTop, EdgeBottom:
		vel.Y *= -f.Coeff
	}
	return vel
}

// RandomizedElastic draws a fresh coefficient per bounce: an integer k
// uniform in [Min, Max] plus Offset. With BothAxes set the coefficient
// scales the whole velocity, otherwise only the struck axis.
type RandomizedElastic struct {
	Min, Max int
	Offset   float64
	BothAxes bool
	Rand     *rand.Rand
}

// Bounce implements Restitution.
func (r RandomizedElastic) Bounce(vel r2.Vec, e Edge) r2.Vec {
	k := r.Min
	if r.Max > r.Min {
		k += r.Rand.Intn(r.Max - r.Min + 1)
	}
	coeff := float64(k) + r.Offset

	if r.BothAxes {
		return r2.Scale(coeff, vel)
	}
	switch e {
	case EdgeLeft, EdgeRight:
		vel.X *= coeff
	case EdgeTop, EdgeBottom:
		vel.Y *= coeff
	}
	return vel
}

// NewRestitution builds the configured policy.
func NewRestitution(cfg config.RestitutionConfig, rng *rand.Rand) Restitution {
	if cfg.Kind == config.RestitutionRandomized {
		return RandomizedElastic{
			Min:      cfg.Min,
			Max:      cfg.Max,
			Offset:   cfg.Offset,
			BothAxes: cfg.BothAxes,
			Rand:     rng,
		}
	}
	return FixedElastic{Coeff: cfg.Coeff}
}
