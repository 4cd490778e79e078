package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/systems"
)

// Sample is a point-in-time view of the swarm taken at window end.
type Sample struct {
	Live      int
	Visible   int
	Lingering int

	Lifespans []float64
	Sizes     []float64
	Speeds    []float64

	Wind         r2.Vec
	ActiveFields int
}

// NewSample captures the state of the given particles.
func NewSample(particles []systems.Particle, ph *systems.Physics, wind r2.Vec, activeFields int) Sample {
	n := len(particles)
	s := Sample{
		Live:         n,
		Lifespans:    make([]float64, n),
		Sizes:        make([]float64, n),
		Speeds:       make([]float64, n),
		Wind:         wind,
		ActiveFields: activeFields,
	}
	for i := range particles {
		p := &particles[i]
		if p.Alpha(ph) > 0 {
			s.Visible++
		} else {
			s.Lingering++
		}
		s.Lifespans[i] = p.Lifespan
		s.Sizes[i] = p.Size
		s.Speeds[i] = r2.Norm(p.Velocity)
	}
	return s
}
