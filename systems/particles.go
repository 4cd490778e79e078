package systems

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sink receives one disc per live particle during Render.
type Sink interface {
	DrawParticle(pos r2.Vec, size float64, c color.RGBA)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(pos r2.Vec, size float64, c color.RGBA)

// DrawParticle implements Sink.
func (f SinkFunc) DrawParticle(pos r2.Vec, size float64, c color.RGBA) {
	f(pos, size, c)
}

// StepReport summarizes one Update call.
type StepReport struct {
	Spawned int // Filled in by Scene
	Updated int
	Culled  int
	Hits    [EdgeBottom + 1]int // Indexed by Edge
}

// Add folds another report into r.
func (r *StepReport) Add(o StepReport) {
	r.Spawned += o.Spawned
	r.Updated += o.Updated
	r.Culled += o.Culled
	for i := range r.Hits {
		r.Hits[i] += o.Hits[i]
	}
}

// ParticleSystem owns the live particles in spawn order.
// It is a single-writer structure: Add, Update and the hooks must not run
// concurrently.
type ParticleSystem struct {
	particles []Particle
	physics   Physics
	template  Template
}

// NewParticleSystem creates a new particle system.
func NewParticleSystem(ph Physics, tmpl Template) *ParticleSystem {
	return &ParticleSystem{
		particles: make([]Particle, 0, 256),
		physics:   ph,
		template:  tmpl,
	}
}

// Physics returns the integrator constants in use.
func (s *ParticleSystem) Physics() *Physics {
	return &s.physics
}

// Template returns the spawn state.
func (s *ParticleSystem) Template() Template {
	return s.template
}

// Add appends a particle with the spawn state at the given position and velocity.
func (s *ParticleSystem) Add(pos, vel r2.Vec) {
	s.particles = append(s.particles, Particle{
		Position: pos,
		Velocity: vel,
		Tag:      EdgeNone,
		Lifespan: s.template.Lifespan,
		Size:     s.template.Size,
	})
}

// Update integrates every particle, then removes the dead ones while
// keeping survivors in order. Negative dt is treated as zero.
func (s *ParticleSystem) Update(dt float64, b Bounds, wind r2.Vec) StepReport {
	if dt < 0 {
		dt = 0
	}

	var report StepReport
	for i := range s.particles {
		hits := s.particles[i].Update(dt, b, wind, &s.physics)
		for e := EdgeLeft; e <= EdgeBottom; e++ {
			if hits.Has(e) {
				report.Hits[e]++
			}
		}
	}
	report.Updated = len(s.particles)

	// Cull only after the whole frame has been integrated
	alive := 0
	for i := range s.particles {
		if s.particles[i].IsDead() {
			continue
		}
		s.particles[alive] = s.particles[i]
		alive++
	}
	report.Culled = len(s.particles) - alive
	clear(s.particles[alive:])
	s.particles = s.particles[:alive]

	return report
}

// Render emits every live particle, in order, to sink.
func (s *ParticleSystem) Render(sink Sink) {
	for i := range s.particles {
		p := &s.particles[i]
		sink.DrawParticle(p.Position, p.Size, p.Color(&s.physics, s.template.Color))
	}
}

// Count returns the current number of live particles.
func (s *ParticleSystem) Count() int {
	return len(s.particles)
}

// Clear removes every particle.
func (s *ParticleSystem) Clear() {
	s.particles = s.particles[:0]
}

// Particles returns the live particles in spawn order. The slice is only
// valid until the next mutating call and must not be modified.
func (s *ParticleSystem) Particles() []Particle {
	return s.particles
}

// ApplyAudio nudges each particle along its velocity by the magnitude of
// its sample. Samples are reused cyclically when there are fewer samples
// than particles; an empty slice does nothing.
func (s *ParticleSystem) ApplyAudio(samples []float64) {
	if len(samples) == 0 {
		return
	}
	for i := range s.particles {
		p := &s.particles[i]
		scale := math.Abs(samples[i%len(samples)])
		p.Position = r2.Add(p.Position, r2.Scale(scale, p.Velocity))
	}
}

// ApplyImpulse adds field(position) directly to each live particle's velocity.
func (s *ParticleSystem) ApplyImpulse(field func(pos r2.Vec) r2.Vec) {
	for i := range s.particles {
		p := &s.particles[i]
		p.Velocity = r2.Add(p.Velocity, field(p.Position))
	}
}
