package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/config"
)

// Intent is the input gathered for one frame.
type Intent struct {
	Pointer *r2.Vec         // Spawn one particle here
	Wind    r2.Vec          // Held wind direction, each axis in {-1, 0, 1}
	Burst   int             // Randomized spawns to add
	Fields  map[string]bool // Emitter name -> held
	Audio   []float64       // Magnitudes for the audio hook, nil when off
}

// Scene wires the particle system to its per-frame drivers.
type Scene struct {
	Particles *ParticleSystem
	Wind      *AmbientWind
	Fields    *FieldSources
	Burst     BurstSpawn

	rng *rand.Rand
}

// NewScene builds a scene from config. rng drives bursts and the
// randomized restitution policy.
func NewScene(cfg *config.Config, rng *rand.Rand) (*Scene, error) {
	fields, err := NewFieldSources(cfg.Fields)
	if err != nil {
		return nil, err
	}
	return &Scene{
		Particles: NewParticleSystem(NewPhysics(cfg, rng), NewTemplate(cfg)),
		Wind:      NewAmbientWind(cfg.Wind),
		Fields:    fields,
		Burst:     NewBurstSpawn(cfg.Spawn.Burst),
		rng:       rng,
	}, nil
}

// Step advances the scene by one frame. Spawns and wind changes requested
// by the intent take effect before the particles are integrated.
func (s *Scene) Step(dt float64, b Bounds, in Intent) StepReport {
	spawned := 0
	if in.Pointer != nil {
		PointerSpawn(s.Particles, *in.Pointer)
		spawned++
	}

	s.Wind.Push(in.Wind)

	if in.Burst > 0 {
		s.Burst.Spawn(s.Particles, s.rng, in.Burst)
		spawned += in.Burst
	}

	for name, held := range in.Fields {
		s.Fields.SetActive(name, held)
	}
	s.Wind.Add(s.Fields.Compose(b, s.Particles.Particles()))
	s.Fields.Impulse(b, s.Particles)

	s.Wind.Decay()
	s.Wind.Advance(dt)

	report := s.Particles.Update(dt, b, s.Wind.Vector())
	report.Spawned = spawned

	s.Particles.ApplyAudio(in.Audio)

	return report
}
