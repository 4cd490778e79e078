package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/config"
)

// PointerSpawn adds a motionless particle at pos.
func PointerSpawn(s *ParticleSystem, pos r2.Vec) {
	s.Add(pos, r2.Vec{})
}

// BurstSpawn adds particles at a randomized offset from a fixed anchor with
// a randomized launch velocity.
type BurstSpawn struct {
	Anchor      r2.Vec
	OffsetMin   r2.Vec
	OffsetMax   r2.Vec
	VelocityMin r2.Vec
	VelocityMax r2.Vec
}

// NewBurstSpawn builds a burst policy from config.
func NewBurstSpawn(cfg config.BurstConfig) BurstSpawn {
	return BurstSpawn{
		Anchor:      vec(cfg.Anchor),
		OffsetMin:   vec(cfg.OffsetMin),
		OffsetMax:   vec(cfg.OffsetMax),
		VelocityMin: vec(cfg.VelocityMin),
		VelocityMax: vec(cfg.VelocityMax),
	}
}

// Sample draws one position and velocity. Each component is uniform in
// [min, max).
func (b BurstSpawn) Sample(rng *rand.Rand) (pos, vel r2.Vec) {
	pos = r2.Add(b.Anchor, uniform(rng, b.OffsetMin, b.OffsetMax))
	vel = uniform(rng, b.VelocityMin, b.VelocityMax)
	return pos, vel
}

// Spawn adds n particles to s.
func (b BurstSpawn) Spawn(s *ParticleSystem, rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		pos, vel := b.Sample(rng)
		s.Add(pos, vel)
	}
}

func uniform(rng *rand.Rand, lo, hi r2.Vec) r2.Vec {
	return r2.Vec{
		X: lo.X + rng.Float64()*(hi.X-lo.X),
		Y: lo.Y + rng.Float64()*(hi.Y-lo.Y),
	}
}

func vec(v config.Vec2) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}
