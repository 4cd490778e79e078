package systems

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

var screen = Bounds{Width: 800, Height: 600}

func newParticle(pos, vel r2.Vec) Particle {
	tmpl := DefaultTemplate()
	return Particle{Position: pos, Velocity: vel, Lifespan: tmpl.Lifespan, Size: tmpl.Size}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ---------- Single-step scenarios ----------

func TestParticleUpdate_FirstSecondFromOrigin(t *testing.T) {
	ph := DefaultPhysics()
	p := newParticle(r2.Vec{}, r2.Vec{})

	hits := p.Update(1, screen, r2.Vec{}, &ph)

	if !near(p.Velocity.X, 0, 1e-12) || !near(p.Velocity.Y, 50, 1e-12) {
		t.Errorf("expected velocity (0, 50), got (%v, %v)", p.Velocity.X, p.Velocity.Y)
	}
	if p.Position.X != 0 || !near(p.Position.Y, 50, 1e-12) {
		t.Errorf("expected position (0, 50), got (%v, %v)", p.Position.X, p.Position.Y)
	}
	if p.Tag != EdgeLeft || !hits.Has(EdgeLeft) {
		t.Errorf("expected left edge hit, got tag %v", p.Tag)
	}
	if c := p.Color(&ph, DefaultTemplate().Color); c != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("expected opaque blue, got %+v", c)
	}
	if !near(p.Lifespan, 10, 1e-12) {
		t.Errorf("expected lifespan 10, got %v", p.Lifespan)
	}
	if !near(p.Size, 6.6, 1e-12) {
		t.Errorf("expected size 6.6, got %v", p.Size)
	}
	if a := p.Alpha(&ph); a != 255 {
		t.Errorf("expected alpha 255, got %d", a)
	}
}

func TestParticleUpdate_WindThenGravityThenMove(t *testing.T) {
	ph := DefaultPhysics()
	p := newParticle(r2.Vec{X: 400, Y: 300}, r2.Vec{X: 1, Y: 2})

	p.Update(0.5, screen, r2.Vec{X: 10, Y: -4}, &ph)

	// v = (1,2) + (10,-4)*0.5 + (0,50)*0.5 = (6, 25)
	if !near(p.Velocity.X, 6, 1e-12) || !near(p.Velocity.Y, 25, 1e-12) {
		t.Errorf("expected velocity (6, 25), got (%v, %v)", p.Velocity.X, p.Velocity.Y)
	}
	if !near(p.Position.X, 403, 1e-12) || !near(p.Position.Y, 312.5, 1e-12) {
		t.Errorf("expected position (403, 312.5), got (%v, %v)", p.Position.X, p.Position.Y)
	}
	if p.Tag != EdgeNone {
		t.Errorf("expected no collision, got %v", p.Tag)
	}
}

func TestParticleUpdate_CornerPrecedence(t *testing.T) {
	ph := DefaultPhysics()
	p := newParticle(r2.Vec{X: 795, Y: 595}, r2.Vec{})

	hits := p.Update(0.001, screen, r2.Vec{}, &ph)

	if !hits.Has(EdgeRight) || !hits.Has(EdgeBottom) {
		t.Fatalf("expected right and bottom to fire, got %b", hits)
	}
	if p.Tag != EdgeBottom {
		t.Errorf("expected the later bottom check to own the tag, got %v", p.Tag)
	}
	if p.Position.X != 793 || p.Position.Y != 593 {
		t.Errorf("expected clamp to (793, 593), got (%v, %v)", p.Position.X, p.Position.Y)
	}
}

func TestParticleUpdate_TopLeftCornerPrecedence(t *testing.T) {
	ph := DefaultPhysics()
	p := newParticle(r2.Vec{X: 1, Y: 1}, r2.Vec{X: -100, Y: -200})

	p.Update(0.1, screen, r2.Vec{}, &ph)

	if p.Tag != EdgeTop {
		t.Errorf("expected top to override left, got %v", p.Tag)
	}
	if p.Velocity.X <= 0 || p.Velocity.Y <= 0 {
		t.Errorf("expected both axes reflected, got (%v, %v)", p.Velocity.X, p.Velocity.Y)
	}
}

func TestParticleUpdate_BounceCoefficient(t *testing.T) {
	ph := DefaultPhysics()
	ph.Gravity = 0
	p := newParticle(r2.Vec{X: 10, Y: 300}, r2.Vec{X: -200, Y: 0})

	p.Update(0.1, screen, r2.Vec{}, &ph)

	if !near(p.Velocity.X, 300, 1e-9) {
		t.Errorf("expected vx = 300 after 1.5x bounce, got %v", p.Velocity.X)
	}
}

// ---------- Degenerate input ----------

func TestParticleUpdate_ZeroDTIsNoOp(t *testing.T) {
	ph := DefaultPhysics()
	p := newParticle(r2.Vec{X: 0, Y: 0}, r2.Vec{X: -3, Y: 4})
	before := p

	hits := p.Update(0, screen, r2.Vec{X: 100, Y: 100}, &ph)

	if hits != 0 {
		t.Errorf("expected no hits, got %b", hits)
	}
	if p != before {
		t.Errorf("expected particle unchanged, got %+v", p)
	}
}

func TestParticleUpdate_DeadIsNeverMutated(t *testing.T) {
	ph := DefaultPhysics()
	p := newParticle(r2.Vec{X: 400, Y: 300}, r2.Vec{X: 1, Y: 1})
	p.Lifespan = -0.25
	before := p

	p.Update(1, screen, r2.Vec{X: 5}, &ph)

	if p != before {
		t.Errorf("dead particle changed: %+v", p)
	}
}

func TestParticleUpdate_NonPositiveBoundsDisableCollision(t *testing.T) {
	tests := []struct {
		name       string
		bounds     Bounds
		wantX      bool
		wantY      bool
		start, vel r2.Vec
	}{
		{"zero width", Bounds{Width: 0, Height: 600}, false, true, r2.Vec{X: -5, Y: -5}, r2.Vec{}},
		{"zero height", Bounds{Width: 800, Height: 0}, true, false, r2.Vec{X: -5, Y: -5}, r2.Vec{}},
		{"negative both", Bounds{Width: -1, Height: -1}, false, false, r2.Vec{X: -5, Y: -5}, r2.Vec{}},
	}

	ph := DefaultPhysics()
	ph.Gravity = 0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParticle(tt.start, tt.vel)
			hits := p.Update(0.1, tt.bounds, r2.Vec{}, &ph)
			if got := hits.Has(EdgeLeft); got != tt.wantX {
				t.Errorf("left fired = %v, want %v", got, tt.wantX)
			}
			if got := hits.Has(EdgeTop); got != tt.wantY {
				t.Errorf("top fired = %v, want %v", got, tt.wantY)
			}
		})
	}
}

// ---------- Lifecycle ----------

func TestParticleUpdate_LifespanDecrements(t *testing.T) {
	ph := DefaultPhysics()
	p := newParticle(r2.Vec{X: 400, Y: 300}, r2.Vec{})

	for i := 0; i < 10; i++ {
		before := p.Lifespan
		p.Update(0.1, screen, r2.Vec{}, &ph)
		if !near(before-p.Lifespan, 0.1, 1e-12) {
			t.Fatalf("step %d: lifespan fell by %v, want 0.1", i, before-p.Lifespan)
		}
	}
}

func TestParticleUpdate_SizeMonotoneAndClamped(t *testing.T) {
	ph := DefaultPhysics()
	ph.Gravity = 0
	p := newParticle(r2.Vec{X: 400, Y: 300}, r2.Vec{})

	prev := p.Size
	for i := 0; i < 40; i++ {
		p.Update(0.25, screen, r2.Vec{}, &ph)
		if p.Size > prev {
			t.Fatalf("step %d: size grew from %v to %v", i, prev, p.Size)
		}
		if p.Size < 0 {
			t.Fatalf("step %d: size went negative: %v", i, p.Size)
		}
		prev = p.Size
	}
}

func TestParticleUpdate_SizeReachesZeroBeforeDeath(t *testing.T) {
	ph := DefaultPhysics()
	ph.ShrinkRate = 2
	p := newParticle(r2.Vec{X: 400, Y: 300}, r2.Vec{})

	p.Update(5, Bounds{}, r2.Vec{}, &ph)

	if p.Size != 0 {
		t.Errorf("expected size clamped to 0, got %v", p.Size)
	}
	if p.IsDead() {
		t.Error("particle should still be alive with 6s left")
	}
}

func TestParticle_IsDead(t *testing.T) {
	tests := []struct {
		lifespan float64
		want     bool
	}{
		{11, false},
		{0.0001, false},
		{0, true},
		{-2, true},
	}
	for _, tt := range tests {
		p := Particle{Lifespan: tt.lifespan}
		if got := p.IsDead(); got != tt.want {
			t.Errorf("IsDead() with lifespan %v = %v, want %v", tt.lifespan, got, tt.want)
		}
	}
}

func TestParticle_Alpha(t *testing.T) {
	tests := []struct {
		name     string
		lifespan float64
		scale    float64
		want     uint8
	}{
		{"opaque above window", 11, 255, 255},
		{"edge of window", 5, 255, 255},
		{"half faded", 2.5, 255, 127},
		{"invisible at zero", 0, 255, 0},
		{"invisible below zero", -1, 255, 0},
		{"overdriven scale clamps", 5, 355, 255},
		{"overdriven scale half", 2.5, 355, 177},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ph := DefaultPhysics()
			ph.AlphaScale = tt.scale
			p := Particle{Lifespan: tt.lifespan}
			if got := p.Alpha(&ph); got != tt.want {
				t.Errorf("Alpha() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParticle_ColorByTag(t *testing.T) {
	ph := DefaultPhysics()
	spawn := color.RGBA{R: 255, G: 255, A: 255}

	tests := []struct {
		tag  Edge
		want color.RGBA
	}{
		{EdgeNone, spawn},
		{EdgeLeft, ColorLeft},
		{EdgeRight, ColorRight},
		{EdgeTop, ColorTop},
		{EdgeBottom, ColorBottom},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			p := Particle{Tag: tt.tag, Lifespan: 2.5}
			got := p.Color(&ph, spawn)
			if got.R != tt.want.R || got.G != tt.want.G || got.B != tt.want.B {
				t.Errorf("Color() rgb = %+v, want %+v", got, tt.want)
			}
			if got.A != 127 {
				t.Errorf("Color() alpha = %d, want 127", got.A)
			}
		})
	}
}

// ---------- Containment ----------

func TestParticleUpdate_StaysInsideBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ph := DefaultPhysics()

	for i := 0; i < 50; i++ {
		p := newParticle(
			r2.Vec{X: rng.Float64() * 800, Y: rng.Float64() * 600},
			r2.Vec{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200},
		)
		wind := r2.Vec{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10}
		for step := 0; step < 300 && !p.IsDead(); step++ {
			p.Update(1.0/60, screen, wind, &ph)
			if p.Position.X < 0 || p.Position.X > screen.Width-p.Size {
				t.Fatalf("particle %d step %d: x=%v outside [0, %v]", i, step, p.Position.X, screen.Width-p.Size)
			}
			if p.Position.Y < 0 || p.Position.Y > screen.Height-p.Size {
				t.Fatalf("particle %d step %d: y=%v outside [0, %v]", i, step, p.Position.Y, screen.Height-p.Size)
			}
		}
	}
}
