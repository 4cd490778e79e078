package systems

import (
	"image/color"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

type recordingSink struct {
	pos    []r2.Vec
	sizes  []float64
	colors []color.RGBA
}

func (r *recordingSink) DrawParticle(pos r2.Vec, size float64, c color.RGBA) {
	r.pos = append(r.pos, pos)
	r.sizes = append(r.sizes, size)
	r.colors = append(r.colors, c)
}

func newSystem() *ParticleSystem {
	return NewParticleSystem(DefaultPhysics(), DefaultTemplate())
}

func TestParticleSystem_AddUsesTemplate(t *testing.T) {
	s := newSystem()
	s.Add(r2.Vec{X: 10, Y: 20}, r2.Vec{X: 1, Y: -1})

	if s.Count() != 1 {
		t.Fatalf("expected 1 particle, got %d", s.Count())
	}
	p := s.Particles()[0]
	if p.Lifespan != 11 || p.Size != 7 || p.Tag != EdgeNone {
		t.Errorf("unexpected spawn state: %+v", p)
	}
	if p.Position != (r2.Vec{X: 10, Y: 20}) || p.Velocity != (r2.Vec{X: 1, Y: -1}) {
		t.Errorf("unexpected kinematics: %+v", p)
	}
}

func TestParticleSystem_CullsExpiredInSameUpdate(t *testing.T) {
	s := newSystem()
	s.Add(r2.Vec{X: 400, Y: 100}, r2.Vec{})

	report := s.Update(11, Bounds{}, r2.Vec{})

	if s.Count() != 0 {
		t.Errorf("expected particle culled, %d left", s.Count())
	}
	if report.Culled != 1 || report.Updated != 1 {
		t.Errorf("expected 1 updated and 1 culled, got %+v", report)
	}
}

func TestParticleSystem_CullKeepsSpawnOrder(t *testing.T) {
	s := newSystem()
	for i := 0; i < 5; i++ {
		s.Add(r2.Vec{X: float64(100 + i*100), Y: 100}, r2.Vec{})
	}
	s.particles[1].Lifespan = 0.01
	s.particles[3].Lifespan = 0.01

	report := s.Update(0.05, screen, r2.Vec{})

	if report.Culled != 2 {
		t.Fatalf("expected 2 culled, got %d", report.Culled)
	}
	want := []float64{100, 300, 500}
	for i, p := range s.Particles() {
		if p.Position.X != want[i] {
			t.Errorf("survivor %d at x=%v, want %v", i, p.Position.X, want[i])
		}
	}
}

func TestParticleSystem_CullAfterWholeFrame(t *testing.T) {
	// A particle that dies mid-slice must not shift the others before they
	// are integrated: every survivor advances exactly once.
	s := newSystem()
	s.Add(r2.Vec{X: 100, Y: 100}, r2.Vec{})
	s.Add(r2.Vec{X: 200, Y: 100}, r2.Vec{})
	s.Add(r2.Vec{X: 300, Y: 100}, r2.Vec{})
	s.particles[0].Lifespan = 0.01

	s.Update(0.1, screen, r2.Vec{})

	for _, p := range s.Particles() {
		if !near(p.Lifespan, 10.9, 1e-12) {
			t.Errorf("survivor at x=%v has lifespan %v, want 10.9", p.Position.X, p.Lifespan)
		}
	}
}

func TestParticleSystem_NegativeDTIsZero(t *testing.T) {
	s := newSystem()
	s.Add(r2.Vec{X: 400, Y: 300}, r2.Vec{X: 5, Y: 5})
	before := s.Particles()[0]

	report := s.Update(-1, screen, r2.Vec{X: 10})

	if s.Particles()[0] != before {
		t.Errorf("particle changed on negative dt: %+v", s.Particles()[0])
	}
	if report.Culled != 0 {
		t.Errorf("expected nothing culled, got %d", report.Culled)
	}
}

func TestParticleSystem_ReportCountsHits(t *testing.T) {
	s := newSystem()
	s.Add(r2.Vec{X: 795, Y: 595}, r2.Vec{})
	s.Add(r2.Vec{X: 1, Y: 300}, r2.Vec{X: -100})

	report := s.Update(0.1, screen, r2.Vec{})

	if report.Hits[EdgeRight] != 1 || report.Hits[EdgeBottom] != 1 || report.Hits[EdgeLeft] != 1 {
		t.Errorf("unexpected hit counts: %v", report.Hits)
	}
	if report.Hits[EdgeTop] != 0 {
		t.Errorf("unexpected top hits: %d", report.Hits[EdgeTop])
	}
}

func TestParticleSystem_RenderInOrder(t *testing.T) {
	s := newSystem()
	s.Add(r2.Vec{X: 10, Y: 10}, r2.Vec{})
	s.Add(r2.Vec{X: 20, Y: 20}, r2.Vec{})
	s.particles[1].Tag = EdgeRight
	s.particles[1].Lifespan = 2.5

	var sink recordingSink
	s.Render(&sink)

	if len(sink.pos) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(sink.pos))
	}
	if sink.pos[0].X != 10 || sink.pos[1].X != 20 {
		t.Errorf("draws out of order: %v", sink.pos)
	}
	if sink.colors[0] != DefaultTemplate().Color {
		t.Errorf("untagged particle colour = %+v, want spawn colour", sink.colors[0])
	}
	if sink.colors[1] != (color.RGBA{R: 255, A: 127}) {
		t.Errorf("right-tagged colour = %+v", sink.colors[1])
	}
	if sink.sizes[0] != 7 {
		t.Errorf("expected size 7, got %v", sink.sizes[0])
	}
}

func TestParticleSystem_RenderEmpty(t *testing.T) {
	s := newSystem()
	calls := 0
	s.Render(SinkFunc(func(r2.Vec, float64, color.RGBA) { calls++ }))
	if calls != 0 {
		t.Errorf("expected no draws, got %d", calls)
	}
}

func TestParticleSystem_Clear(t *testing.T) {
	s := newSystem()
	s.Add(r2.Vec{X: 1, Y: 1}, r2.Vec{})
	s.Add(r2.Vec{X: 2, Y: 2}, r2.Vec{})
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("expected empty system, got %d", s.Count())
	}
	s.Add(r2.Vec{X: 3, Y: 3}, r2.Vec{})
	if s.Count() != 1 || s.Particles()[0].Position.X != 3 {
		t.Errorf("unexpected particles after clear: %+v", s.Particles())
	}
}

// ---------- Hooks ----------

func TestParticleSystem_ApplyAudio(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    []float64 // x positions after the hook
	}{
		{"empty is no-op", nil, []float64{100, 100, 100}},
		{"one per particle", []float64{0.5, 1, 0}, []float64{105, 110, 100}},
		{"cyclic reuse", []float64{0.5}, []float64{105, 105, 105}},
		{"magnitude only", []float64{-2, 2}, []float64{120, 120, 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSystem()
			for i := 0; i < 3; i++ {
				s.Add(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 10})
			}
			s.ApplyAudio(tt.samples)
			for i, p := range s.Particles() {
				if !near(p.Position.X, tt.want[i], 1e-12) {
					t.Errorf("particle %d x = %v, want %v", i, p.Position.X, tt.want[i])
				}
			}
		})
	}
}

func TestParticleSystem_ApplyImpulse(t *testing.T) {
	s := newSystem()
	s.Add(r2.Vec{X: 420, Y: 300}, r2.Vec{X: 1, Y: 1})
	s.Add(r2.Vec{X: 400, Y: 300}, r2.Vec{})

	center := r2.Vec{X: 400, Y: 300}
	s.ApplyImpulse(func(pos r2.Vec) r2.Vec {
		return RadialDeceleration(pos, center, 0.5, 20)
	})

	got := s.Particles()
	if !near(got[0].Velocity.X, 0.5, 1e-12) || !near(got[0].Velocity.Y, 1, 1e-12) {
		t.Errorf("expected velocity (0.5, 1), got %v", got[0].Velocity)
	}
	if got[1].Velocity != (r2.Vec{}) {
		t.Errorf("particle at centre should be unaffected, got %v", got[1].Velocity)
	}
}

func TestStepReport_Add(t *testing.T) {
	a := StepReport{Spawned: 1, Updated: 2, Culled: 1}
	a.Hits[EdgeLeft] = 3
	b := StepReport{Spawned: 2, Updated: 5}
	b.Hits[EdgeLeft] = 1
	b.Hits[EdgeTop] = 2

	a.Add(b)

	if a.Spawned != 3 || a.Updated != 7 || a.Culled != 1 {
		t.Errorf("unexpected totals: %+v", a)
	}
	if a.Hits[EdgeLeft] != 4 || a.Hits[EdgeTop] != 2 {
		t.Errorf("unexpected hits: %v", a.Hits)
	}
}
