package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/components"
	"github.com/pthm-cable/gust/config"
)

func defaultFieldDefs() []config.FieldConfig {
	return []config.FieldConfig{
		{
			Name: "vortex", Kind: config.FieldVortex, Center: config.Vec2{X: 400, Y: 300},
			Strength: 0.2, Target: config.TargetWind, Key: "V",
		},
		{
			Name: "lightspeed", Kind: config.FieldRadial, FollowCenter: true,
			Strength: 0.5, Scale: 20, Target: config.TargetVelocity, Key: "L",
		},
	}
}

func newSources(t *testing.T) *FieldSources {
	t.Helper()
	f, err := NewFieldSources(defaultFieldDefs())
	if err != nil {
		t.Fatalf("NewFieldSources: %v", err)
	}
	return f
}

func TestFieldSources_RegistersInactive(t *testing.T) {
	f := newSources(t)

	if f.Count() != 2 {
		t.Fatalf("expected 2 emitters, got %d", f.Count())
	}
	for _, tr := range f.Triggers() {
		if tr.Active {
			t.Errorf("emitter %q should start inactive", tr.Name)
		}
	}
	if got := f.Triggers(); got[0].Name != "lightspeed" || got[1].Name != "vortex" || got[1].Key != "V" {
		t.Errorf("unexpected triggers: %+v", got)
	}
}

func TestFieldSources_RejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  config.FieldConfig
	}{
		{"duplicate", config.FieldConfig{Name: "vortex", Kind: config.FieldVortex, Target: config.TargetWind}},
		{"unknown kind", config.FieldConfig{Name: "x", Kind: "sink", Target: config.TargetWind}},
		{"unknown target", config.FieldConfig{Name: "x", Kind: config.FieldVortex, Target: "position"}},
		{"zero radial scale", config.FieldConfig{Name: "x", Kind: config.FieldRadial, Target: config.TargetWind}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSources(t)
			if err := f.Add(tt.def); err == nil {
				t.Error("expected an error")
			}
			if f.Count() != 2 {
				t.Errorf("registry changed on error: %d emitters", f.Count())
			}
		})
	}
}

func TestFieldSources_SetActiveAndRemove(t *testing.T) {
	f := newSources(t)

	if f.SetActive("missing", true) {
		t.Error("SetActive on an unknown name should report false")
	}
	if !f.SetActive("vortex", true) || !f.Active("vortex") {
		t.Fatal("vortex should be active")
	}
	if f.Active("lightspeed") {
		t.Error("lightspeed should still be inactive")
	}

	if !f.Remove("vortex") {
		t.Fatal("Remove should find vortex")
	}
	if f.Remove("vortex") {
		t.Error("second Remove should report false")
	}
	if f.Count() != 1 || f.Active("vortex") {
		t.Errorf("vortex should be gone, count %d", f.Count())
	}
}

func TestFieldSources_ComposeInactiveIsZero(t *testing.T) {
	f := newSources(t)
	particles := []Particle{{Position: r2.Vec{X: 410, Y: 300}}}
	if got := f.Compose(screen, particles); got != (r2.Vec{}) {
		t.Errorf("expected zero wind with nothing held, got %v", got)
	}
}

func TestFieldSources_ComposeSumsOverParticles(t *testing.T) {
	f := newSources(t)
	f.SetActive("vortex", true)
	f.SetActive("lightspeed", true) // velocity target, must not reach the wind

	particles := []Particle{
		{Position: r2.Vec{X: 410, Y: 300}},
		{Position: r2.Vec{X: 400, Y: 310}},
	}
	got := f.Compose(screen, particles)

	// (0, 0.2) + (-0.2, 0)
	if !near(got.X, -0.2, 1e-12) || !near(got.Y, 0.2, 1e-12) {
		t.Errorf("expected (-0.2, 0.2), got %v", got)
	}
}

func TestFieldSources_ImpulseFollowsCenter(t *testing.T) {
	f := newSources(t)
	f.SetActive("lightspeed", true)
	f.SetActive("vortex", true) // wind target, must not touch velocities

	s := newSystem()
	s.Add(r2.Vec{X: 520, Y: 200}, r2.Vec{})

	// Centre of a 1000x400 window is (500, 200)
	f.Impulse(Bounds{Width: 1000, Height: 400}, s)

	v := s.Particles()[0].Velocity
	if !near(v.X, -0.5, 1e-12) || !near(v.Y, 0, 1e-12) {
		t.Errorf("expected (-0.5, 0), got %v", v)
	}
}

func TestFieldSources_SampleIgnoresTrigger(t *testing.T) {
	f := newSources(t)
	got := f.Sample(screen, r2.Vec{X: 410, Y: 300}, components.TargetWind)
	if !near(got.Y, 0.2, 1e-12) {
		t.Errorf("expected vortex sample (0, 0.2), got %v", got)
	}
}

func TestFieldSources_SetStrength(t *testing.T) {
	f := newSources(t)
	if !f.SetStrength("vortex", 1.5) {
		t.Fatal("SetStrength should find vortex")
	}
	_, field, ok := f.Lookup("vortex")
	if !ok || field.Strength != 1.5 || field.Kind != components.KindVortex {
		t.Errorf("unexpected field after retune: %+v", field)
	}
}
