package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Physics.Gravity != 50 {
		t.Errorf("gravity = %v, want 50", cfg.Physics.Gravity)
	}
	if cfg.Restitution.Kind != RestitutionFixed || cfg.Restitution.Coeff != 1.5 {
		t.Errorf("restitution = %+v, want fixed 1.5", cfg.Restitution)
	}
	if cfg.Particle.Lifespan != 11 || cfg.Particle.Size != 7 {
		t.Errorf("particle = %+v, want lifespan 11 size 7", cfg.Particle)
	}
	if cfg.Physics.FadeWindow != 5 || cfg.Physics.ShrinkRate != 0.4 {
		t.Errorf("physics = %+v, want fade 5 shrink 0.4", cfg.Physics)
	}
	if got := cfg.Particle.Color; got != (Color{R: 255, G: 0, B: 255, A: 255}) {
		t.Errorf("spawn color = %+v, want magenta", got)
	}

	radial, ok := cfg.Field("lightspeed")
	if !ok {
		t.Fatal("expected lightspeed field")
	}
	if radial.Scale != 20 || radial.Target != TargetVelocity || !radial.FollowCenter {
		t.Errorf("lightspeed = %+v", radial)
	}
	if cfg.Derived.ScreenW != 800 || cfg.Derived.ScreenH != 600 {
		t.Errorf("derived screen = %vx%v", cfg.Derived.ScreenW, cfg.Derived.ScreenH)
	}
}

func TestLoadScatterPreset(t *testing.T) {
	cfg, err := Load("", "scatter")
	if err != nil {
		t.Fatalf("Load scatter: %v", err)
	}

	if cfg.Preset != "scatter" {
		t.Errorf("preset = %q, want scatter", cfg.Preset)
	}
	if cfg.Physics.Gravity != 60 {
		t.Errorf("gravity = %v, want 60", cfg.Physics.Gravity)
	}
	if cfg.Restitution.Kind != RestitutionRandomized {
		t.Errorf("restitution kind = %q, want randomized", cfg.Restitution.Kind)
	}
	if cfg.Spawn.Burst.Anchor != (Vec2{X: 400, Y: 300}) {
		t.Errorf("burst anchor = %+v", cfg.Spawn.Burst.Anchor)
	}
	radial, _ := cfg.Field("lightspeed")
	if radial.Scale != 50 {
		t.Errorf("radial scale = %v, want 50", radial.Scale)
	}

	// Untouched sections keep their defaults
	if cfg.Physics.FadeWindow != 5 {
		t.Errorf("fade window = %v, want default 5", cfg.Physics.FadeWindow)
	}
}

func TestLoadUserOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	data := "preset: scatter\nphysics:\n  gravity: 12.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.Gravity != 12.5 {
		t.Errorf("gravity = %v, want user override 12.5", cfg.Physics.Gravity)
	}
	if cfg.Restitution.Kind != RestitutionRandomized {
		t.Errorf("preset named in file was not applied: kind = %q", cfg.Restitution.Kind)
	}
}

func TestLoadUnknownPreset(t *testing.T) {
	if _, err := Load("", "does-not-exist"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero lifespan", func(c *Config) { c.Particle.Lifespan = 0 }, "particle.lifespan"},
		{"zero fade window", func(c *Config) { c.Physics.FadeWindow = 0 }, "fade_window"},
		{"negative shrink", func(c *Config) { c.Physics.ShrinkRate = -1 }, "shrink_rate"},
		{"unknown restitution", func(c *Config) { c.Restitution.Kind = "sticky" }, "restitution.kind"},
		{"inverted random range", func(c *Config) {
			c.Restitution.Kind = RestitutionRandomized
			c.Restitution.Min, c.Restitution.Max = 1, -1
		}, "exceeds"},
		{"duplicate field", func(c *Config) { c.Fields = append(c.Fields, c.Fields[0]) }, "duplicate"},
		{"radial without scale", func(c *Config) { c.Fields[1].Scale = 0 }, "scale"},
		{"bad target", func(c *Config) { c.Fields[0].Target = "sideways" }, "target"},
		{"duty on unknown field", func(c *Config) { c.Headless.Duty[0].Field = "nope" }, "duty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("", "")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("", "scatter")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	// Reloading a written snapshot reproduces the run configuration
	again, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if again.Physics.Gravity != cfg.Physics.Gravity || again.Restitution != cfg.Restitution {
		t.Errorf("snapshot mismatch: %+v vs %+v", again.Restitution, cfg.Restitution)
	}
}

func TestPresets(t *testing.T) {
	names := Presets()
	if len(names) != 1 || names[0] != "scatter" {
		t.Errorf("Presets() = %v, want [scatter]", names)
	}
}
