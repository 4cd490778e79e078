package game

import (
	"os"
	"path/filepath"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gust/config"
	"github.com/pthm-cable/gust/telemetry"
)

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	opts.Headless = true
	g, err := newGame(cfg, opts)
	if err != nil {
		t.Fatalf("newGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestHeadless_FlushesWindows(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		Seed:           1,
		StatsWindowSec: 1,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	for i := 0; i < 120; i++ {
		g.UpdateHeadless()
	}

	if g.StatsWindow() != 1 {
		t.Errorf("stats window = %v, want 1", g.StatsWindow())
	}
	if g.Tick() != 120 {
		t.Fatalf("tick = %d, want 120", g.Tick())
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	// Bursts every 0.1s: 10 per simulated second
	if windows[0].Spawned != 10 {
		t.Errorf("first window spawned %d, want 10", windows[0].Spawned)
	}
	if windows[0].Toggles != 1 || windows[1].Toggles != 0 {
		t.Errorf("toggles = %d, %d; want the vortex switched on once", windows[0].Toggles, windows[1].Toggles)
	}
	if windows[1].ActiveFields != 1 {
		t.Errorf("vortex should still be held at 2s, got %d active", windows[1].ActiveFields)
	}
	if g.Scene().Particles.Count() != 20 {
		t.Errorf("expected 20 live particles, got %d", g.Scene().Particles.Count())
	}
}

func TestHeadless_StepsPerUpdate(t *testing.T) {
	g := newHeadless(t, Options{Seed: 1, StepsPerUpdate: 4})
	g.UpdateHeadless()
	if g.Tick() != 4 {
		t.Errorf("tick = %d, want 4", g.Tick())
	}
}

func TestHeadless_SameSeedSameSwarm(t *testing.T) {
	a := newHeadless(t, Options{Seed: 7})
	b := newHeadless(t, Options{Seed: 7})
	for i := 0; i < 90; i++ {
		a.UpdateHeadless()
		b.UpdateHeadless()
	}

	pa, pb := a.Scene().Particles.Particles(), b.Scene().Particles.Particles()
	if len(pa) != len(pb) {
		t.Fatalf("counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestHeadless_AudioModeUsesFakeSample(t *testing.T) {
	g := newHeadless(t, Options{Seed: 1})
	g.SetAudio(true)
	if !g.AudioOn() {
		t.Fatal("audio mode should be on")
	}
	got := g.audioSamples()
	if len(got) != 1 || got[0] != 0.5 {
		t.Errorf("expected fake sample 0.5, got %v", got)
	}
	g.SetAudio(false)
	if g.audioSamples() != nil {
		t.Error("samples should be nil with audio off")
	}
}

func TestHeadless_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{Seed: 1, StatsWindowSec: 0.5, OutputDir: dir})
	for i := 0; i < 60; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		want int32
		ok   bool
	}{
		{"V", rl.KeyV, true},
		{"l", rl.KeyL, true},
		{"3", rl.KeyThree, true},
		{"", 0, false},
		{"F1", 0, false},
		{"?", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyCode(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("keyCode(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}
