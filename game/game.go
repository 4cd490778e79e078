// Package game wires the particle scene to raylib, audio and telemetry.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/gust/audio"
	"github.com/pthm-cable/gust/config"
	"github.com/pthm-cable/gust/renderer"
	"github.com/pthm-cable/gust/systems"
	"github.com/pthm-cable/gust/telemetry"
	"github.com/pthm-cable/gust/ui"
)

// Options configures game initialization.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int                          // Frames simulated per Update call
	StatsCallback  func(telemetry.WindowStats) // Called on every flushed window
	Config         *config.Config               // Overrides the global config when set
}

// Game holds the complete game state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	scene     *systems.Scene
	bounds    systems.Bounds
	autopilot *systems.Autopilot // Headless only
	fieldKeys map[string]int32   // Field name -> raylib key
	fieldsOn  map[string]bool    // Last observed trigger state

	// State
	tick           int32
	paused         bool
	headless       bool
	stepsPerUpdate int

	// Audio
	player  *audio.Player
	source  audio.Source
	audioOn bool
	samples []float64

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	// Rendering (nil when headless)
	particleRenderer *renderer.ParticleRenderer
	fieldOverlay     *renderer.FieldOverlay
	hud              *ui.HUD
	perfPanel        *ui.PerfPanel
	controlsPanel    *ui.ControlsPanel
	tuningPanel      *ui.TuningPanel
	overlays         *ui.OverlayRegistry
}

// NewGameWithOptions creates a game from opts.Config, or the global
// config when it is nil.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	return newGame(cfg, opts)
}

func newGame(cfg *config.Config, opts Options) (*Game, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	scene, err := systems.NewScene(cfg, rng)
	if err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		rng:              rng,
		rngSeed:          opts.Seed,
		scene:            scene,
		bounds:           systems.Bounds{Width: cfg.Derived.ScreenW, Height: cfg.Derived.ScreenH},
		fieldKeys:        make(map[string]int32),
		fieldsOn:         make(map[string]bool),
		headless:         opts.Headless,
		stepsPerUpdate:   steps,
		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	for _, f := range cfg.Fields {
		if key, ok := keyCode(f.Key); ok {
			g.fieldKeys[f.Name] = key
		} else if f.Key != "" {
			slog.Warn("unsupported field key", "field", f.Name, "key", f.Key)
		}
	}

	if opts.Headless {
		g.autopilot = systems.NewAutopilot(cfg.Headless)
	} else {
		g.initRendering()
	}

	g.initAudio()

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.Unload()
			return nil, err
		}
		g.outputManager = om
		slog.Info("writing telemetry", "dir", om.Dir())
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	return g, nil
}

// initRendering creates the raylib-side renderers and panels.
func (g *Game) initRendering() {
	g.particleRenderer = renderer.NewParticleRenderer()
	g.particleRenderer.MinRadius = 0.5
	g.fieldOverlay = renderer.NewFieldOverlay()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, 80)
	g.controlsPanel = ui.NewControlsPanel(10, 80, 220)
	g.tuningPanel = ui.NewTuningPanel(*g.scene.Particles.Physics(), g.scene.Fields)
	g.overlays = ui.NewOverlayRegistry()
}

// Scene returns the simulated scene.
func (g *Game) Scene() *systems.Scene {
	return g.scene
}

// Tick returns the number of simulated frames.
func (g *Game) Tick() int32 {
	return g.tick
}

// StatsWindow returns the telemetry window length in simulated seconds.
func (g *Game) StatsWindow() float64 {
	return g.collector.WindowDuration()
}

// Bounds returns the current collision bounds.
func (g *Game) Bounds() systems.Bounds {
	return g.bounds
}

// Unload releases audio and closes telemetry output.
func (g *Game) Unload() {
	if g.player != nil {
		if err := g.player.Close(); err != nil {
			slog.Error("failed to close audio", "error", err)
		}
		g.player = nil
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}
