package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gust/audio"
	"github.com/pthm-cable/gust/config"
	"github.com/pthm-cable/gust/game"
	"github.com/pthm-cable/gust/systems"
	"github.com/pthm-cable/gust/telemetry"
	"github.com/pthm-cable/gust/terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Named preset applied over the defaults (e.g. scatter)")
	headless := flag.Bool("headless", false, "Run without graphics using scripted input")
	term := flag.Bool("term", false, "Run in the terminal")
	audioMode := flag.Bool("audio", false, "Start in audio mode")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath, *preset); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if *term {
		// Terminal mode owns stdout, so log to stderr
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
		if err := runTerminal(cfg, rngSeed, *audioMode, int32(*maxTicks), *logStats); err != nil {
			slog.Error("terminal run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()
		g.SetAudio(*audioMode)

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"preset", cfg.Preset,
			"stats_window", g.StatsWindow(),
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick(), "particles", g.Scene().Particles.Count())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()
	g.SetAudio(*audioMode)

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runTerminal runs the scene in the terminal until the user quits.
func runTerminal(cfg *config.Config, seed int64, audioOn bool, maxTicks int32, logStats bool) error {
	scene, err := systems.NewScene(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	var tick int32
	opts := terminal.Options{
		FPS:      cfg.Screen.TargetFPS,
		MaxTicks: maxTicks,
		Audio:    audio.Constant(cfg.Audio.FakeSample),
		AudioOn:  audioOn,
		OnStep: func(r systems.StepReport, dt float64) {
			tick++
			collector.RecordStep(r, dt)
			if !collector.ShouldFlush() {
				return
			}
			active := 0
			for _, tr := range scene.Fields.Triggers() {
				if tr.Active {
					active++
				}
			}
			stats := collector.Flush(tick, telemetry.NewSample(
				scene.Particles.Particles(), scene.Particles.Physics(), scene.Wind.Vector(), active))
			if logStats {
				stats.LogStats()
			}
		},
	}
	world := systems.Bounds{Width: cfg.Derived.ScreenW, Height: cfg.Derived.ScreenH}
	if err := terminal.Run(ctx, scene, world, opts); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
