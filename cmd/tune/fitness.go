package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gust/config"
	"github.com/pthm-cable/gust/game"
	"github.com/pthm-cable/gust/telemetry"
)

// Targets describes the swarm the tuner steers towards.
type Targets struct {
	Visible    float64 // Particles with alpha > 0 at window end
	SpeedP50   float64 // Median speed (units/s)
	HitsPerSec float64 // Boundary collisions per simulated second
}

// FitnessEvaluator runs headless simulations and scores them against targets.
type FitnessEvaluator struct {
	params      *ParamVector
	targets     Targets
	maxTicks    int32
	seeds       []int64
	configPath  string
	preset      string
	statsWindow float64

	mu        sync.Mutex
	lastScore score
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, targets Targets, maxTicks int32, seeds []int64, configPath, preset string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		targets:     targets,
		maxTicks:    maxTicks,
		seeds:       seeds,
		configPath:  configPath,
		preset:      preset,
		statsWindow: 2.0,
	}
}

// Windows skipped while the swarm builds up.
const warmupWindows = 2

// score splits a fitness value into its parts.
type score struct {
	Visible   float64
	Speed     float64
	Hits      float64
	Stability float64
}

func (s score) total() float64 {
	return s.Visible + s.Speed + s.Hits + s.Stability
}

// LastScore returns the averaged score parts from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel and their scores are averaged.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]score, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = score{Stability: math.Inf(1)}
				return
			}
			results[idx] = fe.computeScore(windows)
		}(i, seed)
	}
	wg.Wait()

	var avg score
	for _, r := range results {
		avg.Visible += r.Visible
		avg.Speed += r.Speed
		avg.Hits += r.Hits
		avg.Stability += r.Stability
	}
	n := float64(len(results))
	avg = score{avg.Visible / n, avg.Speed / n, avg.Hits / n, avg.Stability / n}

	fe.mu.Lock()
	fe.lastScore = avg
	fe.mu.Unlock()

	return avg.total()
}

// runSimulation executes one headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.WindowStats, error) {
	cfg, err := fe.config(x)
	if err != nil {
		return nil, err
	}

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows, nil
}

// config loads a fresh base config and applies x to it.
func (fe *FitnessEvaluator) config(x []float64) (*config.Config, error) {
	cfg, err := config.Load(fe.configPath, fe.preset)
	if err != nil {
		return nil, err
	}
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tuned config: %w", err)
	}
	return cfg, nil
}

// computeScore measures how far the post-warmup windows sit from the
// targets. Each term is a squared log ratio so over- and undershoot by the
// same factor cost the same.
func (fe *FitnessEvaluator) computeScore(windows []telemetry.WindowStats) score {
	if len(windows) <= warmupWindows {
		return score{Stability: math.Inf(1)}
	}
	valid := windows[warmupWindows:]

	visible := make([]float64, len(valid))
	speed := make([]float64, len(valid))
	hits := make([]float64, len(valid))
	for i, w := range valid {
		visible[i] = float64(w.Visible)
		speed[i] = w.SpeedP50
		hits[i] = float64(w.Hits()) / fe.statsWindow
	}

	s := score{
		Visible: logErr(stat.Mean(visible, nil), fe.targets.Visible),
		Speed:   logErr(stat.Mean(speed, nil), fe.targets.SpeedP50),
		Hits:    logErr(stat.Mean(hits, nil), fe.targets.HitsPerSec),
	}
	if len(visible) >= 2 {
		c := cv(visible)
		s.Stability = c * c
	}
	return s
}

// logErr returns log(got/want)^2, with both sides offset by one so empty
// windows stay finite.
func logErr(got, want float64) float64 {
	d := math.Log((got + 1) / (want + 1))
	return d * d
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
