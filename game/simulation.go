package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gust/systems"
	"github.com/pthm-cable/gust/telemetry"
)

// Update handles input and advances the scene by the frame's wall-clock
// time. Only the first of several steps per update carries the input.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()
	in := g.gatherIntent()

	if g.paused {
		g.perfCollector.EndTick()
		return
	}

	dt := float64(rl.GetFrameTime())
	if maxDT := g.cfg.Physics.MaxDT; maxDT > 0 && dt > maxDT {
		dt = maxDT
	}

	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(dt, in)
		in = systems.Intent{Fields: in.Fields}
	}
	g.perfCollector.EndTick()
}

// UpdateHeadless advances the scene with scripted input and the fixed
// config step.
func (g *Game) UpdateHeadless() {
	dt := g.cfg.Physics.DT
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.perfCollector.StartTick()
		g.perfCollector.StartPhase(telemetry.PhaseInput)
		in := g.autopilot.Next(dt)
		g.step(dt, in)
		g.perfCollector.EndTick()
	}
}

// step runs one frame: audio sampling, the scene step and telemetry.
func (g *Game) step(dt float64, in systems.Intent) {
	g.perfCollector.StartPhase(telemetry.PhaseAudio)
	in.Audio = g.audioSamples()

	g.perfCollector.StartPhase(telemetry.PhaseScene)
	report := g.scene.Step(dt, g.bounds, in)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(report, dt)
	g.recordFieldToggles()
	g.flushTelemetry()
}

// recordFieldToggles counts and logs trigger changes since the last step.
func (g *Game) recordFieldToggles() {
	for _, tr := range g.scene.Fields.Triggers() {
		if g.fieldsOn[tr.Name] == tr.Active {
			continue
		}
		g.fieldsOn[tr.Name] = tr.Active
		g.collector.RecordFieldToggle()
		if g.logStats {
			slog.Info("field toggled", "field", tr.Name, "active", tr.Active, "tick", g.tick)
		}
	}
}

// activeFields counts the fields currently held.
func (g *Game) activeFields() int {
	n := 0
	for _, on := range g.fieldsOn {
		if on {
			n++
		}
	}
	return n
}
