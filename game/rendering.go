package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gust/ui"
)

const (
	tuningWidth = 260
	controls    = "Arrows: wind | Click: spawn | P: burst | M: audio | Space: pause | H G F3 Tab F1: overlays | F11: fullscreen"
)

// Draw renders the scene and the enabled overlays.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.overlays.IsEnabled(ui.OverlayFields) {
		g.fieldOverlay.Draw(g.bounds, g.scene.Fields, g.scene.Wind.Vector())
	}

	g.scene.Particles.Render(g.particleRenderer)

	g.drawUI()

	rl.EndDrawing()
}

func (g *Game) drawUI() {
	data := g.hudData()
	g.hud.Draw(data)

	panelY := int32(80)
	if g.overlays.IsEnabled(ui.OverlayStats) {
		g.hud.DrawStats(10, panelY, 240, data)
		panelY += 200
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(10, panelY)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controlsPanel.SetPosition(int32(g.bounds.Width)-230, 10)
		g.controlsPanel.Draw(g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayTuning) {
		g.tuningPanel.Draw(int32(g.bounds.Width)-tuningWidth-10, 10, tuningWidth, g.scene.Particles.Physics(), g.scene.Fields)
	}

	g.hud.DrawControls(int32(g.bounds.Height), controls)
}

func (g *Game) hudData() ui.HUDData {
	wind := g.scene.Wind.Vector()
	visible := 0
	ph := g.scene.Particles.Physics()
	for _, p := range g.scene.Particles.Particles() {
		if p.Alpha(ph) > 0 {
			visible++
		}
	}
	return ui.HUDData{
		Title:     g.cfg.Screen.Title,
		Live:      g.scene.Particles.Count(),
		Visible:   visible,
		Tick:      g.tick,
		SimTime:   g.collector.SimTime(),
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
		WindX:     wind.X,
		WindY:     wind.Y,
		Fields:    g.scene.Fields.Triggers(),
		AudioMode: g.audioOn,
		Playing:   g.player != nil && g.player.Playing(),
	}
}

// overTuningPanel reports whether the mouse is over the open tuning panel.
func (g *Game) overTuningPanel() bool {
	if g.overlays == nil || !g.overlays.IsEnabled(ui.OverlayTuning) {
		return false
	}
	fields := len(g.scene.Fields.Triggers()) + 1
	panel := rl.Rectangle{
		X:      float32(g.bounds.Width) - tuningWidth - 10,
		Y:      10,
		Width:  tuningWidth,
		Height: float32(g.tuningPanel.Height(fields)),
	}
	return rl.CheckCollisionPointRec(rl.GetMousePosition(), panel)
}
