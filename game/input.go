package game

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/systems"
)

// handleInput processes toggles and window events.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.SetAudio(!g.audioOn)
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	for _, key := range g.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			g.overlays.HandleKeyPress(key)
		}
	}
}

// handleResize keeps the collision bounds equal to the window.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.bounds = systems.Bounds{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
	}
}

// gatherIntent samples held keys and the mouse into this frame's input.
func (g *Game) gatherIntent() systems.Intent {
	var in systems.Intent

	if rl.IsKeyDown(rl.KeyLeft) {
		in.Wind.X--
	}
	if rl.IsKeyDown(rl.KeyRight) {
		in.Wind.X++
	}
	if rl.IsKeyDown(rl.KeyUp) {
		in.Wind.Y--
	}
	if rl.IsKeyDown(rl.KeyDown) {
		in.Wind.Y++
	}
	if rl.IsKeyDown(rl.KeyP) {
		in.Burst = 1
	}

	// Clicks on the tuning panel drive its sliders, not spawns
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !g.overTuningPanel() {
		m := rl.GetMousePosition()
		in.Pointer = &r2.Vec{X: float64(m.X), Y: float64(m.Y)}
	}

	in.Fields = make(map[string]bool, len(g.fieldKeys))
	for name, key := range g.fieldKeys {
		in.Fields[name] = rl.IsKeyDown(key)
	}
	return in
}

// keyCode maps a single letter or digit to its raylib key.
func keyCode(name string) (int32, bool) {
	if len(name) != 1 {
		return 0, false
	}
	c := strings.ToUpper(name)[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return rl.KeyA + int32(c-'A'), true
	case c >= '0' && c <= '9':
		return rl.KeyZero + int32(c-'0'), true
	}
	return 0, false
}
