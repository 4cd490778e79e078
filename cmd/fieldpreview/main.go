// Field preview tool - interactive visualization of one force field with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gust/config"
	"github.com/pthm-cable/gust/renderer"
	"github.com/pthm-cable/gust/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 540
	panelWidth   = windowWidth - previewSize - 30
)

var previewBounds = systems.Bounds{Width: previewSize, Height: previewSize}

func defaultField() config.FieldConfig {
	return config.FieldConfig{
		Name:     "preview",
		Kind:     config.FieldVortex,
		Center:   config.Vec2{X: previewSize / 2, Y: previewSize / 2},
		Strength: 0.2,
		Scale:    20,
		Target:   config.TargetWind,
		Key:      "V",
	}
}

// preview is a scene holding only the field being edited.
type preview struct {
	cfg   *config.Config
	scene *systems.Scene
	rng   *rand.Rand
	timer float64
}

func newPreview(def config.FieldConfig) (*preview, error) {
	cfg, err := config.Load("", "")
	if err != nil {
		return nil, err
	}
	cfg.Spawn.Burst.OffsetMax = config.Vec2{X: previewSize, Y: previewSize}
	p := &preview{cfg: cfg, rng: rand.New(rand.NewSource(1))}
	return p, p.rebuild(def)
}

// rebuild swaps in def, keeping the swarm but resetting the wind.
func (p *preview) rebuild(def config.FieldConfig) error {
	p.cfg.Fields = []config.FieldConfig{def}
	scene, err := systems.NewScene(p.cfg, p.rng)
	if err != nil {
		return err
	}
	if p.scene != nil {
		scene.Particles = p.scene.Particles
	}
	p.scene = scene
	return nil
}

// step advances the swarm with the field held, adding a burst every 0.1s.
func (p *preview) step(dt float64, def config.FieldConfig) {
	in := systems.Intent{Fields: map[string]bool{def.Name: true}}
	p.timer += dt
	if p.timer >= 0.1 {
		p.timer -= 0.1
		in.Burst = 1
	}
	p.scene.Step(dt, previewBounds, in)
}

// fieldYAML renders def in the fields: format of config.yaml.
func fieldYAML(def config.FieldConfig) (string, error) {
	out, err := yaml.Marshal(struct {
		Fields []config.FieldConfig `yaml:"fields"`
	}{Fields: []config.FieldConfig{def}})
	if err != nil {
		return "", fmt.Errorf("marshaling field: %w", err)
	}
	return string(out), nil
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	def := defaultField()
	p, err := newPreview(def)
	if err != nil {
		slog.Error("failed to build preview", "error", err)
		os.Exit(1)
	}

	overlay := renderer.NewFieldOverlay()
	overlay.Spacing = 30
	particles := renderer.NewParticleRenderer()
	particles.MinRadius = 0.5

	animating := false
	needsRebuild := false

	for !rl.WindowShouldClose() {
		if needsRebuild {
			if err := p.rebuild(def); err != nil {
				slog.Error("failed to rebuild preview", "error", err)
			}
			needsRebuild = false
		}
		if animating {
			p.step(float64(rl.GetFrameTime()), def)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview
		rl.BeginScissorMode(0, 0, previewSize, previewSize)
		rl.DrawRectangle(0, 0, previewSize, previewSize, rl.Color{R: 15, G: 15, B: 25, A: 255})
		overlay.Draw(previewBounds, p.scene.Fields, p.scene.Wind.Vector())
		p.scene.Particles.Render(particles)
		rl.EndScissorMode()
		rl.DrawRectangleLines(0, 0, previewSize, previewSize, rl.DarkGray)

		wind := p.scene.Wind.Vector()
		statsY := int32(previewSize + 15)
		rl.DrawText(fmt.Sprintf("Particles: %d  Wind: %+.1f, %+.1f", p.scene.Particles.Count(), wind.X, wind.Y), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Force Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Kind and target toggles
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Kind: "+def.Kind) {
			def.Kind = toggleText(def.Kind == config.FieldVortex, config.FieldRadial, config.FieldVortex)
			needsRebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 140, Height: 30}, "Target: "+def.Target) {
			def.Target = toggleText(def.Target == config.TargetWind, config.TargetVelocity, config.TargetWind)
			needsRebuild = true
		}
		panelY += 45

		if v, changed := slider(panelX, &panelY, "Strength (negative reverses)", def.Strength, -2, 2); changed {
			def.Strength = v
			needsRebuild = true
		}
		if def.Kind == config.FieldRadial {
			if v, changed := slider(panelX, &panelY, "Scale (distance divisor)", def.Scale, 1, 200); changed {
				def.Scale = v
				needsRebuild = true
			}
		}
		if !def.FollowCenter {
			if v, changed := slider(panelX, &panelY, "Center X", def.Center.X, 0, previewSize); changed {
				def.Center.X = v
				needsRebuild = true
			}
			if v, changed := slider(panelX, &panelY, "Center Y", def.Center.Y, 0, previewSize); changed {
				def.Center.Y = v
				needsRebuild = true
			}
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 140, Height: 30}, toggleText(def.FollowCenter, "Fixed Center", "Follow Center")) {
			def.FollowCenter = !def.FollowCenter
			needsRebuild = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Clear Swarm") {
			p.scene.Particles.Clear()
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 140, Height: 30}, "Reset All") {
			def = defaultField()
			p.scene.Particles.Clear()
			needsRebuild = true
		}
		panelY += 55

		// Output YAML
		text, err := fieldYAML(def)
		if err != nil {
			text = err.Error()
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider row and advances y past it.
func slider(x float32, y *float32, label string, value, lo, hi float64) (float64, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%.0f", lo), fmt.Sprintf("%.0f", hi),
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf("%.2f", value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float64(next) != float64(float32(value)) {
		return float64(next), true
	}
	return value, false
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
