package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gust/config"
	"github.com/pthm-cable/gust/systems"
)

// TuningPanel edits physics constants and field strengths while the
// simulation runs.
type TuningPanel struct {
	renderer *Renderer
	defaults systems.Physics
	strength map[string]float64 // Field strengths at construction
	copied   int                // Frames left to show the copy notice
}

// NewTuningPanel snapshots the current settings so Reset can restore them.
func NewTuningPanel(ph systems.Physics, fields *systems.FieldSources) *TuningPanel {
	t := &TuningPanel{
		renderer: NewRenderer(),
		defaults: ph,
		strength: make(map[string]float64),
	}
	for _, tr := range fields.Triggers() {
		if _, f, ok := fields.Lookup(tr.Name); ok {
			t.strength[tr.Name] = f.Strength
		}
	}
	return t
}

// Height returns the panel height for the given number of fields.
func (t *TuningPanel) Height(fieldCount int) int32 {
	rows := 3 + fieldCount
	return int32(40 + rows*38 + 80)
}

// Draw renders the panel and applies any edits to ph and fields.
func (t *TuningPanel) Draw(x, y, width int32, ph *systems.Physics, fields *systems.FieldSources) {
	triggers := fields.Triggers()
	fixed, isFixed := ph.Restitution.(systems.FixedElastic)
	count := len(triggers)
	if isFixed {
		count++
	}
	t.renderer.DrawPanel(x, y, width, t.Height(count))

	panelX := float32(x + t.renderer.Theme.Padding)
	panelY := float32(y + t.renderer.Theme.Padding)
	sliderW := float32(width) - 2*float32(t.renderer.Theme.Padding) - 60

	rl.DrawText("Tuning", int32(panelX), int32(panelY), 18, rl.White)
	panelY += 28

	ph.Gravity = t.slider(panelX, &panelY, sliderW, "Gravity", "%.0f", ph.Gravity, 0, 200)
	ph.ShrinkRate = t.slider(panelX, &panelY, sliderW, "Shrink rate", "%.2f", ph.ShrinkRate, 0, 2)
	ph.FadeWindow = t.slider(panelX, &panelY, sliderW, "Fade window", "%.1f", ph.FadeWindow, 0.5, 15)
	if isFixed {
		fixed.Coeff = t.slider(panelX, &panelY, sliderW, "Bounce", "%.2f", fixed.Coeff, 0, 3)
		ph.Restitution = fixed
	}

	for _, tr := range triggers {
		_, f, ok := fields.Lookup(tr.Name)
		if !ok {
			continue
		}
		s := t.slider(panelX, &panelY, sliderW, tr.Name+" strength", "%.2f", f.Strength, -2, 2)
		if s != f.Strength {
			fields.SetStrength(tr.Name, s)
		}
	}

	panelY += 6
	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 110, Height: 28}, "Reset") {
		t.Reset(ph, fields)
	}
	if gui.Button(rl.Rectangle{X: panelX + 120, Y: panelY, Width: 110, Height: 28}, "Copy YAML") {
		if text, err := TuningYAML(*ph, fields); err == nil {
			rl.SetClipboardText(text)
			t.copied = 90
		}
	}
	if t.copied > 0 {
		t.copied--
		rl.DrawText("Copied to clipboard", int32(panelX), int32(panelY+36), 12, rl.Green)
	}
}

// slider draws a labelled slider row and returns the possibly edited value.
func (t *TuningPanel) slider(x float32, y *float32, width float32, label, format string, value, lo, hi float64) float64 {
	rl.DrawText(label, int32(x), int32(*y), 12, t.renderer.Theme.LabelColor)
	*y += 14
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: width, Height: 16},
		"", "",
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+width+8), int32(*y+2), 12, t.renderer.Theme.ValueColor)
	*y += 24
	if v == float32(value) {
		return value
	}
	return float64(v)
}

// Reset restores the snapshot taken at construction.
func (t *TuningPanel) Reset(ph *systems.Physics, fields *systems.FieldSources) {
	*ph = t.defaults
	for name, s := range t.strength {
		fields.SetStrength(name, s)
	}
}

type tuningDoc struct {
	Physics struct {
		Gravity    float64 `yaml:"gravity"`
		FadeWindow float64 `yaml:"fade_window"`
		ShrinkRate float64 `yaml:"shrink_rate"`
	} `yaml:"physics"`
	Restitution *struct {
		Kind  string  `yaml:"kind"`
		Coeff float64 `yaml:"coeff"`
	} `yaml:"restitution,omitempty"`
	Fields []config.FieldConfig `yaml:"fields"`
}

// TuningYAML renders the tuned values as a config fragment that can be
// pasted into a config file.
func TuningYAML(ph systems.Physics, fields *systems.FieldSources) (string, error) {
	var doc tuningDoc
	doc.Physics.Gravity = ph.Gravity
	doc.Physics.FadeWindow = ph.FadeWindow
	doc.Physics.ShrinkRate = ph.ShrinkRate
	if fixed, ok := ph.Restitution.(systems.FixedElastic); ok {
		doc.Restitution = &struct {
			Kind  string  `yaml:"kind"`
			Coeff float64 `yaml:"coeff"`
		}{Kind: config.RestitutionFixed, Coeff: fixed.Coeff}
	}

	for _, tr := range fields.Triggers() {
		anchor, f, ok := fields.Lookup(tr.Name)
		if !ok {
			continue
		}
		doc.Fields = append(doc.Fields, config.FieldConfig{
			Name:         tr.Name,
			Kind:         f.Kind.String(),
			Center:       config.Vec2{X: anchor.X, Y: anchor.Y},
			FollowCenter: anchor.FollowCenter,
			Strength:     f.Strength,
			Scale:        f.Scale,
			Target:       f.Target.String(),
			Key:          tr.Key,
		})
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("marshaling tuning: %w", err)
	}
	return string(out), nil
}
