package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gust/components"
	"github.com/pthm-cable/gust/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Live      int
	Visible   int
	Tick      int32
	SimTime   float64
	FPS       int32
	Paused    bool
	WindX     float64
	WindY     float64
	Fields    []components.Trigger
	AudioMode bool
	Playing   bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	stats    SectionDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		stats:    swarmSection(),
	}
}

func hud(data any) HUDData { return data.(HUDData) }

// swarmSection describes the stats panel.
func swarmSection() SectionDescriptor {
	return SectionDescriptor{
		Title: "Swarm",
		Fields: []FieldDescriptor{
			{Label: "Live", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(hud(d).Live) }},
			{Label: "Visible", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(hud(d).Visible) }},
			{Label: "Sim time", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%.1fs", hud(d).SimTime)
			}},
			{Widget: WidgetSpacer},
			{Label: "Wind", Widget: WidgetSection},
			{Label: "X", Widget: WidgetCenteredBar, Range: FieldRange{Min: -200, Max: 200}, Getter: func(d any) float32 { return float32(hud(d).WindX) }},
			{Label: "Y", Widget: WidgetCenteredBar, Range: FieldRange{Min: -200, Max: 200}, Getter: func(d any) float32 { return float32(hud(d).WindY) }},
			{Widget: WidgetSpacer},
			{Label: "Fields", Widget: WidgetText, TextGetter: func(d any) string { return fieldSummary(hud(d).Fields) }},
			{Label: "Audio", Widget: WidgetText, Visible: func(d any) bool { return hud(d).AudioMode }, TextGetter: func(d any) string {
				if hud(d).Playing {
					return "playing"
				}
				return "paused"
			}},
		},
	}
}

// fieldSummary lists fields as "name[key]", upper-cased when held.
func fieldSummary(fields []components.Trigger) string {
	if len(fields) == 0 {
		return "none"
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		name := f.Name
		if f.Active {
			name = strings.ToUpper(name)
		}
		parts[i] = fmt.Sprintf("%s[%s]", name, f.Key)
	}
	return strings.Join(parts, " ")
}

// Draw renders the title line and status.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Particles: %d | Tick: %d | FPS: %d", data.Live, data.Tick, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 55, 16, rl.Yellow)
}

// DrawStats renders the swarm stats panel anchored at x, y.
func (h *HUD) DrawStats(x, y, width int32, data HUDData) {
	r := h.renderer
	height := r.SectionHeight(h.stats, data) + r.Theme.Padding*2
	r.DrawPanel(x, y, width, height)
	r.DrawSection(x+r.Theme.Padding, y+r.Theme.Padding, h.stats, data, width-r.Theme.Padding*2)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s | Max: %s | FPS: %.0f",
			stats.AvgTickDuration.Round(time.Microsecond),
			stats.MaxTickDuration.Round(time.Microsecond),
			stats.FPS),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, phase := range telemetry.Phases() {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
