package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/components"
	"github.com/pthm-cable/gust/systems"
)

// FieldOverlay draws the shape of the registered force fields as a grid of
// arrows, a ring around each emitter and the current wind vector.
type FieldOverlay struct {
	Spacing  float32 // Grid pitch in pixels
	MaxArrow float32 // Longest arrow as a fraction of Spacing
	Gain     float64 // Pixels per unit of field output
}

// NewFieldOverlay creates an overlay with a 40px grid.
func NewFieldOverlay() *FieldOverlay {
	return &FieldOverlay{Spacing: 40, MaxArrow: 0.45, Gain: 0.5}
}

var (
	windFieldColor     = rl.Color{R: 50, G: 100, B: 130, A: 140}
	velocityFieldColor = rl.Color{R: 130, G: 80, B: 50, A: 140}
	activeRingColor    = rl.Color{R: 255, G: 220, B: 120, A: 220}
	idleRingColor      = rl.Color{R: 120, G: 120, B: 140, A: 120}
	windArrowColor     = rl.Color{R: 200, G: 220, B: 255, A: 230}
)

// Draw renders the overlay. Both active and idle emitters are shown.
func (o *FieldOverlay) Draw(b systems.Bounds, fields *systems.FieldSources, wind r2.Vec) {
	if fields.Count() > 0 && o.Spacing > 0 {
		rl.BeginBlendMode(rl.BlendAdditive)
		half := float64(o.Spacing) / 2
		for y := half; y < b.Height; y += float64(o.Spacing) {
			for x := half; x < b.Width; x += float64(o.Spacing) {
				pos := r2.Vec{X: x, Y: y}
				o.arrow(pos, fields.Sample(b, pos, components.TargetWind), windFieldColor)
				o.arrow(pos, fields.Sample(b, pos, components.TargetVelocity), velocityFieldColor)
			}
		}
		rl.EndBlendMode()

		for _, tr := range fields.Triggers() {
			anchor, field, ok := fields.Lookup(tr.Name)
			if !ok {
				continue
			}
			c := r2.Vec{X: anchor.X, Y: anchor.Y}
			if anchor.FollowCenter {
				c = b.Center()
			}
			ring := idleRingColor
			if tr.Active {
				ring = activeRingColor
			}
			center := rl.Vector2{X: float32(c.X), Y: float32(c.Y)}
			rl.DrawCircleLinesV(center, 12, ring)
			label := tr.Name + " [" + tr.Key + "] " + field.Kind.String()
			rl.DrawText(label, int32(c.X)+16, int32(c.Y)-6, 12, ring)
		}
	}

	o.drawWind(b, wind)
}

// arrow draws v anchored at pos, clamped to the grid cell.
func (o *FieldOverlay) arrow(pos, v r2.Vec, c rl.Color) {
	mag := r2.Norm(v)
	if mag < 1e-6 {
		return
	}
	length := math.Min(mag*o.Gain, float64(o.Spacing*o.MaxArrow))
	tip := r2.Add(pos, r2.Scale(length/mag, v))
	drawArrow(pos, tip, 1.5, c)
}

// drawWind draws the global wind as a gauge in the lower right corner.
func (o *FieldOverlay) drawWind(b systems.Bounds, wind r2.Vec) {
	const radius = 30
	origin := r2.Vec{X: b.Width - radius - 16, Y: b.Height - radius - 16}
	rl.DrawCircleLinesV(rl.Vector2{X: float32(origin.X), Y: float32(origin.Y)}, radius, idleRingColor)

	mag := r2.Norm(wind)
	if mag < 1e-6 {
		return
	}
	// Compress so gale force still fits in the gauge
	length := radius * (1 - math.Exp(-mag/50))
	drawArrow(origin, r2.Add(origin, r2.Scale(length/mag, wind)), 2, windArrowColor)
}

func drawArrow(from, to r2.Vec, thick float32, c rl.Color) {
	start := rl.Vector2{X: float32(from.X), Y: float32(from.Y)}
	end := rl.Vector2{X: float32(to.X), Y: float32(to.Y)}
	rl.DrawLineEx(start, end, thick, c)

	d := r2.Sub(to, from)
	n := r2.Norm(d)
	if n < 4 {
		return
	}
	d = r2.Scale(1/n, d)
	head := math.Min(n*0.35, 6)
	for _, side := range []float64{-1, 1} {
		// Rotate the back-pointing unit vector by ±30°
		bx := -d.X*math.Cos(math.Pi/6) - side*-d.Y*math.Sin(math.Pi/6)
		by := side*-d.X*math.Sin(math.Pi/6) + -d.Y*math.Cos(math.Pi/6)
		wing := rl.Vector2{X: end.X + float32(bx*head), Y: end.Y + float32(by*head)}
		rl.DrawLineEx(end, wing, thick, c)
	}
}
