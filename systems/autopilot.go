package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/config"
)

// Autopilot produces scripted intents for runs without a window.
type Autopilot struct {
	cfg   config.HeadlessConfig
	clock float64

	nextBurst   float64
	nextPointer float64
}

// NewAutopilot creates an autopilot starting at time zero.
func NewAutopilot(cfg config.HeadlessConfig) *Autopilot {
	return &Autopilot{cfg: cfg}
}

// Clock returns the scripted time elapsed.
func (a *Autopilot) Clock() float64 {
	return a.clock
}

// Next returns the intent for the frame starting now and advances the clock
// by dt. Interval events fire once for every boundary crossed, the first at
// time zero. Duty fields are held for the first Active seconds of each Period.
func (a *Autopilot) Next(dt float64) Intent {
	var in Intent

	if iv := a.cfg.BurstInterval; iv > 0 {
		for a.nextBurst <= a.clock {
			in.Burst++
			a.nextBurst += iv
		}
	}

	if iv := a.cfg.PointerInterval; iv > 0 && a.nextPointer <= a.clock {
		for a.nextPointer <= a.clock {
			a.nextPointer += iv
		}
		p := r2.Vec{X: a.cfg.Pointer.X, Y: a.cfg.Pointer.Y}
		in.Pointer = &p
	}

	if len(a.cfg.Duty) > 0 {
		in.Fields = make(map[string]bool, len(a.cfg.Duty))
		for _, d := range a.cfg.Duty {
			held := false
			if d.Period > 0 {
				held = math.Mod(a.clock, d.Period) < d.Active
			}
			in.Fields[d.Field] = in.Fields[d.Field] || held
		}
	}

	if dt > 0 {
		a.clock += dt
	}
	return in
}
