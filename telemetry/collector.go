package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gust/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
// Windows are measured in simulated seconds, so variable frame steps are
// counted correctly.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int32
	windowElapsed   float64
	simTime         float64

	// Event counters for current window
	spawned int
	culled  int
	hits    [systems.EdgeBottom + 1]int
	toggles int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordStep folds one frame's report into the window.
func (c *Collector) RecordStep(r systems.StepReport, dt float64) {
	c.spawned += r.Spawned
	c.culled += r.Culled
	for i := range c.hits {
		c.hits[i] += r.Hits[i]
	}
	if dt > 0 {
		c.windowElapsed += dt
		c.simTime += dt
	}
}

// RecordFieldToggle records a field being switched on or off.
func (c *Collector) RecordFieldToggle() {
	c.toggles++
}

// ShouldFlush returns true if the window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.windowElapsed >= c.windowDurationSec
}

// SimTime returns the simulated seconds recorded so far.
func (c *Collector) SimTime() float64 {
	return c.simTime
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	lifeMean, _, lifeP10, lifeP50, lifeP90 := ComputeDistribution(s.Lifespans)
	speedMean, speedStd, _, speedP50, speedP90 := ComputeDistribution(s.Speeds)

	var sizeMean float64
	if len(s.Sizes) > 0 {
		sizeMean = stat.Mean(s.Sizes, nil)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.simTime,

		Live:      s.Live,
		Visible:   s.Visible,
		Lingering: s.Lingering,

		Spawned:    c.spawned,
		Culled:     c.culled,
		HitsLeft:   c.hits[systems.EdgeLeft],
		HitsRight:  c.hits[systems.EdgeRight],
		HitsTop:    c.hits[systems.EdgeTop],
		HitsBottom: c.hits[systems.EdgeBottom],
		Toggles:    c.toggles,

		WindX:        s.Wind.X,
		WindY:        s.Wind.Y,
		WindSpeed:    r2.Norm(s.Wind),
		ActiveFields: s.ActiveFields,

		LifespanMean: lifeMean,
		LifespanP10:  lifeP10,
		LifespanP50:  lifeP50,
		LifespanP90:  lifeP90,

		SizeMean: sizeMean,

		SpeedMean: speedMean,
		SpeedStd:  speedStd,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowElapsed = 0
	c.spawned = 0
	c.culled = 0
	c.hits = [systems.EdgeBottom + 1]int{}
	c.toggles = 0

	return stats
}

// WindowDuration returns the window length in simulated seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
