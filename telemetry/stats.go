// Package telemetry provides swarm statistics, bookmarks, performance
// timing and CSV output.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Live      int `csv:"live"`
	Visible   int `csv:"visible"`   // alpha > 0
	Lingering int `csv:"lingering"` // faded out but not yet expired

	// Events during window
	Spawned    int `csv:"spawned"`
	Culled     int `csv:"culled"`
	HitsLeft   int `csv:"hits_left"`
	HitsRight  int `csv:"hits_right"`
	HitsTop    int `csv:"hits_top"`
	HitsBottom int `csv:"hits_bottom"`
	Toggles    int `csv:"field_toggles"`

	// Wind at window end
	WindX        float64 `csv:"wind_x"`
	WindY        float64 `csv:"wind_y"`
	WindSpeed    float64 `csv:"wind_speed"`
	ActiveFields int     `csv:"active_fields"`

	// Distributions (sampled at window end)
	LifespanMean float64 `csv:"lifespan_mean"`
	LifespanP10  float64 `csv:"lifespan_p10"`
	LifespanP50  float64 `csv:"lifespan_p50"`
	LifespanP90  float64 `csv:"lifespan_p90"`

	SizeMean float64 `csv:"size_mean"`

	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Hits returns the total number of boundary collisions in the window.
func (s WindowStats) Hits() int {
	return s.HitsLeft + s.HitsRight + s.HitsTop + s.HitsBottom
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates the population mean, standard deviation
// and percentiles of values. The input is not modified.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("live", s.Live),
		slog.Int("visible", s.Visible),
		slog.Int("lingering", s.Lingering),
		slog.Int("spawned", s.Spawned),
		slog.Int("culled", s.Culled),
		slog.Int("hits_left", s.HitsLeft),
		slog.Int("hits_right", s.HitsRight),
		slog.Int("hits_top", s.HitsTop),
		slog.Int("hits_bottom", s.HitsBottom),
		slog.Int("field_toggles", s.Toggles),
		slog.Float64("wind_x", s.WindX),
		slog.Float64("wind_y", s.WindY),
		slog.Float64("wind_speed", s.WindSpeed),
		slog.Int("active_fields", s.ActiveFields),
		slog.Float64("lifespan_mean", s.LifespanMean),
		slog.Float64("lifespan_p10", s.LifespanP10),
		slog.Float64("lifespan_p50", s.LifespanP50),
		slog.Float64("lifespan_p90", s.LifespanP90),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"live", s.Live,
		"visible", s.Visible,
		"lingering", s.Lingering,
		"spawned", s.Spawned,
		"culled", s.Culled,
		"hits", s.Hits(),
		"wind_speed", s.WindSpeed,
		"active_fields", s.ActiveFields,
		"lifespan_p50", s.LifespanP50,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
	)
}
