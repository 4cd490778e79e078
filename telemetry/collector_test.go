package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/systems"
)

func TestNewSample(t *testing.T) {
	ph := systems.DefaultPhysics()
	particles := []systems.Particle{
		{Velocity: r2.Vec{X: 3, Y: 4}, Lifespan: 11, Size: 7},
		{Velocity: r2.Vec{}, Lifespan: 2.5, Size: 3},
		{Velocity: r2.Vec{X: -6, Y: 8}, Lifespan: 0.001, Size: 0}, // alpha rounds to 0
	}

	s := NewSample(particles, &ph, r2.Vec{X: 1}, 2)

	if s.Live != 3 || s.Visible != 2 || s.Lingering != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", s.Live, s.Visible, s.Lingering)
	}
	if s.Speeds[0] != 5 || s.Speeds[2] != 10 {
		t.Errorf("unexpected speeds: %v", s.Speeds)
	}
	if s.ActiveFields != 2 || s.Wind.X != 1 {
		t.Errorf("unexpected wind/fields: %+v", s)
	}
}

func TestCollector_FlushAggregatesAndResets(t *testing.T) {
	c := NewCollector(1)

	var r systems.StepReport
	r.Spawned = 3
	r.Culled = 1
	r.Hits[systems.EdgeLeft] = 2
	r.Hits[systems.EdgeBottom] = 1

	for i := 0; i < 4; i++ {
		c.RecordStep(r, 0.25)
	}
	c.RecordFieldToggle()

	if !c.ShouldFlush() {
		t.Fatal("expected flush after one simulated second")
	}

	ph := systems.DefaultPhysics()
	sample := NewSample([]systems.Particle{
		{Velocity: r2.Vec{X: 3, Y: 4}, Lifespan: 10, Size: 6},
		{Velocity: r2.Vec{X: 0, Y: 2}, Lifespan: 6, Size: 2},
	}, &ph, r2.Vec{X: 3, Y: 4}, 1)

	stats := c.Flush(60, sample)

	if stats.Spawned != 12 || stats.Culled != 4 || stats.HitsLeft != 8 || stats.HitsBottom != 4 {
		t.Errorf("unexpected event totals: %+v", stats)
	}
	if stats.Toggles != 1 {
		t.Errorf("expected 1 toggle, got %d", stats.Toggles)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-12 || stats.WindowEndTick != 60 {
		t.Errorf("unexpected window bounds: end %d at %v s", stats.WindowEndTick, stats.SimTimeSec)
	}
	if stats.WindSpeed != 5 || stats.ActiveFields != 1 {
		t.Errorf("unexpected wind: %v, fields %d", stats.WindSpeed, stats.ActiveFields)
	}
	if stats.LifespanMean != 8 || stats.SizeMean != 4 {
		t.Errorf("unexpected means: lifespan %v size %v", stats.LifespanMean, stats.SizeMean)
	}
	if math.Abs(stats.SpeedMean-3.5) > 1e-12 || math.Abs(stats.SpeedStd-1.5) > 1e-12 {
		t.Errorf("unexpected speed stats: mean %v std %v", stats.SpeedMean, stats.SpeedStd)
	}

	if c.ShouldFlush() {
		t.Error("window should restart after flush")
	}
	next := c.Flush(61, Sample{})
	if next.Spawned != 0 || next.Hits() != 0 || next.WindowStartTick != 60 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollector_IgnoresNegativeDT(t *testing.T) {
	c := NewCollector(1)
	c.RecordStep(systems.StepReport{}, -5)
	if c.SimTime() != 0 || c.ShouldFlush() {
		t.Errorf("negative dt advanced the clock to %v", c.SimTime())
	}
}

func TestOutputManager_DisabledIsNil(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	// Nil receivers are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManager_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i), Live: i * 10}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkGale, Tick: 2, Description: "test"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,live") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header written more than once")
	}

	bm, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bm), "gale") {
		t.Errorf("bookmark missing from %q", bm)
	}
}
