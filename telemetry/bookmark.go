package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSwarmPeak   BookmarkType = "swarm_peak"
	BookmarkSwarmClear  BookmarkType = "swarm_clear"
	BookmarkGale        BookmarkType = "gale"
	BookmarkBounceStorm BookmarkType = "bounce_storm"
	BookmarkSteadyState BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// Consecutive windows with a steady live count
	steadyWindowsCount int
	lastLive           int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkSwarmPeak,
			bd.checkSwarmClear,
			bd.checkGale,
			bd.checkBounceStorm,
			bd.checkSteadyState,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)
	bd.lastLive = stats.Live

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// rollingMean averages f over the history.
func (bd *BookmarkDetector) rollingMean(f func(WindowStats) float64) float64 {
	history := bd.getHistory()
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for _, h := range history {
		sum += f(h)
	}
	return sum / float64(len(history))
}

func (bd *BookmarkDetector) checkSwarmPeak(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}

	avg := bd.rollingMean(func(h WindowStats) float64 { return float64(h.Live) })
	if avg == 0 {
		return nil
	}

	if float64(stats.Live) > avg*2.0 && stats.Live >= 50 {
		return &Bookmark{
			Type:        BookmarkSwarmPeak,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Swarm of %d is %.1fx average (%.0f)", stats.Live, float64(stats.Live)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSwarmClear(stats WindowStats) *Bookmark {
	if bd.lastLive == 0 || stats.Live != 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSwarmClear,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Swarm of %d fully expired", bd.lastLive),
	}
}

func (bd *BookmarkDetector) checkGale(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}

	avg := bd.rollingMean(func(h WindowStats) float64 { return h.WindSpeed })
	if avg == 0 {
		return nil
	}

	if stats.WindSpeed > avg*2.0 && stats.WindSpeed >= 10 {
		return &Bookmark{
			Type:        BookmarkGale,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Wind speed %.1f is %.1fx average (%.1f)", stats.WindSpeed, stats.WindSpeed/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkBounceStorm(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}

	avg := bd.rollingMean(func(h WindowStats) float64 { return float64(h.Hits()) })
	if avg == 0 {
		return nil
	}

	hits := stats.Hits()
	if float64(hits) > avg*2.0 && hits >= 20 {
		return &Bookmark{
			Type:        BookmarkBounceStorm,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d boundary hits is %.1fx average (%.0f)", hits, float64(hits)/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Live < 10 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Variance of the live count over the last 4 windows
	recent := history[len(history)-4:]
	if bd.historyFull {
		recent = make([]WindowStats, 0, 4)
		for i := 4; i > 0; i-- {
			recent = append(recent, bd.history[(bd.historyIdx-i+bd.historySize)%bd.historySize])
		}
	}
	var sum float64
	for _, h := range recent {
		sum += float64(h.Live)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Live) - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady swarm of about %d over 5+ windows", stats.Live),
		}
	}

	return nil
}
