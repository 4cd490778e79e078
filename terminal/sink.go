// Package terminal runs the particle scene inside a terminal using tcell.
package terminal

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/systems"
)

// Sink draws particles as coloured glyphs, scaling world coordinates onto
// the terminal grid. It implements systems.Sink.
type Sink struct {
	screen tcell.Screen
	world  systems.Bounds
	cols   int
	rows   int
}

// NewSink creates a sink mapping world onto screen's current size.
func NewSink(screen tcell.Screen, world systems.Bounds) *Sink {
	s := &Sink{screen: screen, world: world}
	s.Resize()
	return s
}

// Resize picks up the screen's current size.
func (s *Sink) Resize() {
	s.cols, s.rows = s.screen.Size()
}

// Cell maps a world position to a terminal cell. ok is false when the
// grid or world is empty.
func (s *Sink) Cell(pos r2.Vec) (col, row int, ok bool) {
	if s.cols <= 0 || s.rows <= 0 || s.world.Width <= 0 || s.world.Height <= 0 {
		return 0, 0, false
	}
	col = clamp(int(pos.X/s.world.Width*float64(s.cols)), 0, s.cols-1)
	row = clamp(int(pos.Y/s.world.Height*float64(s.rows)), 0, s.rows-1)
	return col, row, true
}

// World maps a terminal cell back to the world position at its centre.
func (s *Sink) World(col, row int) r2.Vec {
	if s.cols <= 0 || s.rows <= 0 {
		return r2.Vec{}
	}
	return r2.Vec{
		X: (float64(col) + 0.5) / float64(s.cols) * s.world.Width,
		Y: (float64(row) + 0.5) / float64(s.rows) * s.world.Height,
	}
}

// DrawParticle implements systems.Sink.
func (s *Sink) DrawParticle(pos r2.Vec, size float64, c color.RGBA) {
	if c.A == 0 {
		return
	}
	col, row, ok := s.Cell(pos)
	if !ok {
		return
	}
	s.screen.SetContent(col, row, Glyph(size), nil, tcell.StyleDefault.Foreground(Fade(c)))
}

// Glyph picks a rune for a particle radius.
func Glyph(size float64) rune {
	switch {
	case size >= 4:
		return '●'
	case size >= 2:
		return '•'
	default:
		return '·'
	}
}

// Fade premultiplies c by its alpha against a black background.
func Fade(c color.RGBA) tcell.Color {
	a := int32(c.A)
	return tcell.NewRGBColor(int32(c.R)*a/255, int32(c.G)*a/255, int32(c.B)*a/255)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
