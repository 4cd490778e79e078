package audio

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/pthm-cable/gust/config"
)

// Player loops a wav track through the speaker. It starts paused.
type Player struct {
	file   *os.File
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	tap    *Tap
}

// Open decodes the configured track and hands it to the speaker.
func Open(cfg config.AudioConfig) (*Player, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening track: %w", err)
	}

	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", cfg.Path, err)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond)); err != nil {
		stream.Close()
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	tap := NewTap(cfg.TapSize)
	p := &Player{
		file:   f,
		stream: stream,
		tap:    tap,
		ctrl: &beep.Ctrl{
			Streamer: newVolume(tap.Wrap(beep.Loop(-1, stream)), cfg.Volume),
			Paused:   true,
		},
	}
	speaker.Play(p.ctrl)
	return p, nil
}

// newVolume maps a linear gain onto the effect's log2 scale.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// SetPlaying pauses or resumes the track.
func (p *Player) SetPlaying(on bool) {
	speaker.Lock()
	p.ctrl.Paused = !on
	speaker.Unlock()
}

// Playing reports whether the track is audible.
func (p *Player) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return !p.ctrl.Paused
}

// Samples implements Source with the magnitudes most recently played.
func (p *Player) Samples(dst []float64) []float64 {
	return p.tap.Samples(dst)
}

// Close stops playback and releases the track.
func (p *Player) Close() error {
	speaker.Clear()
	if err := p.stream.Close(); err != nil {
		return fmt.Errorf("closing track: %w", err)
	}
	return p.file.Close()
}
