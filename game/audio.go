package game

import (
	"log/slog"

	"github.com/pthm-cable/gust/audio"
)

// initAudio picks the sample source. A configured track is only opened in
// graphical mode; failures fall back to the constant fake sample.
func (g *Game) initAudio() {
	g.source = audio.Constant(g.cfg.Audio.FakeSample)

	if g.headless || g.cfg.Audio.Path == "" {
		return
	}
	player, err := audio.Open(g.cfg.Audio)
	if err != nil {
		// Non-fatal, the swarm still reacts to the fake sample
		slog.Warn("audio unavailable", "path", g.cfg.Audio.Path, "error", err)
		return
	}
	g.player = player
	g.source = player
}

// SetAudio switches audio mode, starting or pausing the track.
func (g *Game) SetAudio(on bool) {
	if on == g.audioOn {
		return
	}
	g.audioOn = on
	if g.player != nil {
		g.player.SetPlaying(on)
	}
	slog.Info("audio mode", "on", on, "track", g.player != nil)
}

// AudioOn reports whether audio mode is on.
func (g *Game) AudioOn() bool {
	return g.audioOn
}

// audioSamples returns this frame's magnitudes, or nil when audio mode is off.
func (g *Game) audioSamples() []float64 {
	if !g.audioOn {
		return nil
	}
	g.samples = g.source.Samples(g.samples)
	return g.samples
}
