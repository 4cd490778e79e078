package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/gust/audio"
	"github.com/pthm-cable/gust/systems"
)

// Options configures a terminal run.
type Options struct {
	FPS      int           // Frame rate (default 30)
	Hold     time.Duration // How long a key press counts as held (default 150ms)
	MaxTicks int32         // Stop after this many frames (0 = until quit)

	// Audio feeds the audio hook while audio mode is on. Nil disables 'm'.
	Audio   audio.Source
	AudioOn bool // Start in audio mode
	// OnAudio is told when audio mode is switched.
	OnAudio func(on bool)
	// OnStep observes every simulated frame.
	OnStep func(report systems.StepReport, dt float64)
}

// Loop drives a Scene from terminal input. Terminals report key presses
// but not releases, so a key counts as held for Options.Hold after its
// last press or auto-repeat.
type Loop struct {
	screen tcell.Screen
	scene  *systems.Scene
	world  systems.Bounds
	sink   *Sink
	opts   Options

	keys      map[tcell.Key]time.Time
	runes     map[rune]time.Time
	fieldKeys map[rune]string
	mouse     *r2.Vec

	paused  bool
	audioOn bool
	samples []float64
	tick    int32
}

// NewLoop creates a loop over an initialized screen. The scene is
// simulated in world coordinates and scaled onto the grid.
func NewLoop(screen tcell.Screen, scene *systems.Scene, world systems.Bounds, opts Options) *Loop {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Hold <= 0 {
		opts.Hold = 150 * time.Millisecond
	}
	l := &Loop{
		screen:    screen,
		scene:     scene,
		world:     world,
		sink:      NewSink(screen, world),
		opts:      opts,
		keys:      make(map[tcell.Key]time.Time),
		runes:     make(map[rune]time.Time),
		fieldKeys: make(map[rune]string),
		audioOn:   opts.AudioOn && opts.Audio != nil,
	}
	for _, tr := range scene.Fields.Triggers() {
		if r := []rune(tr.Key); len(r) == 1 {
			l.fieldKeys[unicode.ToLower(r[0])] = tr.Name
		}
	}
	return l
}

// Run opens the terminal and runs until the user quits, ctx is done or
// MaxTicks frames have been simulated.
func Run(ctx context.Context, scene *systems.Scene, world systems.Bounds, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	return NewLoop(screen, scene, world, opts).Run(ctx)
}

// Run polls events and steps the scene at the configured frame rate.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.opts.FPS))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !l.HandleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			l.Frame(dt, now)
			if l.opts.MaxTicks > 0 && l.tick >= l.opts.MaxTicks {
				slog.Info("max ticks reached", "tick", l.tick)
				return nil
			}
		}
	}
}

// HandleEvent records input. It returns false when the user asked to quit.
func (l *Loop) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			r := unicode.ToLower(ev.Rune())
			switch r {
			case 'q':
				return false
			case ' ':
				l.paused = !l.paused
			case 'm':
				l.toggleAudio()
			default:
				l.runes[r] = now
			}
		default:
			l.keys[ev.Key()] = now
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			col, row := ev.Position()
			pos := l.sink.World(col, row)
			l.mouse = &pos
		} else {
			l.mouse = nil
		}

	case *tcell.EventResize:
		l.sink.Resize()
		l.screen.Sync()
	}
	return true
}

func (l *Loop) toggleAudio() {
	if l.opts.Audio == nil {
		return
	}
	l.audioOn = !l.audioOn
	slog.Info("audio mode", "on", l.audioOn)
	if l.opts.OnAudio != nil {
		l.opts.OnAudio(l.audioOn)
	}
}

// Intent builds the frame's input from keys held at now.
func (l *Loop) Intent(now time.Time) systems.Intent {
	held := func(at time.Time, ok bool) bool { return ok && now.Sub(at) <= l.opts.Hold }
	key := func(k tcell.Key) bool { at, ok := l.keys[k]; return held(at, ok) }
	char := func(r rune) bool { at, ok := l.runes[r]; return held(at, ok) }

	var in systems.Intent
	if key(tcell.KeyLeft) {
		in.Wind.X--
	}
	if key(tcell.KeyRight) {
		in.Wind.X++
	}
	if key(tcell.KeyUp) {
		in.Wind.Y--
	}
	if key(tcell.KeyDown) {
		in.Wind.Y++
	}
	if char('p') {
		in.Burst = 1
	}
	if l.mouse != nil {
		pos := *l.mouse
		in.Pointer = &pos
	}

	in.Fields = make(map[string]bool, len(l.fieldKeys))
	for r, name := range l.fieldKeys {
		in.Fields[name] = char(r)
	}

	if l.audioOn {
		l.samples = l.opts.Audio.Samples(l.samples)
		in.Audio = l.samples
	}
	return in
}

// Frame steps the scene unless paused and redraws the screen.
func (l *Loop) Frame(dt float64, now time.Time) {
	if !l.paused {
		in := l.Intent(now)
		report := l.scene.Step(dt, l.world, in)
		l.tick++
		if l.opts.OnStep != nil {
			l.opts.OnStep(report, dt)
		}
	}
	l.Draw()
}

// Draw renders the particles and a status line.
func (l *Loop) Draw() {
	l.screen.Clear()
	l.scene.Particles.Render(l.sink)

	_, rows := l.screen.Size()
	wind := l.scene.Wind.Vector()
	var fields []string
	for _, tr := range l.scene.Fields.Triggers() {
		label := fmt.Sprintf("%s[%s]", tr.Name, strings.ToLower(tr.Key))
		if tr.Active {
			label = strings.ToUpper(label)
		}
		fields = append(fields, label)
	}
	status := fmt.Sprintf(" particles %d | wind %+.0f,%+.0f | %s | p burst  m audio  space pause  q quit",
		l.scene.Particles.Count(), wind.X, wind.Y, strings.Join(fields, " "))
	if l.paused {
		status = " PAUSED" + status
	}
	drawText(l.screen, 0, rows-1, status, tcell.StyleDefault.Foreground(tcell.ColorGray))

	l.screen.Show()
}

// Tick returns the number of simulated frames.
func (l *Loop) Tick() int32 {
	return l.tick
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	cols, _ := screen.Size()
	for _, r := range text {
		if x >= cols {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
