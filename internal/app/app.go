package app

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"particles.klederson.com/internal/config"
	"particles.klederson.com/internal/gesture"
	"particles.klederson.com/internal/render"
	"particles.klederson.com/internal/scene"
	"particles.klederson.com/internal/shape"
	"particles.klederson.com/internal/ui"
)

// Voice is anything that reacts to the field every frame, such as the hum.
type Voice interface {
	Follow(expansion, tension float64)
}

// Options wire the model to its collaborators.
type Options struct {
	Scene    *scene.Scene
	Source   gesture.Source
	Fallback gesture.Source // started when Source fails; nil to fail hard
	Prefs    *config.PrefsStore
	Voice    Voice
	Log      logrus.FieldLogger
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	scene    *scene.Scene
	source   gesture.Source
	fallback gesture.Source
	prefs    *config.PrefsStore
	voice    Voice
	log      logrus.FieldLogger

	presence *gesture.PresenceFilter
	grid     *render.Grid
	renderer *render.Renderer
	camera   render.Camera
	gauge    *ui.Gauge
	history  *TensionRing

	now      func() time.Time
	start    time.Time
	lastTick time.Time
	fps      float64
	startErr error
	cancel   context.CancelFunc
}

// AppModel is the root Bubble Tea model for the particle field.
type AppModel struct {
	width  int
	height int

	present bool
	errMsg  string

	shared *shared

	// Cached snapshot
	snap scene.Snapshot
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	now := time.Now()
	return AppModel{
		shared: &shared{
			scene:    opts.Scene,
			source:   opts.Source,
			fallback: opts.Fallback,
			prefs:    opts.Prefs,
			voice:    opts.Voice,
			log:      log.WithField("component", "app"),
			presence: gesture.NewPresenceFilter(config.PresenceThrottle),
			grid:     &render.Grid{},
			renderer: &render.Renderer{},
			camera:   render.TerminalCamera(),
			gauge:    ui.NewGauge(config.TargetFPS),
			history:  NewTensionRing(config.TensionHistory),
			now:      time.Now,
			start:    now,
			lastTick: now,
		},
		snap: opts.Scene.Snapshot(),
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if err := m.shared.startErr; err != nil {
		cmds = append(cmds, func() tea.Msg { return SourceErrorMsg{Err: err} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.step(time.Time(msg))
		return m, tickCmd()

	case PresenceMsg:
		m.present = msg.Present
		return m, nil

	case SourceErrorMsg:
		m.errMsg = msg.Err.Error()
		return m, nil
	}

	return m, nil
}

// step advances the scene one frame and refreshes the cached HUD state.
func (m *AppModel) step(at time.Time) {
	s := m.shared
	now := s.now()
	if _, err := s.scene.Step(now.Sub(s.start).Seconds()); err != nil {
		m.errMsg = err.Error()
	}

	m.snap = s.scene.Snapshot()
	tension := m.snap.Metrics.Tension
	s.history.Push(tension)
	s.gauge.Step(tension)
	if s.voice != nil {
		s.voice.Follow(m.snap.Expansion, tension)
	}

	// Stale metrics never reach the source callback, so presence is also
	// re-checked against what the scene actually used.
	if present, changed := s.presence.Observe(m.snap.Metrics, now); changed {
		m.present = present
	}

	if dt := at.Sub(s.lastTick).Seconds(); dt > 0 {
		s.fps = s.fps*0.9 + (1/dt)*0.1
	}
	s.lastTick = at
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c", "esc":
		m.Stop()
		return m, tea.Quit

	case "1", "2", "3", "4":
		t := shape.Templates()[msg.String()[0]-'1']
		m.selectTemplate(func() error { return m.shared.scene.Regenerate(t) })

	case "t", "T":
		m.selectTemplate(m.shared.scene.CycleTemplate)

	case "c", "C":
		c := m.shared.scene.CycleColor()
		m.shared.log.WithField("color", c.Hex()).Debug("Color changed")
		m.savePrefs()
	}

	m.snap = m.shared.scene.Snapshot()
	return m, nil
}

func (m *AppModel) selectTemplate(apply func() error) {
	if err := apply(); err != nil {
		m.errMsg = err.Error()
		m.shared.log.WithError(err).Warn("Template switch failed")
		return
	}
	m.errMsg = ""
	m.savePrefs()
}

func (m *AppModel) savePrefs() {
	s := m.shared
	if s.prefs == nil {
		return
	}
	if err := s.prefs.Save(s.scene.Prefs()); err != nil {
		s.log.WithError(err).Warn("Failed to save preferences")
	}
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ui.RenderNotice(m.width, m.height, "Initializing particles...")
	}
	s := m.shared

	menuH := 1
	statusH := 1
	bodyH := max(m.height-menuH-statusH, 5)
	fieldW, hudW := ui.PanelWidth(m.width)

	source := "no source"
	if s.source != nil {
		source = s.source.Name()
	}
	menuBar := ui.RenderMenuBar(m.width, m.snap.Template, m.present, source)

	s.grid.Resize(max(fieldW-2, 1), max(bodyH-2, 1))
	visible := s.grid.Rasterize(s.scene.Live(), m.snap.Rotation, s.camera)
	field := s.renderer.Render(s.grid, m.snap.Color)
	fieldPanel := ui.RenderFieldPanel(fieldW, bodyH, field, m.present)

	hud := ""
	if hudW >= 16 {
		hud = ui.RenderHUD(hudW, bodyH, m.snap, s.history.Values(), s.gauge.Value())
	}

	statusBar := ui.RenderStatusBar(m.width, m.snap, visible, s.fps, m.errMsg)

	return ui.ComposeLayout(menuBar, fieldPanel, hud, statusBar)
}

// StartSource starts the gesture source, feeding the scene's cell and
// sending PresenceMsg through p. Must be called before p.Run(). When the
// source fails and a fallback is configured, the fallback runs instead
// and the failure is shown in the status bar.
func (m *AppModel) StartSource(p *tea.Program) error {
	s := m.shared
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	emit := gesture.Feed(s.scene.Cell(), gesture.NewPresenceFilter(config.PresenceThrottle), func(present bool) {
		if p != nil {
			p.Send(PresenceMsg{Present: present})
		}
	})

	if s.source == nil {
		return nil
	}
	err := s.source.Start(ctx, emit)
	if err == nil {
		s.log.WithField("source", s.source.Name()).Info("Gesture source started")
		return nil
	}
	if s.fallback == nil {
		return err
	}

	s.log.WithError(err).WithField("source", s.source.Name()).Warn("Gesture source failed, using fallback")
	s.startErr = fmt.Errorf("%s: %w", s.source.Name(), err)
	s.source = s.fallback
	s.fallback = nil
	return s.source.Start(ctx, emit)
}

// Stop halts the gesture source.
func (m AppModel) Stop() {
	s := m.shared
	if s.cancel != nil {
		s.cancel()
	}
	if s.source != nil {
		s.source.Stop()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
