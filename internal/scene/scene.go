package scene

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"particles.klederson.com/internal/config"
	"particles.klederson.com/internal/gesture"
	"particles.klederson.com/internal/motion"
	"particles.klederson.com/internal/shape"
)

// Options configure a Scene.
type Options struct {
	Count    int
	Template shape.Template
	Color    config.RGB
	Params   motion.Params
	Timeout  time.Duration // metrics older than this read as no hand
	Rand     *rand.Rand    // nil seeds from the runtime
	Log      logrus.FieldLogger
}

// Snapshot is a copy of the scene state for display.
type Snapshot struct {
	Template   shape.Template
	Color      config.RGB
	Metrics    gesture.Metrics
	Expansion  float64
	Turbulent  bool
	Rotation   motion.Rotation
	Frame      uint64
	Particles  int
	Updates    uint64
	MetricsAge time.Duration
}

// Scene ties the shape generator, the integrator and the gesture cell
// together and holds the user-facing template and color selection.
//
// Step and Live belong to the render loop. Regenerate, the Cycle methods
// and Snapshot may be called from any goroutine.
type Scene struct {
	gen     *shape.Generator
	it      *motion.Integrator
	cell    *gesture.Cell
	timeout time.Duration
	log     logrus.FieldLogger

	mu        sync.Mutex
	template  shape.Template
	palette   []config.RGB
	color     int
	metrics   gesture.Metrics
	expansion float64
	turbulent bool
	rot       motion.Rotation
	frame     uint64
}

// New generates the starting shape and builds a scene around it.
func New(opts Options) (*Scene, error) {
	if opts.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Log = l
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	// The generator and the integrator run on different goroutines, so each
	// gets its own stream split off the seed.
	gen := shape.NewGenerator(opts.Count, rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
	initial, err := gen.Generate(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", opts.Template, err)
	}
	it, err := motion.New(initial, opts.Params, rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
	if err != nil {
		return nil, err
	}

	palette, color := paletteWith(opts.Color)
	return &Scene{
		gen:       gen,
		it:        it,
		cell:      gesture.NewCell(),
		timeout:   opts.Timeout,
		log:       opts.Log.WithField("component", "scene"),
		template:  opts.Template,
		palette:   palette,
		color:     color,
		expansion: 1,
	}, nil
}

// paletteWith returns the built-in palette with c in it and c's index.
func paletteWith(c config.RGB) ([]config.RGB, int) {
	palette := make([]config.RGB, 0, len(config.Palette)+1)
	idx := -1
	for _, hex := range config.Palette {
		rgb, err := config.ParseHexColor(hex)
		if err != nil {
			continue
		}
		if rgb == c {
			idx = len(palette)
		}
		palette = append(palette, rgb)
	}
	if idx < 0 {
		palette = append([]config.RGB{c}, palette...)
		idx = 0
	}
	return palette, idx
}

// Cell is where gesture sources publish.
func (s *Scene) Cell() *gesture.Cell { return s.cell }

// Live returns the particle positions after the last Step.
func (s *Scene) Live() shape.ParticleSet { return s.it.Live() }

// Size returns the particle count.
func (s *Scene) Size() int { return s.it.Size() }

// Regenerate builds a new target for t and hands it to the integrator.
// On error the current template and target stay in place.
func (s *Scene) Regenerate(t shape.Template) error {
	target, err := s.gen.Generate(t)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", t, err)
	}
	if err := s.it.SetTarget(target); err != nil {
		return err
	}

	s.mu.Lock()
	s.template = t
	s.mu.Unlock()

	s.log.WithField("template", t.String()).Info("Target regenerated")
	return nil
}

// CycleTemplate switches to the next template in the cycle.
func (s *Scene) CycleTemplate() error {
	return s.Regenerate(s.Template().Next())
}

// CycleColor moves to the next palette color and returns it.
func (s *Scene) CycleColor() config.RGB {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = (s.color + 1) % len(s.palette)
	return s.palette[s.color]
}

// Template returns the current template.
func (s *Scene) Template() shape.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// Color returns the current particle color.
func (s *Scene) Color() config.RGB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palette[s.color]
}

// Step reads the latest gesture snapshot once and advances the field.
// elapsed is seconds since the scene started.
func (s *Scene) Step(elapsed float64) (motion.Rotation, error) {
	m := s.cell.Fresh(s.timeout)
	rot, err := s.it.Tick(elapsed, m)
	if err != nil {
		s.log.WithError(err).Warn("Tick skipped")
		return rot, err
	}

	s.mu.Lock()
	s.metrics = m.Sanitize()
	s.expansion = s.it.Expansion(s.metrics, elapsed)
	s.turbulent = s.it.Turbulent(s.metrics)
	s.rot = rot
	s.frame = s.it.Frame()
	s.mu.Unlock()
	return rot, nil
}

// Snapshot copies the state shown by the HUD.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Template:   s.template,
		Color:      s.palette[s.color],
		Metrics:    s.metrics,
		Expansion:  s.expansion,
		Turbulent:  s.turbulent,
		Rotation:   s.rot,
		Frame:      s.frame,
		Particles:  s.it.Size(),
		Updates:    s.cell.Updates(),
		MetricsAge: s.cell.Age(),
	}
}

// Prefs returns the selection in the form saved between runs.
func (s *Scene) Prefs() config.Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return config.Prefs{Template: s.template.String(), Color: s.palette[s.color].Hex()}
}
