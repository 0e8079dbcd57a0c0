package window

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"particles.klederson.com/internal/config"
	"particles.klederson.com/internal/render"
	"particles.klederson.com/internal/scene"
	"particles.klederson.com/internal/shape"
)

// Voice reacts to the field every frame.
type Voice interface {
	Follow(expansion, tension float64)
}

// Options configure the window frontend.
type Options struct {
	Scene  *scene.Scene
	Source string // shown in the HUD
	Prefs  *config.PrefsStore
	Voice  Voice
	Log    logrus.FieldLogger
}

// Game drives a Scene from ebiten's update loop and draws it as glowing
// points.
type Game struct {
	scene  *scene.Scene
	source string
	prefs  *config.PrefsStore
	voice  Voice
	log    logrus.FieldLogger

	canvas *render.Canvas
	img    *ebiten.Image
	camera render.Camera
	start  time.Time
	drawn  int
	errMsg string
}

// NewGame creates the window frontend.
func NewGame(opts Options) *Game {
	if opts.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Log = l
	}
	return &Game{
		scene:  opts.Scene,
		source: opts.Source,
		prefs:  opts.Prefs,
		voice:  opts.Voice,
		log:    opts.Log.WithField("component", "window"),
		canvas: render.NewCanvas(config.WindowWidth, config.WindowHeight),
		camera: render.PixelCamera(),
		start:  time.Now(),
	}
}

var templateKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	for i, k := range templateKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.apply(g.scene.Regenerate(shape.Templates()[i]))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.apply(g.scene.CycleTemplate())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.scene.CycleColor()
		g.apply(nil)
	}

	if _, err := g.scene.Step(time.Since(g.start).Seconds()); err != nil {
		g.errMsg = err.Error()
	}
	if g.voice != nil {
		snap := g.scene.Snapshot()
		g.voice.Follow(snap.Expansion, snap.Metrics.Tension)
	}
	return nil
}

// apply records the outcome of a selection change and persists it.
func (g *Game) apply(err error) {
	if err != nil {
		g.errMsg = err.Error()
		g.log.WithError(err).Warn("Template switch failed")
		return
	}
	g.errMsg = ""
	if g.prefs == nil {
		return
	}
	if err := g.prefs.Save(g.scene.Prefs()); err != nil {
		g.log.WithError(err).Warn("Failed to save preferences")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.scene.Snapshot()
	g.drawn = g.canvas.Plot(g.scene.Live(), snap.Rotation, g.camera, snap.Color)

	if g.img == nil {
		g.img = ebiten.NewImage(g.canvas.Width, g.canvas.Height)
	}
	g.img.WritePixels(g.canvas.Pix)
	screen.DrawImage(g.img, nil)

	ebitenutil.DebugPrintAt(screen, g.hud(snap), 12, 12)
}

func (g *Game) hud(snap scene.Snapshot) string {
	hand := "no hand"
	if snap.Metrics.Present {
		hand = fmt.Sprintf("hand %+.2f,%+.2f", snap.Metrics.CenterX, snap.Metrics.CenterY)
	}
	s := fmt.Sprintf("%s v%s  [1-4] shape  [T] next  [C] color  [Q] quit\n%s  %s  %s\ntension %.2f  expand %.2fx  yaw %3.0fdeg  %d/%d particles  %.0f fps",
		config.AppName, config.AppVersion,
		snap.Template.Label(), g.source, hand,
		snap.Metrics.Tension, snap.Expansion, render.Degrees(snap.Rotation.Yaw),
		g.drawn, snap.Particles, ebiten.ActualFPS())
	if g.errMsg != "" {
		s += "\nerror: " + g.errMsg
	}
	return s
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.canvas.Width, g.canvas.Height
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("%s - [1-4] shape, [T] next, [C] color, Esc/Q quit", config.AppName))
	ebiten.SetTPS(config.WindowFPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
