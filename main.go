package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep"
	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"particles.klederson.com/internal/app"
	"particles.klederson.com/internal/audio"
	"particles.klederson.com/internal/config"
	"particles.klederson.com/internal/gesture"
	"particles.klederson.com/internal/motion"
	"particles.klederson.com/internal/scene"
	"particles.klederson.com/internal/shape"
	"particles.klederson.com/internal/window"
)

var (
	flagDemo       bool
	flagBeacon     string
	flagReplay     string
	flagPickReplay bool
	flagLoop       bool
	flagRecord     string
	flagConfig     string
	flagTemplate   string
	flagColor      string
	flagCount      int
	flagWindow     bool
	flagSound      bool
	flagDebug      string
	flagSeed       uint64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "particles",
		Short: "Particles - gesture-driven 3D particle morphing in the terminal",
		Long: `Particles morphs a cloud of points between a heart, a flower, Saturn
and a fireworks burst. Hand tension spreads the cloud apart and the hand
position steers the camera.

Gestures come from a synthetic hand (--demo), a BLE beacon whose distance
acts as tension (--beacon), or a recorded landmark stream (--replay).
BLE scanning requires sudo or CAP_NET_ADMIN capability.`,
		RunE: run,
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&flagDemo, "demo", false, "Drive the field with a synthetic hand (default when no other source is given)")
	flags.StringVar(&flagBeacon, "beacon", "", "Use the BLE beacon with this MAC address or name as the gesture source")
	flags.StringVar(&flagReplay, "replay", "", "Replay a recorded landmark stream from a YAML file")
	flags.BoolVar(&flagPickReplay, "pick-replay", false, "Choose the recording to replay with a file dialog")
	flags.BoolVar(&flagLoop, "loop", true, "Loop the replayed recording")
	flags.StringVar(&flagRecord, "record", "", "Record the synthetic hand's landmarks to this YAML file on exit")
	flags.StringVar(&flagConfig, "config", "", "Load tunables from a YAML config file")
	flags.StringVar(&flagTemplate, "template", "", "Starting shape: heart, flower, saturn or fireworks")
	flags.StringVar(&flagColor, "color", "", "Starting particle color as #RRGGBB")
	flags.IntVar(&flagCount, "count", 0, "Number of particles")
	flags.BoolVar(&flagWindow, "window", false, "Open a graphical window instead of the terminal view")
	flags.BoolVar(&flagSound, "sound", false, "Play a hum that follows the field")
	flags.StringVar(&flagDebug, "debug", "", "Write debug logs to this file")
	flags.Uint64Var(&flagSeed, "seed", 0, "Seed for shape generation and turbulence (0 picks one at random)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log, closeLog, err := newLogger(flagDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	prefs, err := config.OpenPrefs(config.PrefsApp)
	if err != nil {
		log.WithError(err).Warn("Preferences will not persist")
	}
	applyPrefs(cmd, cfg, prefs, log)
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	tmpl, err := shape.ParseTemplate(cfg.Template)
	if err != nil {
		return err
	}
	color, err := config.ParseHexColor(cfg.Color)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if flagSeed != 0 {
		rng = rand.New(rand.NewPCG(flagSeed, flagSeed^0x9e3779b97f4a7c15))
	}
	sc, err := scene.New(scene.Options{
		Count:    cfg.Particles,
		Template: tmpl,
		Color:    color,
		Params:   motion.ParamsFromConfig(cfg.Motion),
		Timeout:  cfg.Gesture.Timeout,
		Rand:     rng,
		Log:      log,
	})
	if err != nil {
		return err
	}

	src, fallback, recorder, err := selectSource(cfg)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	if recorder != nil {
		defer func() {
			if err := recorder.Save(flagRecord); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save recording: %v\n", err)
				return
			}
			fmt.Fprintf(os.Stderr, "Saved %d frames to %s\n", recorder.Len(), flagRecord)
		}()
	}

	var player *audio.Player
	if flagSound {
		player = audio.NewPlayer(audio.NewHum(beep.SampleRate(config.HumSampleRate), config.HumBaseFreq, config.HumMaxVolume))
		if err := player.Start(); err != nil {
			log.WithError(err).Warn("Sound disabled")
			player = nil
		} else {
			defer player.Stop()
		}
	}

	if flagWindow {
		return runWindow(sc, src, fallback, prefs, player, log)
	}
	return runTerminal(sc, src, fallback, prefs, player, log)
}

func runTerminal(sc *scene.Scene, src, fallback gesture.Source, prefs *config.PrefsStore, player *audio.Player, log logrus.FieldLogger) error {
	opts := app.Options{
		Scene:    sc,
		Source:   src,
		Fallback: fallback,
		Prefs:    prefs,
		Log:      log,
	}
	if player != nil {
		opts.Voice = player
	}
	model := app.New(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)

	// Start the gesture source with reference to the tea program
	if err := model.StartSource(p); err != nil {
		printSourceHelp(src, err)
		return err
	}
	defer model.Stop()

	_, err := p.Run()
	return err
}

func runWindow(sc *scene.Scene, src, fallback gesture.Source, prefs *config.PrefsStore, player *audio.Player, log logrus.FieldLogger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emit := gesture.Feed(sc.Cell(), nil, nil)
	if err := src.Start(ctx, emit); err != nil {
		if fallback == nil {
			printSourceHelp(src, err)
			return err
		}
		log.WithError(err).WithField("source", src.Name()).Warn("Gesture source failed, using fallback")
		src = fallback
		if err := src.Start(ctx, emit); err != nil {
			return err
		}
	}
	defer src.Stop()

	opts := window.Options{
		Scene:  sc,
		Source: src.Name(),
		Prefs:  prefs,
		Log:    log,
	}
	if player != nil {
		opts.Voice = player
	}
	return window.Run(window.NewGame(opts))
}

// selectSource builds the gesture source named by the flags. The fallback is
// only set when a hardware source was asked for alongside --demo.
func selectSource(cfg *config.Config) (src, fallback gesture.Source, rec *gesture.Recorder, err error) {
	modes := 0
	for _, on := range []bool{flagBeacon != "", flagReplay != "", flagPickReplay} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return nil, nil, nil, errors.New("--beacon, --replay and --pick-replay are mutually exclusive")
	}
	if flagRecord != "" && modes > 0 {
		return nil, nil, nil, errors.New("--record only works with the synthetic hand")
	}

	demo := func() *gesture.SyntheticSource {
		return gesture.NewSyntheticSource(cfg.Gesture.SyntheticRate)
	}

	switch {
	case flagBeacon != "":
		src = gesture.NewBeaconSource(gesture.BeaconConfig{
			Target:         flagBeacon,
			MeasuredPower:  cfg.Beacon.MeasuredPower,
			PathLossExp:    cfg.Beacon.PathLossExp,
			SmoothingAlpha: cfg.Beacon.SmoothingAlpha,
			Near:           cfg.Beacon.Near,
			Far:            cfg.Beacon.Far,
			Timeout:        cfg.Gesture.Timeout,
		})
		if flagDemo {
			fallback = demo()
		}
		return src, fallback, nil, nil

	case flagReplay != "" || flagPickReplay:
		path := flagReplay
		if flagPickReplay {
			path, err = zenity.SelectFile(
				zenity.Title("Select a gesture recording"),
				zenity.FileFilters{
					{Name: "Recordings", Patterns: []string{"*.yaml", "*.yml"}},
				},
			)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		recording, err := gesture.LoadRecording(path)
		if err != nil {
			return nil, nil, nil, err
		}
		return gesture.NewReplaySource(recording, flagLoop), nil, nil, nil
	}

	s := demo()
	if flagRecord != "" {
		rec = gesture.NewRecorder(strings.TrimSuffix(filepath.Base(flagRecord), filepath.Ext(flagRecord)))
		s = s.WithRecorder(rec)
	}
	return s, nil, rec, nil
}

func loadConfig() (*config.Config, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}
	return config.Load(flagConfig)
}

// applyPrefs restores the last template and color unless a config file or
// flag chose them.
func applyPrefs(cmd *cobra.Command, cfg *config.Config, store *config.PrefsStore, log logrus.FieldLogger) {
	if flagConfig != "" {
		return
	}
	p, ok, err := store.Load()
	if err != nil {
		log.WithError(err).Warn("Failed to load preferences")
		return
	}
	if !ok {
		return
	}
	if p.Template != "" && !cmd.Flags().Changed("template") {
		if _, err := shape.ParseTemplate(p.Template); err == nil {
			cfg.Template = p.Template
		}
	}
	if p.Color != "" && !cmd.Flags().Changed("color") {
		if _, err := config.ParseHexColor(p.Color); err == nil {
			cfg.Color = p.Color
		}
	}
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("template") {
		cfg.Template = flagTemplate
	}
	if f.Changed("color") {
		cfg.Color = flagColor
	}
	if f.Changed("count") {
		cfg.Particles = flagCount
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func newLogger(path string) (*logrus.Logger, func(), error) {
	log := logrus.New()
	if path == "" {
		log.Out = io.Discard
		return log, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	log.Out = f
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return log, func() { f.Close() }, nil
}

func printSourceHelp(src gesture.Source, err error) {
	fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
	if _, ok := src.(*gesture.BeaconSource); !ok {
		return
	}
	fmt.Fprintln(os.Stderr, "Bluetooth scanning requires elevated permissions.")
	fmt.Fprintln(os.Stderr, "Try one of:")
	fmt.Fprintln(os.Stderr, "  sudo ./particles --beacon <addr>")
	fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./particles")
	fmt.Fprintln(os.Stderr, "  ./particles --beacon <addr> --demo    (fall back to the synthetic hand)")
	fmt.Fprintln(os.Stderr, "  ./particles --demo                    (no hardware needed)")
}
