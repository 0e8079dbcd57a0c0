package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables that may be overridden from a YAML file and
// then from command-line flags. Zero-valued sections keep their defaults.
type Config struct {
	// Particles is the fixed buffer size N.
	Particles int `yaml:"particles"`

	// Template is the shape shown at startup (heart, flower, saturn, fireworks).
	Template string `yaml:"template"`

	// Color is the startup particle color as #RRGGBB.
	Color string `yaml:"color"`

	Motion  MotionConfig  `yaml:"motion"`
	Gesture GestureConfig `yaml:"gesture"`
	Beacon  BeaconConfig  `yaml:"beacon"`
}

// MotionConfig mirrors the integrator parameters.
type MotionConfig struct {
	CatchUpRate         float64 `yaml:"catchUpRate"`
	ExpansionGain       float64 `yaml:"expansionGain"`
	BreathAmplitude     float64 `yaml:"breathAmplitude"`
	BreathRate          float64 `yaml:"breathRate"`
	TurbulenceThreshold float64 `yaml:"turbulenceThreshold"`
	TurbulenceAmplitude float64 `yaml:"turbulenceAmplitude"`
	SpinRate            float64 `yaml:"spinRate"`
	YawGain             float64 `yaml:"yawGain"`
	PitchGain           float64 `yaml:"pitchGain"`
}

// GestureConfig controls the metrics handoff.
type GestureConfig struct {
	// Timeout after which an unrefreshed snapshot is treated as absent.
	Timeout time.Duration `yaml:"timeout"`

	// SyntheticRate is the demo tracker cadence.
	SyntheticRate time.Duration `yaml:"syntheticRate"`
}

// BeaconConfig configures the BLE proximity source.
type BeaconConfig struct {
	MeasuredPower  float64 `yaml:"measuredPower"`
	PathLossExp    float64 `yaml:"pathLossExp"`
	SmoothingAlpha float64 `yaml:"smoothingAlpha"`
	Near           float64 `yaml:"near"`
	Far            float64 `yaml:"far"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Particles: ParticleCount,
		Template:  "heart",
		Color:     Palette[0],
		Motion: MotionConfig{
			CatchUpRate:         CatchUpRate,
			ExpansionGain:       ExpansionGain,
			BreathAmplitude:     BreathAmplitude,
			BreathRate:          BreathRate,
			TurbulenceThreshold: TurbulenceThreshold,
			TurbulenceAmplitude: TurbulenceAmplitude,
			SpinRate:            SpinRate,
			YawGain:             YawGain,
			PitchGain:           PitchGain,
		},
		Gesture: GestureConfig{
			Timeout:       GestureTimeout,
			SyntheticRate: SyntheticRate,
		},
		Beacon: BeaconConfig{
			MeasuredPower:  MeasuredPower,
			PathLossExp:    PathLossExp,
			SmoothingAlpha: SmoothingAlpha,
			Near:           BeaconNear,
			Far:            BeaconFar,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every value is within a usable range.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if strings.TrimSpace(c.Template) == "" {
		return fmt.Errorf("template must not be empty")
	}
	if _, err := ParseHexColor(c.Color); err != nil {
		return err
	}

	m := c.Motion
	if m.CatchUpRate <= 0 || m.CatchUpRate > 1 {
		return fmt.Errorf("motion.catchUpRate must be in (0,1], got %.3f", m.CatchUpRate)
	}
	if m.ExpansionGain < 0 {
		return fmt.Errorf("motion.expansionGain must not be negative, got %.3f", m.ExpansionGain)
	}
	if m.TurbulenceThreshold < 0 || m.TurbulenceThreshold > 1 {
		return fmt.Errorf("motion.turbulenceThreshold must be in [0,1], got %.3f", m.TurbulenceThreshold)
	}
	if m.TurbulenceAmplitude < 0 {
		return fmt.Errorf("motion.turbulenceAmplitude must not be negative, got %.3f", m.TurbulenceAmplitude)
	}

	if c.Gesture.Timeout <= 0 {
		return fmt.Errorf("gesture.timeout must be positive, got %s", c.Gesture.Timeout)
	}
	if c.Gesture.SyntheticRate <= 0 {
		return fmt.Errorf("gesture.syntheticRate must be positive, got %s", c.Gesture.SyntheticRate)
	}

	b := c.Beacon
	if b.PathLossExp <= 0 {
		return fmt.Errorf("beacon.pathLossExp must be positive, got %.2f", b.PathLossExp)
	}
	if b.SmoothingAlpha <= 0 || b.SmoothingAlpha > 1 {
		return fmt.Errorf("beacon.smoothingAlpha must be in (0,1], got %.2f", b.SmoothingAlpha)
	}
	if b.Near < 0 || b.Near >= b.Far {
		return fmt.Errorf("beacon range invalid: near(%.2f) >= far(%.2f)", b.Near, b.Far)
	}
	return nil
}

// RGB is a packed 8-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses "#RRGGBB".
func ParseHexColor(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("color must look like #RRGGBB, got %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color must look like #RRGGBB, got %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats the color as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
