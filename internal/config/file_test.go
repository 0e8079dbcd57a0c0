package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *Config)
	}{
		{
			name: "partial override keeps defaults",
			yamlContent: `
particles: 2000
template: flower
motion:
  catchUpRate: 0.2
gesture:
  timeout: 2s
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2000, cfg.Particles)
				assert.Equal(t, "flower", cfg.Template)
				assert.InDelta(t, 0.2, cfg.Motion.CatchUpRate, 1e-9)
				assert.InDelta(t, ExpansionGain, cfg.Motion.ExpansionGain, 1e-9)
				assert.Equal(t, 2*time.Second, cfg.Gesture.Timeout)
				assert.Equal(t, SyntheticRate, cfg.Gesture.SyntheticRate)
				assert.Equal(t, Palette[0], cfg.Color)
			},
		},
		{
			name:        "zero particles",
			yamlContent: "particles: 0\n",
			wantErr:     true,
			errContains: "particles must be positive",
		},
		{
			name:        "catch-up rate above one",
			yamlContent: "motion:\n  catchUpRate: 1.5\n",
			wantErr:     true,
			errContains: "catchUpRate",
		},
		{
			name:        "bad color",
			yamlContent: "color: red\n",
			wantErr:     true,
			errContains: "#RRGGBB",
		},
		{
			name:        "inverted beacon range",
			yamlContent: "beacon:\n  near: 4\n  far: 2\n",
			wantErr:     true,
			errContains: "beacon range invalid",
		},
		{
			name:        "malformed yaml",
			yamlContent: "particles: [1, 2\n",
			wantErr:     true,
			errContains: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "particles.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yamlContent), 0o644))

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FF3366")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0xFF, G: 0x33, B: 0x66}, c)
	assert.Equal(t, "#FF3366", c.Hex())

	for _, bad := range []string{"", "FF3366", "#FF33", "#GG3366"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestPaletteIsParseable(t *testing.T) {
	for _, hex := range Palette {
		_, err := ParseHexColor(hex)
		assert.NoError(t, err, hex)
	}
}
