package tifoverlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/tifoverlay/grid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.Preview.Validate())

	spec, err := cfg.ClipSpec()
	require.NoError(t, err)
	assert.Equal(t, SelectedBoundary{Attribute: "COUNTRY", Value: "Malawi"}, spec)
	assert.Equal(t, grid.OverlayWins, cfg.Options().Rule)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
raster: in.tif
output: out/res.tif
rule: replace-by-mask
clip:
  bbox: [32, -18, 36, -9]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "in.tif", cfg.Raster)
	assert.Equal(t, "out/res.tif", cfg.Output)
	assert.Equal(t, DefaultConfig().Overlay, cfg.Overlay)
	assert.Equal(t, grid.ReplaceByMask, cfg.Rule)
	assert.Equal(t, ClipConfig{BBox: []float64{32, -18, 36, -9}}, cfg.Clip)

	spec, err := cfg.ClipSpec()
	require.NoError(t, err)
	assert.Equal(t, Rectangle{32, -18, 36, -9}, spec)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(writeConfig(t, "rule: merge\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(writeConfig(t, "raster: [1, 2\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no raster", func(c *Config) { c.Raster = "" }},
		{"no output", func(c *Config) { c.Output = "" }},
		{"bbox and selection", func(c *Config) { c.Clip.BBox = []float64{0, 0, 1, 1} }},
		{"selection without value", func(c *Config) { c.Clip.Value = "" }},
		{"inverted bbox", func(c *Config) { c.Clip = ClipConfig{BBox: []float64{1, 1, 0, 0}} }},
		{"short bbox", func(c *Config) { c.Clip = ClipConfig{BBox: []float64{1, 1}} }},
		{"unknown rule", func(c *Config) { c.Rule = grid.Rule(7) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestPreviewConfigValidate(t *testing.T) {
	p := DefaultConfig().Preview
	p.Scale = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidConfig)
	p = DefaultConfig().Preview
	p.Boundary = ""
	assert.ErrorIs(t, p.Validate(), ErrInvalidConfig)
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig("config.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigValidateEncoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoundaryEncoding = "1252"
	assert.NoError(t, cfg.Validate())
	cfg.BoundaryEncoding = "not-a-charset"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
