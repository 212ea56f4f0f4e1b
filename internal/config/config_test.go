package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatsim/internal/heat"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heatsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, heat.DefaultConfig(), cfg.Heat())
	assert.NotEmpty(t, cfg.Layout().Base)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
simulation:
  dim: 256
  speed: 0.1
  heaters: false
observability:
  log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Simulation.Dim)
	assert.Equal(t, float32(0.1), cfg.Simulation.Speed)
	assert.Equal(t, heat.DefaultStepsPerFrame, cfg.Simulation.StepsPerFrame)
	assert.Equal(t, heat.EmptyLayout(), cfg.Layout())
	assert.Equal(t, "Heat", cfg.Window.Title)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "simulation: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "simulation:\n  dim: -1\n"))
	assert.ErrorContains(t, err, "simulation.dim")
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Dim = 0
	cfg.Simulation.MaxTemperature = 0
	cfg.Window.Scale = 0
	cfg.Observability.LogLevel = "loud"

	err := cfg.Validate()

	require.Error(t, err)
	for _, want := range []string{"simulation.dim", "max_temperature", "window.scale", "loud"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestValidate_AllowsUnstableSpeed(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Speed = 0.3

	assert.NoError(t, cfg.Validate())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
