package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/nfehr/enviroctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 5
capacity = 320
default_fill = 0.0
rotation = 180
display = "temperature"
progress = true
sleep = 120
unit_temps = "F"
rounding = 2
temp_comp = 1.5
log_level = "debug"
metrics = true
database = "/path/to/metrics.db"
`)
	configPath := filepath.Join(tempDir, "enviroctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROCTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Interval, "Expected Interval 5")
	assert.Equal(t, 320, cfg.Capacity, "Expected Capacity 320")
	assert.Equal(t, 0.0, cfg.DefaultFill, "Expected DefaultFill 0.0")
	assert.Equal(t, 180, cfg.Rotation, "Expected Rotation 180")
	assert.Equal(t, "temperature", cfg.Display, "Expected Display temperature")
	assert.True(t, cfg.Progress, "Expected Progress true")
	assert.Equal(t, 120, cfg.Sleep, "Expected Sleep 120")
	assert.Equal(t, "F", cfg.TempUnit, "Expected TempUnit F")
	assert.Equal(t, 2, cfg.Rounding, "Expected Rounding 2")
	assert.Equal(t, 1.5, cfg.TempComp, "Expected TempComp 1.5")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Metrics, "Expected Metrics true")
	assert.Equal(t, "/path/to/metrics.db", cfg.Database, "Expected Database /path/to/metrics.db")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIROCTL_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval, "Expected default Interval")
	assert.Equal(t, config.DefaultCapacity, cfg.Capacity, "Expected default Capacity")
	assert.Equal(t, 1.0, cfg.DefaultFill, "Expected default DefaultFill 1.0")
	assert.Equal(t, 0, cfg.Rotation, "Expected default Rotation 0")
	assert.Equal(t, "text", cfg.Display, "Expected default Display text")
	assert.False(t, cfg.Progress, "Expected default Progress false")
	assert.Equal(t, config.DefaultSleep, cfg.Sleep, "Expected default Sleep")
	assert.Equal(t, "C", cfg.TempUnit, "Expected default TempUnit C")
	assert.Equal(t, config.DefaultTempComp, cfg.TempComp, "Expected default TempComp")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.False(t, cfg.Metrics, "Expected default Metrics false")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "enviroctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "enviroctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestInvalidRotation(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
rotation = 45
`)
	configPath := filepath.Join(tempDir, "enviroctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid display rotation")
}

func TestInvalidDisplayMode(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
display = "barometer"
`)
	configPath := filepath.Join(tempDir, "enviroctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid display mode")
}

func TestInvalidTempUnit(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
unit_temps = "R"
`)
	configPath := filepath.Join(tempDir, "enviroctl.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROCTL_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown unit of measure")
}

func TestLogLevelFlag(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Setenv("ENVIROCTL_CONFIG", "")
	os.Args = []string{"cmd", "--log-level", "debug"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}

func TestDisplayModeFlag(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Setenv("ENVIROCTL_CONFIG", "")
	os.Args = []string{"cmd", "--dmode", "humidity", "--progress"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "humidity", cfg.Display, "Expected Display to be set by flag")
	assert.True(t, cfg.Progress, "Expected Progress to be set by flag")
}
