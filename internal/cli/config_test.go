package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"mode: geomedian\nweights: [0.1, 0.2]\nlimits:\n  - \"w_0<1.0\"\n"), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "geomedian", cfg.Mode)
	assert.Equal(t, []float64{0.1, 0.2}, cfg.Weights)
	assert.Equal(t, []string{"w_0<1.0"}, cfg.Limits)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: min\n"), 0644))
	t.Setenv(configEnv, path)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "min", cfg.Mode)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: [unclosed"), 0644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}
