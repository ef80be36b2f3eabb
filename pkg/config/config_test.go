package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.RetryTimeout)
	assert.Equal(t, "", cfg.TempDirParent)
	assert.Equal(t, "testscope-", cfg.TempDirPattern)
	assert.Equal(t, 0, cfg.MockReturnCode)
}

func TestLoadUserFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()

	dir := filepath.Join(configHome, "testscope")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "[retry]\ntimeout = \"5s\"\n\n[tempdir]\npattern = \"custom-\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.RetryTimeout)
	assert.Equal(t, "custom-", cfg.TempDirPattern)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0, cfg.MockReturnCode)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()

	dir := filepath.Join(configHome, "testscope")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[retry]\ntimeout = \"5s\"\n"), 0o644))

	t.Setenv("TESTSCOPE_RETRY_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.RetryTimeout)
}
