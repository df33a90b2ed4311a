package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/paths"
)

func newTestPaths(t *testing.T) paths.Paths {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(dir, "cache"))
	t.Setenv(paths.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(paths.EnvStateDir, filepath.Join(dir, "state"))
	return paths.New()
}

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(name, "")
	}
}

func TestDefaults(t *testing.T) {
	p := newTestPaths(t)
	clearLocaleEnv(t)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Retry.LoadAttempts)
	assert.Equal(t, 10, cfg.Retry.PersistAttempts)
	assert.Equal(t, 5, cfg.Retry.IntervalMS)
	assert.Empty(t, cfg.Host.Identifier)
	assert.Empty(t, cfg.Locale)
}

func TestUserFileOverridesDefaults(t *testing.T) {
	p := newTestPaths(t)
	clearLocaleEnv(t)

	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
	content := "locale = \"de-DE\"\n\n[retry]\nload_attempts = 3\n"
	require.NoError(t, os.WriteFile(p.ConfigFile(), []byte(content), 0644))

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "de-DE", cfg.Locale)
	assert.Equal(t, 3, cfg.Retry.LoadAttempts)
	// Untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Retry.PersistAttempts)
}

func TestEnvOverridesFile(t *testing.T) {
	p := newTestPaths(t)
	clearLocaleEnv(t)
	t.Setenv("SKEL_HOST_IDENTIFIER", "vs-mac")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "vs-mac", cfg.Host.Identifier)
}

func TestLocaleFromEnv(t *testing.T) {
	p := newTestPaths(t)
	clearLocaleEnv(t)
	t.Setenv("LANG", "pt_BR.UTF-8")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "pt_BR", cfg.Locale)
}

func TestPosixLocaleMeansNone(t *testing.T) {
	p := newTestPaths(t)
	clearLocaleEnv(t)
	t.Setenv("LC_ALL", "C")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Empty(t, cfg.Locale)
}
