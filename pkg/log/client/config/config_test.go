package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bascanada/admintail/pkg/log/client"
	"github.com/bascanada/admintail/pkg/ty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
url: http://localhost:8000
backlog: 250
autoscroll: false
level: error
printer:
  template: "{{.Message}}"
  color: false
stream:
  initial-backoff: 1s
  max-backoff: 10s
status:
  interval: 5s
headers:
  X-Proxy: abc
`)

	cfg, resolved, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", s.URL)
	assert.Equal(t, 250, s.Backlog)
	assert.False(t, s.AutoScroll)
	assert.Equal(t, client.LevelError, s.Level)
	assert.Equal(t, "{{.Message}}", s.Template)
	require.NotNil(t, s.Color)
	assert.False(t, *s.Color)
	assert.Equal(t, time.Second, s.InitialBackoff)
	assert.Equal(t, 10*time.Second, s.MaxBackoff)
	assert.Equal(t, 5*time.Second, s.StatusInterval)
	assert.Equal(t, "abc", s.Headers["X-Proxy"])
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"url": "example.com", "backlog": 10}`)

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com", cfg.URL.Value)
	assert.Equal(t, 10, cfg.Backlog.Value)
}

func TestLoadErrors(t *testing.T) {
	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "url: [unclosed")
		_, _, err := Load(path)
		assert.ErrorIs(t, err, ErrConfigParse)
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeFile(t, "config.yml", "stream:\n  max-backoff: soon\n")
		_, _, err := Load(path)
		assert.ErrorIs(t, err, ErrConfigParse)
	})

	t.Run("unknown format", func(t *testing.T) {
		path := writeFile(t, "config.txt", "url: [")
		_, _, err := Load(path)
		assert.ErrorIs(t, err, ErrConfigParse)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("env path missing", func(t *testing.T) {
		t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "nope.yaml"))
		_, _, err := Load("")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestLoadDefaultMissing(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), DefaultConfigDir, DefaultConfigFile), path)

	_, err = cfg.Settings()
	assert.ErrorIs(t, err, ErrNoBaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, "custom.yaml", "url: http://env.test\n")
	t.Setenv(EnvConfigPath, path)

	cfg, resolved, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.Equal(t, "http://env.test", cfg.URL.Value)
}

func TestSettingsDefaults(t *testing.T) {
	cfg := &Config{URL: ty.OptWrap("http://x")}
	s, err := cfg.Settings()
	require.NoError(t, err)

	assert.Equal(t, client.DefaultBacklog, s.Backlog)
	assert.True(t, s.AutoScroll)
	assert.Equal(t, client.LevelAll, s.Level)
	assert.Nil(t, s.Color)
	assert.Equal(t, 500*time.Millisecond, s.InitialBackoff)
	assert.Equal(t, 30*time.Second, s.MaxBackoff)
	assert.Equal(t, 15*time.Second, s.StatusInterval)
}

func TestSettingsInvalidLevel(t *testing.T) {
	cfg := &Config{URL: ty.OptWrap("http://x"), Level: ty.OptWrap("LOUD")}
	_, err := cfg.Settings()
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestMerge(t *testing.T) {
	base := &Config{
		URL:     ty.OptWrap("http://file"),
		Backlog: ty.OptWrap(50),
		Headers: ty.MS{"A": "1"},
	}
	flags := &Config{
		URL:     ty.OptWrap("http://flag"),
		Level:   ty.OptWrap("INFO"),
		Headers: ty.MS{"B": "2"},
	}
	base.Merge(flags)
	base.Merge(nil)

	assert.Equal(t, "http://flag", base.URL.Value)
	assert.Equal(t, 50, base.Backlog.Value)
	assert.Equal(t, "INFO", base.Level.Value)
	assert.Equal(t, ty.MS{"A": "1", "B": "2"}, base.Headers)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{
		URL:        ty.OptWrap("http://saved"),
		AutoScroll: ty.OptWrap(false),
		Stream:     Stream{MaxBackoff: ty.OptWrap(ty.Duration(5 * time.Second))},
	}
	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "backlog")
	assert.Contains(t, string(raw), "max-backoff: 5s")

	loaded, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved", loaded.URL.Value)
	assert.False(t, loaded.AutoScroll.Or(true))
	assert.Equal(t, 5*time.Second, loaded.Stream.MaxBackoff.Value.D())
}
