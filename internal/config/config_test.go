package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "gemini", cfg.LLM.Provider)
	require.Equal(t, "https://www.mobafire.com", cfg.Scrape.BaseURL)
	require.Equal(t, 0.75, cfg.Vision.ConfidenceThreshold)
	require.Equal(t, "2s", cfg.Monitor.Interval)
	require.True(t, cfg.Data.WatchReload)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Name, cfg.Name)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
llm:
  model: gemini-2.5-pro
  timeout: 45s
scrape:
  concurrency: 8
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	require.Equal(t, "45s", cfg.LLM.Timeout)
	require.Equal(t, 8, cfg.Scrape.Concurrency)
	// Untouched sections keep their defaults.
	require.Equal(t, "https://www.mobafire.com", cfg.Scrape.BaseURL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("TFT_DATA_DIR", "/tmp/tftdata")
	t.Setenv("TFT_DEBUG", "true")
	t.Setenv("GEMINI_TIMEOUT", "10s")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.LLM.APIKey)
	require.Equal(t, "/tmp/tftdata", cfg.Data.Dir)
	require.True(t, cfg.Logging.Debug)
	require.Equal(t, "10s", cfg.LLM.Timeout)
}

func TestEnvOverrideRejectsBadDuration(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT", "not a duration")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "30s", cfg.LLM.Timeout)
}

func TestSaveBlanksAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "secret"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "secret")

	// The in-memory config keeps the key.
	require.Equal(t, "secret", cfg.LLM.APIKey)
}

func TestDuration(t *testing.T) {
	require.Equal(t, 5*time.Second, Duration("5s", time.Minute))
	require.Equal(t, time.Minute, Duration("", time.Minute))
	require.Equal(t, time.Minute, Duration("garbage", time.Minute))
}
