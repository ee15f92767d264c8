package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"GEMINI_API_KEY", "API_KEY", "PORT", "SERVER_PORT", "CONFIG_FILE",
		"GEMINI_MODEL", "ANALYSIS_SCORING_DELAY", "SERVER_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Gemini.Model)
	assert.True(t, cfg.Gemini.WebSearch)
	assert.InDelta(t, 0.7, cfg.Gemini.Temperature, 0.0001)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.Analysis.ResearchingDelay)
	assert.Equal(t, 3500*time.Millisecond, cfg.Analysis.ScoringDelay)
	assert.Equal(t, 120*time.Second, cfg.Analysis.RequestTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	isolate(t)

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("ANALYSIS_SCORING_DELAY", "5s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 5*time.Second, cfg.Analysis.ScoringDelay)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	yaml := []byte(`
gemini:
  api_key: from-file
  model: gemini-2.5-pro
analysis:
  researching_delay: 200ms
  scoring_delay: 400ms
logging:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 200*time.Millisecond, cfg.Analysis.ResearchingDelay)
	assert.Equal(t, 400*time.Millisecond, cfg.Analysis.ScoringDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate_DelayOrdering(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: "8080"},
		Gemini: GeminiConfig{APIKey: "k"},
		Analysis: AnalysisConfig{
			ResearchingDelay: 3 * time.Second,
			ScoringDelay:     time.Second,
			RequestTimeout:   time.Minute,
		},
	}
	assert.Error(t, cfg.Validate())

	cfg.Analysis.ScoringDelay = 4 * time.Second
	assert.NoError(t, cfg.Validate())
}
