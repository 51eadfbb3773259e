package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "gibt-es-nicht.json"))
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "openai", cfg.DefaultProvider)
	assert.Equal(t, 5, cfg.HistoryLimit)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.ServerPort = "9090"
	cfg.DefaultProvider = "gemini"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", loaded.ServerPort)
	assert.Equal(t, "gemini", loaded.DefaultProvider)
}

func TestAPIKeysFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "g-test")

	cfg, _ := Load(filepath.Join(t.TempDir(), "gibt-es-nicht.json"))
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "g-test", cfg.GeminiKey)
}

func TestHistoryLimitNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.HistoryLimit = -1
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.HistoryLimit)
}
