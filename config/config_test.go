package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CATALOG_SOURCE", "")
	t.Setenv("HISTORY_WINDOW", "")
	t.Setenv("GEMINI_API_URL", "")
	t.Setenv("GEMINI_TIMEOUT_SECONDS", "")
	t.Setenv("GEMINI_MAX_ATTEMPTS", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "data/products.csv", cfg.CatalogSource)
	assert.Equal(t, 5, cfg.HistoryWindow)
	assert.Equal(t, defaultGeminiURL, cfg.GeminiAPIURL)
	assert.Equal(t, 15*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, 2, cfg.GeminiMaxAttempts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("HISTORY_WINDOW", "8")
	t.Setenv("GEMINI_TIMEOUT_SECONDS", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 8, cfg.HistoryWindow)
	assert.Equal(t, 3*time.Second, cfg.GeminiTimeout)
}

func TestLoadIgnoresUnparsableInts(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("HISTORY_WINDOW", "not-a-number")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.HistoryWindow)
}
