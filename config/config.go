package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, read from environment variables.
type Config struct {
	HTTPAddr          string
	CatalogSource     string
	HistoryWindow     int
	GeminiAPIKey      string
	GeminiAPIURL      string
	GeminiTimeout     time.Duration
	GeminiMaxAttempts int
}

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// Load reads configuration from the environment. GEMINI_API_KEY is the only
// required variable; everything else has a default.
func Load() (Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required in environment")
	}

	return Config{
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		CatalogSource:     envOrDefault("CATALOG_SOURCE", "data/products.csv"),
		HistoryWindow:     envIntOrDefault("HISTORY_WINDOW", 5),
		GeminiAPIKey:      apiKey,
		GeminiAPIURL:      envOrDefault("GEMINI_API_URL", defaultGeminiURL),
		GeminiTimeout:     time.Duration(envIntOrDefault("GEMINI_TIMEOUT_SECONDS", 15)) * time.Second,
		GeminiMaxAttempts: envIntOrDefault("GEMINI_MAX_ATTEMPTS", 2),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
