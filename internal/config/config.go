package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Suggestion providers.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds the configuration for the application.
type Config struct {
	RecipesDir      string
	ProfilePath     string
	ConstraintsPath string
	PlansDir        string
	DatabasePath    string

	SuggestionProvider string
	SuggestionTimeout  time.Duration
	GeminiAPIKey       string
	GroqAPIKey         string

	Seed     uint64
	LogLevel string
}

// NewFromEnv creates a new Config object from environment variables.
// Every setting has a default; only malformed values are errors.
func NewFromEnv() (*Config, error) {
	provider := strings.ToLower(getEnv("MEALPREP_SUGGESTION_PROVIDER", ProviderGroq))
	if provider != ProviderGroq && provider != ProviderGemini {
		return nil, fmt.Errorf("MEALPREP_SUGGESTION_PROVIDER environment variable must be %q or %q, got %q", ProviderGroq, ProviderGemini, provider)
	}

	timeout, err := time.ParseDuration(getEnv("MEALPREP_SUGGESTION_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("MEALPREP_SUGGESTION_TIMEOUT environment variable is not a valid duration: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("MEALPREP_SUGGESTION_TIMEOUT environment variable must be positive")
	}

	seed, err := strconv.ParseUint(getEnv("MEALPREP_SEED", "42"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("MEALPREP_SEED environment variable is not a valid seed: %w", err)
	}

	return &Config{
		RecipesDir:         getEnv("MEALPREP_RECIPES_DIR", "recipes"),
		ProfilePath:        getEnv("MEALPREP_PROFILE", "profile.md"),
		ConstraintsPath:    getEnv("MEALPREP_CONSTRAINTS", "constraints.yaml"),
		PlansDir:           getEnv("MEALPREP_PLANS_DIR", "plans"),
		DatabasePath:       getEnv("MEALPREP_DB_PATH", "data/mealprep.db"),
		SuggestionProvider: provider,
		SuggestionTimeout:  timeout,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		Seed:               seed,
		LogLevel:           getEnv("MEALPREP_LOG_LEVEL", "info"),
	}, nil
}

// SuggestionAPIKey returns the credential of the selected provider, empty when unset.
func (c *Config) SuggestionAPIKey() string {
	if c.SuggestionProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.GroqAPIKey
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
