// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	App     AppConfig
	Dataset DatasetConfig
	Match   MatchConfig
	Prefs   PrefsConfig
	Auth    AuthConfig
	Log     LogConfig
}

type AppConfig struct {
	Environment string `validate:"required"`
	ServerAddr  string `validate:"required"`
}

type DatasetConfig struct {
	Sources        []string `validate:"required,min=1,dive,required"`
	Watch          bool
	TimeoutSeconds int `validate:"gte=1"`
}

type MatchConfig struct {
	Threshold       float64 `validate:"gte=0,lte=1"`
	Metric          string  `validate:"oneof=levenshtein token"`
	CacheTTLSeconds int     `validate:"gte=0"`
	CategoriesFile  string
}

type PrefsConfig struct {
	Backend string `validate:"oneof=bbolt sqlite memory"`
	Path    string
}

// AuthConfig is the literal demo login pair.
type AuthConfig struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type LogConfig struct {
	Level    string `validate:"oneof=debug info warn error"`
	FilePath string
}

// Load reads an optional .env file, then the environment, then validates.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		},
		Dataset: DatasetConfig{
			Sources:        getEnvAsList("DATASET_SOURCES", []string{"pairs_chunk_1.json"}),
			Watch:          getEnvAsBool("DATASET_WATCH", true),
			TimeoutSeconds: getEnvAsInt("DATASET_TIMEOUT_SECONDS", 30),
		},
		Match: MatchConfig{
			Threshold:       getEnvAsFloat("MATCH_THRESHOLD", 0.4),
			Metric:          strings.ToLower(getEnv("MATCH_METRIC", "levenshtein")),
			CacheTTLSeconds: getEnvAsInt("MATCH_CACHE_TTL_SECONDS", 300),
			CategoriesFile:  getEnv("CATEGORIES_FILE", ""),
		},
		Prefs: PrefsConfig{
			Backend: strings.ToLower(getEnv("PREFS_BACKEND", "bbolt")),
			Path:    getEnv("PREFS_PATH", "./data"),
		},
		Auth: AuthConfig{
			Username: getEnv("AUTH_USERNAME", "admin"),
			Password: getEnv("AUTH_PASSWORD", "admin123"),
		},
		Log: LogConfig{
			Level:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
			FilePath: getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProd reports whether the app runs in production mode.
func (c *Config) IsProd() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}

// LocalSources returns the dataset sources that are files on disk.
func (c *Config) LocalSources() []string {
	var out []string
	for _, s := range c.Dataset.Sources {
		lower := strings.ToLower(s)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			continue
		}
		out = append(out, s)
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
