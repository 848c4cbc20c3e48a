// Package config provides application configuration management.
// It loads settings from CASMATE_ environment variables (optionally from a
// .env file) and provides defaults for the server, the CLI and the matcher.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/garyellow/casmate/internal/engine"
	"github.com/garyellow/casmate/internal/resolver"
	"github.com/garyellow/casmate/internal/storage"
	"github.com/garyellow/casmate/internal/stringutil"
)

// Catalog sources.
const (
	SourceFiles  = "files"
	SourceSQLite = "sqlite"
)

// ValidationMode selects which settings are required.
type ValidationMode int

const (
	// ServerMode validates everything the HTTP server needs.
	ServerMode ValidationMode = iota
	// CLIMode skips listener and credential settings.
	CLIMode
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	// Catalog Configuration
	DataDir       string // Directory holding the table files
	AliasesPath   string // Alias YAML override (empty = data dir, then embedded)
	CatalogSource string // "files" or "sqlite"
	SQLitePath    string // SQLite mirror used by the sqlite source and export

	// Dialogue Configuration
	SessionTTL             time.Duration // Pending clarification lifetime
	SessionCleanupInterval time.Duration
	FinanceOfficeURL       string

	// Chat Rate Limit (per client IP; 0 disables)
	ChatRatePerMinute float64
	ChatBurst         float64

	// Matcher Configuration
	Matcher MatcherConfig

	// Sentry (Better Stack Errors)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack Logs
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// AdminToken guards /admin/reload (empty = endpoint disabled)
	AdminToken string
}

// MatcherConfig holds the resolver cutoffs. Scores are 0-100.
type MatcherConfig struct {
	HighCutoff          int
	CodeCutoff          int
	SuggestCutoff       int
	AmbiguityMargin     int
	SubsetTitleCoverage float64
	SuggestionLimit     int
	SingularizeMinLen   int
}

// Load reads configuration for the server.
func Load() (*Config, error) {
	return LoadForMode(ServerMode)
}

// LoadForMode reads configuration from environment variables and validates
// it for mode. It attempts to load a .env file first.
func LoadForMode(mode ValidationMode) (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	th := resolver.DefaultThresholds()
	dataDir := getEnv(EnvDataDir, "./data")

	cfg := &Config{
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		RequestTimeout:  getDurationEnv(EnvRequestTimeout, RequestProcessing),

		DataDir:       dataDir,
		AliasesPath:   getEnv(EnvAliasesPath, ""),
		CatalogSource: strings.ToLower(getEnv(EnvCatalogSource, SourceFiles)),
		SQLitePath:    getEnv(EnvSQLitePath, filepath.Join(dataDir, "catalog.db")),

		SessionTTL:             getDurationEnv(EnvSessionTTL, SessionTTL),
		SessionCleanupInterval: getDurationEnv(EnvSessionCleanupInterval, SessionCleanupInterval),
		FinanceOfficeURL:       getEnv(EnvFinanceOfficeURL, "facebook.com/NWUFinance"),

		ChatRatePerMinute: getFloatEnv(EnvChatRatePerMinute, 30),
		ChatBurst:         getFloatEnv(EnvChatBurst, 10),

		Matcher: MatcherConfig{
			HighCutoff:          getIntEnv(EnvFuzzyHighCutoff, th.HighConfidence),
			CodeCutoff:          getIntEnv(EnvFuzzyCodeCutoff, th.FuzzyCode),
			SuggestCutoff:       getIntEnv(EnvSuggestCutoff, th.Suggest),
			AmbiguityMargin:     getIntEnv(EnvAmbiguityMargin, th.AmbiguityMargin),
			SubsetTitleCoverage: getFloatEnv(EnvSubsetTitleCoverage, th.SubsetTitleCoverage),
			SuggestionLimit:     getIntEnv(EnvSuggestionLimit, th.SuggestionLimit),
			SingularizeMinLen:   getIntEnv(EnvSingularizeMinLen, stringutil.DefaultSingularizeMinLen),
		},

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		AdminToken: getEnv(EnvAdminToken, ""),
	}

	if err := cfg.ValidateForMode(mode); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for server mode.
func (c *Config) Validate() error {
	return c.ValidateForMode(ServerMode)
}

// ValidateForMode collects every problem instead of stopping at the first.
func (c *Config) ValidateForMode(mode ValidationMode) error {
	var errs []error

	if mode == ServerMode {
		if c.Port == "" {
			errs = append(errs, fmt.Errorf("%s is required", EnvPort))
		} else if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
			errs = append(errs, fmt.Errorf("%s must be a port number, got %q", EnvPort, c.Port))
		}
		if c.ShutdownTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
		}
		if c.RequestTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvRequestTimeout, c.RequestTimeout))
		}
		if c.SessionTTL <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSessionTTL, c.SessionTTL))
		}
		if c.SessionCleanupInterval <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSessionCleanupInterval, c.SessionCleanupInterval))
		}
		if c.ChatRatePerMinute < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", EnvChatRatePerMinute, c.ChatRatePerMinute))
		}
		if c.ChatRatePerMinute > 0 && c.ChatBurst < 1 {
			errs = append(errs, fmt.Errorf("%s must be at least 1 when rate limiting is on, got %v", EnvChatBurst, c.ChatBurst))
		}
		if c.SentryToken != "" && c.SentryHost == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s is set", EnvSentryHost, EnvSentryToken))
		}
	}

	switch c.CatalogSource {
	case SourceFiles:
		if c.DataDir == "" {
			errs = append(errs, fmt.Errorf("%s is required", EnvDataDir))
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, fmt.Errorf("%s is required for the sqlite source", EnvSQLitePath))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q", EnvCatalogSource, SourceFiles, SourceSQLite, c.CatalogSource))
	}

	if err := c.Matcher.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("matcher: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the cutoffs are in range and consistently ordered.
func (m MatcherConfig) Validate() error {
	var errs []error
	for _, f := range []struct {
		key string
		v   int
	}{
		{EnvFuzzyHighCutoff, m.HighCutoff},
		{EnvFuzzyCodeCutoff, m.CodeCutoff},
		{EnvSuggestCutoff, m.SuggestCutoff},
		{EnvAmbiguityMargin, m.AmbiguityMargin},
	} {
		if f.v < 0 || f.v > 100 {
			errs = append(errs, fmt.Errorf("%s must be within 0-100, got %d", f.key, f.v))
		}
	}
	if m.SuggestCutoff > m.HighCutoff {
		errs = append(errs, fmt.Errorf("%s (%d) cannot exceed %s (%d)", EnvSuggestCutoff, m.SuggestCutoff, EnvFuzzyHighCutoff, m.HighCutoff))
	}
	if m.SubsetTitleCoverage <= 0 || m.SubsetTitleCoverage > 1 {
		errs = append(errs, fmt.Errorf("%s must be within (0, 1], got %v", EnvSubsetTitleCoverage, m.SubsetTitleCoverage))
	}
	if m.SuggestionLimit <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvSuggestionLimit, m.SuggestionLimit))
	}
	if m.SingularizeMinLen < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvSingularizeMinLen, m.SingularizeMinLen))
	}
	return errors.Join(errs...)
}

// Thresholds converts the matcher settings for the resolver.
func (m MatcherConfig) Thresholds() resolver.Thresholds {
	return resolver.Thresholds{
		HighConfidence:      m.HighCutoff,
		FuzzyCode:           m.CodeCutoff,
		Suggest:             m.SuggestCutoff,
		AmbiguityMargin:     m.AmbiguityMargin,
		SubsetTitleCoverage: m.SubsetTitleCoverage,
		SuggestionLimit:     m.SuggestionLimit,
	}
}

// EngineOptions returns the build options for engine bundles.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Thresholds: c.Matcher.Thresholds(),
		Normalizer: stringutil.Normalizer{SingularizeMinLen: c.Matcher.SingularizeMinLen},
	}
}

// Source returns the configured catalog source.
func (c *Config) Source() storage.Source {
	if c.CatalogSource == SourceSQLite {
		return storage.SQLiteSource{Path: c.SQLitePath}
	}
	return storage.FileSource{Dir: c.DataDir, AliasesPath: c.AliasesPath}
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
