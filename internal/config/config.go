package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Export targets supported by EXPORT_TARGET.
const (
	ExportTargetFile   = "file"
	ExportTargetSQLite = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	ChemLLMBaseURL string
	ModelID        string
	RequestTimeout time.Duration
	StatusTimeout  time.Duration

	DefaultMaxLength   int
	DefaultTemperature float64
	DefaultTopP        float64

	ExportTarget string
	ExportDir    string
	ExportHTML   bool
	DBPath       string

	LogLevel  slog.Level
	LogFormat string
	LogFile   string

	StubPort        string
	StubModelStatus string
	StubLatency     time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or one of its parents, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		ChemLLMBaseURL:  strings.TrimRight(getEnv("CHEMLLM_BASE_URL", "http://localhost:5000"), "/"),
		ModelID:         getEnv("CHEMLLM_MODEL_ID", "ChemLLM-7B-Chat-1.5-DPO"),
		ExportTarget:    strings.ToLower(getEnv("EXPORT_TARGET", ExportTargetFile)),
		ExportDir:       getEnv("EXPORT_DIR", "./exports"),
		DBPath:          getEnv("DB_PATH", "./data/chemchat.db"),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogFile:         getEnv("LOG_FILE", "./data/chemchat.log"),
		StubPort:        getEnv("STUB_PORT", "5000"),
		StubModelStatus: getEnv("STUB_MODEL_STATUS", "loaded"),
	}

	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.StatusTimeout, err = parseDuration("STATUS_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.StubLatency, err = time.ParseDuration(getEnv("STUB_LATENCY", "0s")); err != nil {
		return nil, fmt.Errorf("STUB_LATENCY must be a valid duration: %w", err)
	}

	// Generation defaults mirror the ChemLLM route defaults.
	cfg.DefaultMaxLength, err = strconv.Atoi(getEnv("DEFAULT_MAX_LENGTH", "512"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_MAX_LENGTH must be a valid integer: %w", err)
	}
	if cfg.DefaultMaxLength <= 0 {
		return nil, fmt.Errorf("DEFAULT_MAX_LENGTH must be greater than 0")
	}
	cfg.DefaultTemperature, err = strconv.ParseFloat(getEnv("DEFAULT_TEMPERATURE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TEMPERATURE must be a valid number: %w", err)
	}
	if cfg.DefaultTemperature < 0 || cfg.DefaultTemperature > 2 {
		return nil, fmt.Errorf("DEFAULT_TEMPERATURE must be between 0 and 2")
	}
	cfg.DefaultTopP, err = strconv.ParseFloat(getEnv("DEFAULT_TOP_P", "0.9"), 64)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TOP_P must be a valid number: %w", err)
	}
	if cfg.DefaultTopP < 0 || cfg.DefaultTopP > 1 {
		return nil, fmt.Errorf("DEFAULT_TOP_P must be between 0 and 1")
	}

	cfg.ExportHTML, err = strconv.ParseBool(getEnv("EXPORT_HTML", "false"))
	if err != nil {
		return nil, fmt.Errorf("EXPORT_HTML must be a boolean: %w", err)
	}
	if cfg.ExportTarget != ExportTargetFile && cfg.ExportTarget != ExportTargetSQLite {
		return nil, fmt.Errorf("EXPORT_TARGET must be %q or %q", ExportTargetFile, ExportTargetSQLite)
	}

	cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json")
	}

	// Create the data directories used by the database and the log file.
	for _, p := range []string{cfg.DBPath, cfg.LogFile} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// parseDuration reads a positive duration from the environment.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
