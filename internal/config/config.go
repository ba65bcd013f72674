package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the client's settings.
type Config struct {
	API     APIConfig
	Log     LogConfig
	DataDir string
}

// APIConfig describes the backend endpoints.
type APIConfig struct {
	BaseURL string
	AuthURL string
	Timeout time.Duration
}

// LogConfig describes the file-backed logger. The terminal belongs to the
// interface, so logs never go to stdout.
type LogConfig struct {
	File  string
	Level string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dataDir, err := loadDataDir()
	if err != nil {
		return nil, err
	}

	api, err := loadAPIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		API:     api,
		Log:     loadLogConfig(dataDir),
		DataDir: dataDir,
	}, nil
}

func loadAPIConfig() (APIConfig, error) {
	base := getEnvOrDefault("API_BASE_URL", "http://127.0.0.1:8000")
	auth := getEnvOrDefault("AUTH_BASE_URL", base)

	seconds := 30
	if override, err := parseOptionalIntEnv("HTTP_TIMEOUT_SECONDS"); err != nil {
		return APIConfig{}, err
	} else if override != nil {
		if *override <= 0 {
			return APIConfig{}, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS value: %d", *override)
		}
		seconds = *override
	}

	return APIConfig{
		BaseURL: base,
		AuthURL: auth,
		Timeout: time.Duration(seconds) * time.Second,
	}, nil
}

func loadDataDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("LEGALAID_DATA_DIR")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".legalaid"), nil
}

func loadLogConfig(dataDir string) LogConfig {
	return LogConfig{
		File:  getEnvOrDefault("LOG_FILE", filepath.Join(dataDir, "legalaid.log")),
		Level: getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
