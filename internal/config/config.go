package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
)

const defaultAPIURL = "http://localhost:8080"

// APIConfig はEventWave APIへの接続設定です
type APIConfig struct {
	BaseURL      string
	BypassHeader string
	BypassValue  string
	UserAgent    string
}

// Config はCLIの設定です
type Config struct {
	API       APIConfig
	TokenFile string
	Locale    string
}

// Load は .env と環境変数から設定を読み込みます
func Load() (*Config, error) {
	LoadDotEnv()

	return &Config{
		API:       LoadAPI(),
		TokenFile: getEnvOrDefault("EVENTWAVE_TOKEN_FILE", defaultTokenFile()),
		Locale:    getEnvOrDefault("EVENTWAVE_LOCALE", "en"),
	}, nil
}

// LoadAPI はAPI接続設定を読み込みます
// EVENTWAVE_BYPASS_HEADER は "名前" または "名前: 値" の形式です
func LoadAPI() APIConfig {
	cfg := APIConfig{
		BaseURL:      strings.TrimRight(getEnvOrDefault("EVENTWAVE_API_URL", defaultAPIURL), "/"),
		BypassHeader: gateway.DefaultBypassHeader,
		BypassValue:  gateway.DefaultBypassValue,
		UserAgent:    os.Getenv("EVENTWAVE_USER_AGENT"),
	}

	if raw := strings.TrimSpace(os.Getenv("EVENTWAVE_BYPASS_HEADER")); raw != "" {
		name, value, found := strings.Cut(raw, ":")
		cfg.BypassHeader = strings.TrimSpace(name)
		if found {
			cfg.BypassValue = strings.TrimSpace(value)
		}
	}

	return cfg
}

// LoadDotEnv はカレントディレクトリの .env を環境変数に読み込みます
// 既に設定されている環境変数は上書きしません
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".eventwave-token"
	}
	return filepath.Join(dir, "eventwave", "token")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	log.Printf("Environment variable %s is not set, using default value", key)
	return defaultValue
}
