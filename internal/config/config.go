package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// OpenWeatherMap provider configuration.
	APIKey          string
	ProviderBaseURL string
	IconBaseURL     string
	ProviderTimeout time.Duration
	RateLimit       float64
	RateBurst       int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration

	// Lookup history; disabled when DBPath is empty.
	DBPath       string
	HistoryLimit int
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding the environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	providerTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("PROVIDER_TIMEOUT", "10s"))
	if err != nil || providerTimeout < 0 {
		return nil, errors.New("invalid PROVIDER_TIMEOUT")
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("PROVIDER_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit < 0 {
		return nil, errors.New("invalid PROVIDER_RATE_LIMIT")
	}

	rateBurst, err := strconv.Atoi(sharedcfg.EnvOrDefault("PROVIDER_RATE_BURST", "5"))
	if err != nil || rateBurst < 1 {
		return nil, errors.New("invalid PROVIDER_RATE_BURST")
	}

	sessionTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("SESSION_TTL", "30m"))
	if err != nil || sessionTTL <= 0 {
		return nil, errors.New("invalid SESSION_TTL")
	}

	historyLimit, err := strconv.Atoi(sharedcfg.EnvOrDefault("HISTORY_LIMIT", "10"))
	if err != nil || historyLimit < 1 || historyLimit > 100 {
		return nil, errors.New("invalid HISTORY_LIMIT: must be between 1 and 100")
	}

	cfg := &Config{
		APIKey:          os.Getenv("OPENWEATHER_API_KEY"),
		ProviderBaseURL: sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		IconBaseURL:     sharedcfg.EnvOrDefault("OPENWEATHER_ICON_URL", "https://openweathermap.org/img/wn"),
		ProviderTimeout: providerTimeout,
		RateLimit:       rateLimit,
		RateBurst:       rateBurst,
		HTTPAddr:        httpAddr(),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		SessionTTL:      sessionTTL,
		DBPath:          os.Getenv("DB_PATH"),
		HistoryLimit:    historyLimit,
	}

	return cfg, nil
}

// httpAddr prefers HTTP_ADDR, then PORT, then :8080.
func httpAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}
