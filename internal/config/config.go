package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings the admin client starts with. Every field can be
// set from the environment or a .env file; main lets flags override them.
type Config struct {
	BaseURL     string
	APIKey      string
	Email       string
	Timeout     time.Duration
	RateLimit   float64
	AutoRefresh time.Duration
	LogLevel    string
}

// Load reads .env files if present and then the environment. Missing keys
// take their defaults; malformed ones are an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}

	cfg := Config{
		BaseURL:  strings.TrimRight(Getenv("WGC_URL", "http://localhost:8081"), "/"),
		APIKey:   os.Getenv("WGC_API_KEY"),
		Email:    os.Getenv("WGC_EMAIL"),
		LogLevel: Getenv("WGC_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Timeout, err = getDuration("WGC_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.AutoRefresh, err = getDuration("WGC_AUTO_REFRESH", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = getFloat("WGC_RATE_LIMIT", 0); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks the values Load cannot default away.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("WGC_URL must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("WGC_URL must start with http:// or https://, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("WGC_TIMEOUT must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("WGC_RATE_LIMIT must not be negative")
	}
	if c.AutoRefresh < 0 {
		return fmt.Errorf("WGC_AUTO_REFRESH must not be negative")
	}
	return nil
}

func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
