package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every knob of the news API service.
type Config struct {
	AppName  string
	BindAddr string

	DefaultLimit int
	MaxLimit     int

	FeedTimeout    time.Duration
	PreviewTimeout time.Duration
	PreviewWorkers int

	RateLimit  int
	RateWindow time.Duration
}

// Load builds the service config from environment variables.
func Load() (*Config, error) {
	c := &Config{
		AppName:        getEnv("APP_NAME", "ArkWork"),
		BindAddr:       getEnv("API_BIND_ADDR", "0.0.0.0:4000"),
		DefaultLimit:   getInt("NEWS_DEFAULT_LIMIT", 20),
		MaxLimit:       getInt("NEWS_MAX_LIMIT", 50),
		FeedTimeout:    getDuration("NEWS_FEED_TIMEOUT", "8s"),
		PreviewTimeout: getDuration("NEWS_PREVIEW_TIMEOUT", "5s"),
		PreviewWorkers: getInt("NEWS_PREVIEW_WORKERS", 5),
		RateLimit:      getInt("API_RATE_LIMIT", 120),
		RateWindow:     getDuration("API_RATE_WINDOW", "1m"),
	}

	if c.DefaultLimit <= 0 {
		return nil, fmt.Errorf("NEWS_DEFAULT_LIMIT must be positive")
	}
	if c.MaxLimit <= 0 {
		return nil, fmt.Errorf("NEWS_MAX_LIMIT must be positive")
	}
	if c.DefaultLimit > c.MaxLimit {
		return nil, fmt.Errorf("NEWS_DEFAULT_LIMIT cannot exceed NEWS_MAX_LIMIT")
	}
	if c.FeedTimeout <= 0 {
		return nil, fmt.Errorf("NEWS_FEED_TIMEOUT must be positive")
	}
	if c.PreviewTimeout <= 0 {
		return nil, fmt.Errorf("NEWS_PREVIEW_TIMEOUT must be positive")
	}
	if c.PreviewWorkers <= 0 {
		return nil, fmt.Errorf("NEWS_PREVIEW_WORKERS must be positive")
	}
	if c.RateLimit <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT must be positive")
	}
	if c.RateWindow <= 0 {
		return nil, fmt.Errorf("API_RATE_WINDOW must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
