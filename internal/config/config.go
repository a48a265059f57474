package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Log      LogConfig
	Theme    string
	Username string
	Password string
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	Burst     int
}

type LogConfig struct {
	File  string
	Debug bool
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	timeout, err := getEnvInt("TODO_HTTP_TIMEOUT_SEC", 30)
	if err != nil {
		return Config{}, err
	}
	rps, err := getEnvFloat("TODO_API_RPS", 0)
	if err != nil {
		return Config{}, err
	}
	burst, err := getEnvInt("TODO_API_BURST", 1)
	if err != nil {
		return Config{}, err
	}
	debug, err := getEnvBool("DEBUG", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		API: APIConfig{
			BaseURL:   getEnv("TODO_API_URL", "http://localhost:8000"),
			Timeout:   time.Duration(timeout) * time.Second,
			RateLimit: rps,
			Burst:     burst,
		},
		Log: LogConfig{
			File:  getEnv("TODO_LOG_FILE", ""),
			Debug: debug,
		},
		Theme:    getEnv("TODO_THEME", "classic"),
		Username: os.Getenv("TODO_USERNAME"),
		Password: os.Getenv("TODO_PASSWORD"),
	}

	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("TODO_API_URL must be an http(s) URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout < 0 {
		return Config{}, fmt.Errorf("TODO_HTTP_TIMEOUT_SEC must be >= 0")
	}
	if cfg.API.RateLimit < 0 {
		return Config{}, fmt.Errorf("TODO_API_RPS must be >= 0")
	}
	if cfg.API.Burst < 1 {
		return Config{}, fmt.Errorf("TODO_API_BURST must be >= 1")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
