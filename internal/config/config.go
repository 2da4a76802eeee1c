package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers accepted in storage.driver.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
	Session struct {
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
	Gemini struct {
		APIKey      string  `yaml:"apiKey"`
		BaseURL     string  `yaml:"baseUrl"`
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		Timeout     string  `yaml:"timeout"`
	} `yaml:"gemini"`
}

// Load reads YAML config from path. A missing file yields defaults so the CLI works out of the box.
// GEMINI_API_KEY (or API_KEY) overrides gemini.apiKey.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" && cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = key
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = "data/quizgenius.db"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
