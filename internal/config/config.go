// Package config loads spritesort settings from an optional YAML file and
// SPRITESORT_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SourceDir string        `yaml:"source_dir"`
	DestDir   string        `yaml:"dest_dir"`
	API       APIConfig     `yaml:"api"`
	Rules     []RuleConfig  `yaml:"rules"`
	Inspect   bool          `yaml:"inspect"`
	Log       LogConfig     `yaml:"log"`
	Publish   PublishConfig `yaml:"publish"`
}

type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`     // "10s"
	Concurrency int           `yaml:"concurrency"` // max lookups in flight
	RateLimit   float64       `yaml:"rate_limit"`  // requests per second, 0 = unlimited
	Burst       int           `yaml:"burst"`
	Retries     int           `yaml:"retries"`
	UserAgent   string        `yaml:"user_agent"`
}

type RuleConfig struct {
	Category   string   `yaml:"category"`
	Attributes []string `yaml:"attributes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

type PublishConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	AccessKey   string `yaml:"access_key"`
	SecretKey   string `yaml:"secret_key"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	UseSSL      bool   `yaml:"use_ssl"`
	Parallelism int    `yaml:"parallelism"`
}

// GetDefaults returns a copy with zero fields filled in.
func (c Config) GetDefaults() Config {
	if c.DestDir == "" {
		c.DestDir = "_SORTED_SPRITES"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://pokeapi.co/api/v2/pokemon"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.API.Concurrency <= 0 {
		c.API.Concurrency = 50
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Publish.Parallelism <= 0 {
		c.Publish.Parallelism = 8
	}
	return c
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.API.Retries < 0 {
		return errors.New("api.retries must not be negative")
	}
	if c.API.RateLimit < 0 {
		return errors.New("api.rate_limit must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	if c.Publish.Enabled {
		if c.Publish.Endpoint == "" {
			return errors.New("publish.endpoint is required when publish is enabled")
		}
		if c.Publish.Bucket == "" {
			return errors.New("publish.bucket is required when publish is enabled")
		}
	}
	return nil
}

// Load reads path (skipped when empty), applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg = cfg.GetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(c *Config) {
	c.SourceDir = getEnv("SPRITESORT_SOURCE_DIR", c.SourceDir)
	c.DestDir = getEnv("SPRITESORT_DEST_DIR", c.DestDir)
	c.Inspect = getEnvBool("SPRITESORT_INSPECT", c.Inspect)

	c.API.BaseURL = getEnv("SPRITESORT_API_BASE_URL", c.API.BaseURL)
	c.API.Timeout = getEnvDuration("SPRITESORT_API_TIMEOUT", c.API.Timeout)
	c.API.Concurrency = getEnvInt("SPRITESORT_API_CONCURRENCY", c.API.Concurrency)
	c.API.RateLimit = getEnvFloat("SPRITESORT_API_RATE_LIMIT", c.API.RateLimit)
	c.API.Burst = getEnvInt("SPRITESORT_API_BURST", c.API.Burst)
	c.API.Retries = getEnvInt("SPRITESORT_API_RETRIES", c.API.Retries)
	c.API.UserAgent = getEnv("SPRITESORT_API_USER_AGENT", c.API.UserAgent)

	c.Log.Level = getEnv("SPRITESORT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("SPRITESORT_LOG_FORMAT", c.Log.Format)

	c.Publish.Enabled = getEnvBool("SPRITESORT_PUBLISH", c.Publish.Enabled)
	c.Publish.Endpoint = getEnv("MINIO_ENDPOINT", c.Publish.Endpoint)
	c.Publish.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Publish.AccessKey)
	c.Publish.SecretKey = getEnv("MINIO_SECRET_KEY", c.Publish.SecretKey)
	c.Publish.Bucket = getEnv("MINIO_BUCKET", c.Publish.Bucket)
	c.Publish.Region = getEnv("MINIO_REGION", c.Publish.Region)
	c.Publish.UseSSL = getEnvBool("MINIO_USE_SSL", c.Publish.UseSSL)
	c.Publish.Prefix = getEnv("SPRITESORT_PUBLISH_PREFIX", c.Publish.Prefix)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
