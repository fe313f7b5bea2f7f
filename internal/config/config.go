// Package config assembles server settings from an optional YAML file and
// the environment. Environment variables (including those loaded from .env)
// win over the file; the file wins over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// VectorsConfig selects the Vector Source.
type VectorsConfig struct {
	// Source is one of "hash", "text", "bundle", "openai".
	Source string `yaml:"source"`
	// Path of the vector file for "text" and "bundle".
	Path string `yaml:"path"`
	// Dim is the vector length for "hash" (and the request size for "openai").
	Dim int `yaml:"dim"`
	// Cache persists resolved vectors in SQLite.
	Cache  bool         `yaml:"cache"`
	OpenAI OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig configures the OpenAI-compatible embedder.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EngineConfig tunes the proximity engine.
type EngineConfig struct {
	CacheSize    int `yaml:"cache_size"`
	BuildWorkers int `yaml:"build_workers"`
}

// Config is the root configuration.
type Config struct {
	Port         string        `yaml:"port"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"` // "json" | "console"
	ClientOrigin string        `yaml:"client_origin"`
	DBPath       string        `yaml:"db_path"`
	CorpusFile   string        `yaml:"corpus_file"` // empty => embedded list
	SessionTTL   time.Duration `yaml:"session_ttl"`
	DailySalt    string        `yaml:"daily_salt"`

	JWTSecret      string `yaml:"jwt_secret"`
	JWTExpiresDays int    `yaml:"jwt_expires_days"`
	CookieName     string `yaml:"cookie_name"`
	Production     bool   `yaml:"production"`

	Vectors VectorsConfig `yaml:"vectors"`
	Engine  EngineConfig  `yaml:"engine"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Port:           "5175",
		LogLevel:       "info",
		LogFormat:      "json",
		ClientOrigin:   "http://localhost:3000",
		DBPath:         "./data/closeword.db",
		SessionTTL:     24 * time.Hour,
		DailySalt:      "local_dev_salt",
		JWTExpiresDays: 14,
		CookieName:     "closeword_token",
		Vectors: VectorsConfig{
			Source: "hash",
			Dim:    300,
			OpenAI: OpenAIConfig{
				APIKeyEnv:   "OPENAI_API_KEY",
				Model:       "text-embedding-3-small",
				TimeoutSecs: 30,
			},
		},
		Engine: EngineConfig{CacheSize: 256, BuildWorkers: 8},
	}
}

// Load reads path (a missing file is not an error) and applies environment
// overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would only fail later and less clearly.
func (c *Config) Validate() error {
	switch c.Vectors.Source {
	case "hash", "openai":
	case "text", "bundle":
		if c.Vectors.Path == "" {
			return fmt.Errorf("config: vector source %q needs VECTOR_PATH", c.Vectors.Source)
		}
	default:
		return fmt.Errorf("config: unknown vector source %q", c.Vectors.Source)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// JWTTTL is the token lifetime.
func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// OpenAIKey reads the API key from the configured environment variable.
func (c *Config) OpenAIKey() string {
	return os.Getenv(c.Vectors.OpenAI.APIKeyEnv)
}

func applyEnv(c *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	var firstErr error
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("config: %s: %w", key, err)
			}
			if err == nil {
				*dst = n
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("config: %s: %w", key, err)
			}
			if err == nil {
				*dst = b
			}
		}
	}

	str("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("CLIENT_ORIGIN", &c.ClientOrigin)
	str("DB_PATH", &c.DBPath)
	str("CORPUS_FILE", &c.CorpusFile)
	str("DAILY_SALT", &c.DailySalt)
	str("JWT_SECRET", &c.JWTSecret)
	num("JWT_EXPIRES_DAYS", &c.JWTExpiresDays)
	str("COOKIE_NAME", &c.CookieName)
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if os.Getenv("NODE_ENV") == "production" {
		c.Production = true
	}

	str("VECTOR_SOURCE", &c.Vectors.Source)
	str("VECTOR_PATH", &c.Vectors.Path)
	num("VECTOR_DIM", &c.Vectors.Dim)
	boolean("VECTOR_CACHE", &c.Vectors.Cache)
	str("OPENAI_BASE_URL", &c.Vectors.OpenAI.BaseURL)
	str("OPENAI_API_KEY_ENV", &c.Vectors.OpenAI.APIKeyEnv)
	str("OPENAI_MODEL", &c.Vectors.OpenAI.Model)

	num("RANKING_CACHE_SIZE", &c.Engine.CacheSize)
	num("BUILD_WORKERS", &c.Engine.BuildWorkers)
	return firstErr
}
