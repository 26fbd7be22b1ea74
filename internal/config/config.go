package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ligustah/spritefetch/internal/progress"
)

// Config defines configuration for the spritefetch CLI.
type Config struct {
	Workers     int
	Limit       int
	Timeout     time.Duration
	Deadline    time.Duration
	MaxSize     int64
	Bucket      string
	Progress    bool
	Strict      bool
	StrictNames bool
	UserAgent   string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Workers: 10,
		Timeout: 30 * time.Second,
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes and durations.
type yamlConfig struct {
	Workers     int    `yaml:"workers"`
	Limit       int    `yaml:"limit"`
	Timeout     string `yaml:"timeout"`
	Deadline    string `yaml:"deadline"`
	MaxSize     string `yaml:"max_size"`
	Bucket      string `yaml:"bucket"`
	Progress    bool   `yaml:"progress"`
	Strict      bool   `yaml:"strict"`
	StrictNames bool   `yaml:"strict_names"`
	UserAgent   string `yaml:"user_agent"`
}

// LoadFromFile loads configuration from a YAML file on top of Default.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	cfg.Limit = yc.Limit
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.Deadline != "" {
		d, err := time.ParseDuration(yc.Deadline)
		if err != nil {
			return Config{}, fmt.Errorf("parse deadline: %w", err)
		}
		cfg.Deadline = d
	}
	if yc.MaxSize != "" {
		size, err := progress.ParseBytes(yc.MaxSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse max_size: %w", err)
		}
		cfg.MaxSize = size
	}
	cfg.Bucket = yc.Bucket
	cfg.Progress = yc.Progress
	cfg.Strict = yc.Strict
	cfg.StrictNames = yc.StrictNames
	cfg.UserAgent = yc.UserAgent

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SPRITEFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SPRITEFETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SPRITEFETCH_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("SPRITEFETCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SPRITEFETCH_LIMIT: %w", err)
		}
		c.Limit = n
	}
	if v := os.Getenv("SPRITEFETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SPRITEFETCH_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("SPRITEFETCH_DEADLINE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SPRITEFETCH_DEADLINE: %w", err)
		}
		c.Deadline = d
	}
	if v := os.Getenv("SPRITEFETCH_MAX_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse SPRITEFETCH_MAX_SIZE: %w", err)
		}
		c.MaxSize = size
	}
	if v := os.Getenv("SPRITEFETCH_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("SPRITEFETCH_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("SPRITEFETCH_STRICT"); v != "" {
		c.Strict = v == "true" || v == "1"
	}
	if v := os.Getenv("SPRITEFETCH_STRICT_NAMES"); v != "" {
		c.StrictNames = v == "true" || v == "1"
	}
	if v := os.Getenv("SPRITEFETCH_USER_AGENT"); v != "" {
		c.UserAgent = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Limit < 0 {
		return errors.New("config: limit must not be negative")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	if c.Deadline < 0 {
		return errors.New("config: deadline must not be negative")
	}
	if c.MaxSize < 0 {
		return errors.New("config: max_size must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Limit != 0 {
		c.Limit = override.Limit
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.Deadline != 0 {
		c.Deadline = override.Deadline
	}
	if override.MaxSize != 0 {
		c.MaxSize = override.MaxSize
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.Strict {
		c.Strict = override.Strict
	}
	if override.StrictNames {
		c.StrictNames = override.StrictNames
	}
	if override.UserAgent != "" {
		c.UserAgent = override.UserAgent
	}
	return c
}
