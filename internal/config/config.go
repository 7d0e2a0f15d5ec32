package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// Config represents the streak configuration
type Config struct {
	User     string `yaml:"user"`
	Timezone string `yaml:"timezone"` // IANA name, empty means the system zone
	DBPath   string `yaml:"db_path"`

	Log   LogConfig   `yaml:"log"`
	Redis RedisConfig `yaml:"redis"`
	HTTP  HTTPConfig  `yaml:"http"`
	Sync  SyncConfig  `yaml:"sync"`
	Quiz  QuizConfig  `yaml:"quiz"`
}

// LogConfig configures the rolling log file.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// RedisConfig configures the analytics cache. An empty Addr selects the
// in-process cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// HTTPConfig configures `streak serve`.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RatePerSecond  float64  `yaml:"rate_per_second"`
	Burst          int      `yaml:"burst"`
}

// SyncConfig configures background recomputation.
type SyncConfig struct {
	Schedule    string        `yaml:"schedule"` // cron spec
	WindowDelay time.Duration `yaml:"window_delay"`
}

// QuizConfig configures the Recovery Challenge.
type QuizConfig struct {
	Questions int `yaml:"questions"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.User == "" {
		c.User = "default"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 6 * time.Hour
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = "127.0.0.1:8080"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.HTTP.RatePerSecond == 0 {
		c.HTTP.RatePerSecond = 5
	}
	if c.HTTP.Burst == 0 {
		c.HTTP.Burst = 10
	}
	if c.Sync.Schedule == "" {
		c.Sync.Schedule = "0 */6 * * *"
	}
	if c.Sync.WindowDelay == 0 {
		c.Sync.WindowDelay = 500 * time.Millisecond
	}
	if c.Quiz.Questions == 0 {
		c.Quiz.Questions = 3
	}
}

// DefaultDir returns ~/.streak.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".streak"), nil
}

// LoadConfig reads config.yaml from dir, applies defaults for unset fields
// and then environment overrides. A missing file is not an error.
func LoadConfig(dir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dir, "streak.db")
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from STREAK_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("STREAK_USER"); v != "" {
		c.User = v
	}
	if v := getenv("STREAK_TZ"); v != "" {
		c.Timezone = v
	}
	if v := getenv("STREAK_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := getenv("STREAK_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := getenv("STREAK_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := getenv("STREAK_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := getenv("STREAK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("STREAK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := getenv("STREAK_SYNC_SCHEDULE"); v != "" {
		c.Sync.Schedule = v
	}
	if v := getenv("STREAK_SYNC_WINDOW_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STREAK_SYNC_WINDOW_DELAY: %w", err)
		}
		c.Sync.WindowDelay = d
	}
	if v := getenv("STREAK_QUIZ_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid STREAK_QUIZ_QUESTIONS %q", v)
		}
		c.Quiz.Questions = n
	}
	return nil
}

// Location resolves Timezone; empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SaveConfig writes config.yaml to dir
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
