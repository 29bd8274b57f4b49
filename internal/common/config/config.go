package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `envconfig:"PORT" default:"3000"`
	Environment  string `envconfig:"ENV" default:"development"`
	ReadTimeout  int    `envconfig:"READ_TIMEOUT" default:"10"`
	WriteTimeout int    `envconfig:"WRITE_TIMEOUT" default:"10"`

	DBPath         string   `envconfig:"PLANNER_DB_PATH" default:"data/db/planner.db"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	// Геометрия
	MiterLimit   float64 `envconfig:"MITER_LIMIT" default:"10"`
	RoomMaxSteps int     `envconfig:"ROOM_MAX_STEPS" default:"0"`
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.MiterLimit <= 0 {
		return nil, fmt.Errorf("MITER_LIMIT must be positive, got %v", cfg.MiterLimit)
	}
	if cfg.RoomMaxSteps < 0 {
		return nil, fmt.Errorf("ROOM_MAX_STEPS must not be negative, got %d", cfg.RoomMaxSteps)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// SlogLevel разбирает LOG_LEVEL (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
