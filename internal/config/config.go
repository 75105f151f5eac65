package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// Config keeps runtime settings for the CLI and the bot.
type Config struct {
	TelegramToken      string `mapstructure:"telegram_token"`
	DatabaseURL        string `mapstructure:"database_url"`
	DefaultOwner       string `mapstructure:"default_owner"`
	AlertTime          string `mapstructure:"alert_time"`
	AlertIntervalHours int    `mapstructure:"alert_interval_hours"`
	UrgentPreview      int    `mapstructure:"urgent_preview"`
	Timezone           string `mapstructure:"timezone"`
}

// DefaultPath is where Load looks for a config file when none is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tasktracker", "config.yaml")
}

// Load reads settings from defaults, a config file and the environment, in
// increasing order of precedence. An empty path falls back to DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("telegram_token", "")
	v.SetDefault("database_url", repository.DefaultDSN)
	v.SetDefault("default_owner", model.DefaultOwner)
	v.SetDefault("alert_time", "09:00")
	v.SetDefault("alert_interval_hours", 0)
	v.SetDefault("urgent_preview", 4)
	v.SetDefault("timezone", "")

	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = repository.DefaultDSN
	}
	cfg.DefaultOwner = strings.TrimSpace(cfg.DefaultOwner)
	if cfg.DefaultOwner == "" {
		cfg.DefaultOwner = model.DefaultOwner
	}
	if cfg.AlertIntervalHours < 0 {
		return Config{}, fmt.Errorf("alert_interval_hours must not be negative")
	}
	if cfg.UrgentPreview <= 0 {
		cfg.UrgentPreview = 4
	}

	return cfg, nil
}

// RequireTelegram fails when the bot cannot start.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return nil
}

// AlertInterval is the periodic alert cadence; zero disables it.
func (c Config) AlertInterval() time.Duration {
	return time.Duration(c.AlertIntervalHours) * time.Hour
}

// Location resolves Timezone, falling back to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
