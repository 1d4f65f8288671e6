package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type TelegramConfig struct {
	Token       string `yaml:"token" env:"BOT_TOKEN"`
	APIEndpoint string `yaml:"api_endpoint" env:"TELEGRAM_API_ENDPOINT"`
	RetryMax    int    `yaml:"retry_max" env:"TELEGRAM_RETRY_MAX"`
	WebhookURL  string `yaml:"webhook_url" env:"WEBHOOK_URL"`
	// WebhookSecret по умолчанию выводится из токена.
	WebhookSecret string `yaml:"webhook_secret" env:"WEBHOOK_SECRET"`
}

type CaptchaConfig struct {
	Timeout  time.Duration `yaml:"timeout" env:"CAPTCHA_TIMEOUT"`
	MaxSwaps int           `yaml:"max_swaps" env:"CAPTCHA_MAX_SWAPS"`
}

type SchedulerConfig struct {
	Backend      string        `yaml:"backend" env:"SCHEDULER_BACKEND"`
	PollInterval time.Duration `yaml:"poll_interval" env:"SCHEDULER_POLL_INTERVAL"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"database"`
	Store struct {
		Backend string `yaml:"backend" env:"STORE_BACKEND"`
		// PurgeInterval: как часто удалять просроченные сессии.
		PurgeInterval time.Duration `yaml:"purge_interval" env:"STORE_PURGE_INTERVAL"`
	} `yaml:"store"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Captcha   CaptchaConfig   `yaml:"captcha"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Community is the username of the protected chat, without "@".
	Community string `yaml:"community" env:"COMMUNITY"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	Debug     bool   `yaml:"debug" env:"DEBUG"`
}

// Load reads path (missing file is fine), then .env, then the environment on top.
// The result is not validated.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Community = strings.TrimPrefix(strings.TrimSpace(c.Community), "@")
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendPostgres
	}
	if c.Store.PurgeInterval <= 0 {
		c.Store.PurgeInterval = 10 * time.Minute
	}
	if c.Scheduler.Backend == "" {
		c.Scheduler.Backend = BackendPostgres
	}
	if c.Scheduler.PollInterval <= 0 {
		c.Scheduler.PollInterval = 5 * time.Second
	}
	if c.Captcha.Timeout <= 0 {
		c.Captcha.Timeout = 15 * time.Minute
	}
	if c.Captcha.MaxSwaps <= 0 {
		c.Captcha.MaxSwaps = 8
	}
	if c.Telegram.WebhookSecret == "" {
		// secret_token допускает только A-Z a-z 0-9 _ -
		c.Telegram.WebhookSecret = strings.ReplaceAll(c.Telegram.Token, ":", "_")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
		if c.Debug {
			c.LogLevel = "debug"
		}
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram token is required (BOT_TOKEN)"))
	}
	if c.Community == "" {
		errs = append(errs, errors.New("community username is required (COMMUNITY)"))
	}
	backends := []struct{ name, value string }{
		{"store", c.Store.Backend},
		{"scheduler", c.Scheduler.Backend},
	}
	for _, b := range backends {
		switch b.value {
		case BackendPostgres:
			if c.Database.DSN == "" {
				errs = append(errs, fmt.Errorf("%s backend postgres needs DATABASE_URL", b.name))
			}
		case BackendMemory:
		default:
			errs = append(errs, fmt.Errorf("unknown %s backend %q", b.name, b.value))
		}
	}
	return errors.Join(errs...)
}

// NeedsDatabase reports whether any backend is postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Store.Backend == BackendPostgres || c.Scheduler.Backend == BackendPostgres
}
