package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config process-wide settings, read once at startup and never changed.
type Config struct {
	Telegram Telegram
	Rates    Rates
	News     News
	HTTP     HTTP
	Log      Log
}

type Telegram struct {
	Token string `env:"TELEGRAM_TOKEN" env-required:"true" env-description:"Telegram bot token"`
	// UpdateTimeout bounds the handling of one chat update
	UpdateTimeout time.Duration `env:"TELEGRAM_UPDATE_TIMEOUT" env-default:"30s"`
}

type Rates struct {
	URL     string        `env:"RATES_URL" env-default:"https://www.cbr.ru/scripts/XML_daily.asp"`
	Timeout time.Duration `env:"RATES_TIMEOUT" env-default:"5s"`
}

type News struct {
	APIKey  string        `env:"NEWS_API_KEY" env-required:"true" env-description:"NewsAPI key"`
	URL     string        `env:"NEWS_URL" env-default:"https://newsapi.org/v2/everything"`
	Query   string        `env:"NEWS_QUERY" env-default:"Санкт-Петербург"`
	Limit   int           `env:"NEWS_LIMIT" env-default:"3"`
	Timeout time.Duration `env:"NEWS_TIMEOUT" env-default:"5s"`
}

type HTTP struct {
	// Addr of the ops server, empty disables it
	Addr string `env:"HTTP_ADDR" env-default:":8080"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads the configuration from the environment.
// A missing token or API key is an error.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return nil, errors.New("TELEGRAM_TOKEN is empty")
	}
	if strings.TrimSpace(cfg.News.APIKey) == "" {
		return nil, errors.New("NEWS_API_KEY is empty")
	}
	if cfg.News.Limit <= 0 {
		return nil, fmt.Errorf("NEWS_LIMIT must be positive, got %d", cfg.News.Limit)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("unknown LOG_LEVEL %q", cfg.Log.Level)
	}
	return &cfg, nil
}

// Usage describes every environment variable.
func Usage() string {
	description, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return err.Error()
	}
	return description
}
