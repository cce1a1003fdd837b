package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config is sourced entirely from the environment. BotToken is the
// only required value; the bot refuses to start without it.
type Config struct {
	BotToken     string
	SelfURL      string
	Port         int
	DBPath       string
	CatalogURL   string
	CatalogTTL   time.Duration
	PingInterval time.Duration
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", 10000)
	v.SetDefault("DB_PATH", "practice.db")
	v.SetDefault("CATALOG_URL", "https://codeforces.com/api/problemset.problems")
	v.SetDefault("CATALOG_TTL", time.Hour)
	v.SetDefault("PING_INTERVAL", 10*time.Minute)

	v.AutomaticEnv()

	cfg := &Config{
		BotToken:     v.GetString("BOT_TOKEN"),
		SelfURL:      v.GetString("SELF_URL"),
		Port:         v.GetInt("PORT"),
		DBPath:       v.GetString("DB_PATH"),
		CatalogURL:   v.GetString("CATALOG_URL"),
		CatalogTTL:   v.GetDuration("CATALOG_TTL"),
		PingInterval: v.GetDuration("PING_INTERVAL"),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}

	return cfg, nil
}
