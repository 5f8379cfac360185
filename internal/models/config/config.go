package config

import "time"

// Config основной конфиг
type Config struct {
	Environment string
	HTTP        HTTPConfig
	API         APIConfig
	Session     SessionConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Bot         BotConfig
	Location    *time.Location
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

type HTTPConfig struct {
	Addr         string
	CookieSecure bool
}

// APIConfig описывает backend REST API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Backend string // memory, postgres, redis
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BotConfig struct {
	Token       string
	Debug       bool
	AdminIDs    []int64 // ID администраторов для уведомлений
	APIUsername string
	APIPassword string
}

func (b BotConfig) Enabled() bool {
	return b.Token != ""
}
