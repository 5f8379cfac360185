package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DatabaseConfig конфигурация БД для хранилища сессий
type DatabaseConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Name, d.SSLMode,
	)
}

// Load загружает конфигурацию. Файл .env читается, если он есть.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	env := getEnv("APP_ENV", "development")

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Europe/Moscow"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		Environment: env,
		HTTP: HTTPConfig{
			Addr:         getEnv("HTTP_ADDR", ":8080"),
			CookieSecure: getEnvAsBool("COOKIE_SECURE", env == "production"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000/api"), "/"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
			TTL:     getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Username: getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "sambo-admin"),
			SSLMode:  getSSLMode(env),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Bot: BotConfig{
			Token:       getEnv("BOT_TOKEN", ""),
			Debug:       getEnvAsBool("BOT_DEBUG", env != "production"),
			AdminIDs:    parseAdminIDs(getEnv("ADMIN_IDS", "")),
			APIUsername: getEnv("BOT_API_USERNAME", ""),
			APIPassword: getEnv("BOT_API_PASSWORD", ""),
		},
		Location: loc,
	}

	return cfg, cfg.validate()
}

// validate проверяет обязательные параметры
func (c *Config) validate() error {
	var errors []string

	if c.API.BaseURL == "" {
		errors = append(errors, "API_BASE_URL is required")
	}

	switch c.Session.Backend {
	case "memory":
	case "postgres":
		if c.Database.Username == "" {
			errors = append(errors, "DB_USER is required for postgres sessions")
		}
		if c.Database.Password == "" && c.IsProduction() {
			errors = append(errors, "DB_PASSWORD is required in production")
		}
	case "redis":
		if c.Redis.Addr == "" {
			errors = append(errors, "REDIS_ADDR is required for redis sessions")
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown SESSION_BACKEND %q", c.Session.Backend))
	}

	if c.Bot.Enabled() {
		if len(c.Bot.AdminIDs) == 0 {
			errors = append(errors, "ADMIN_IDS is required when BOT_TOKEN is set")
		}
		if c.Bot.APIUsername == "" || c.Bot.APIPassword == "" {
			errors = append(errors, "BOT_API_USERNAME and BOT_API_PASSWORD are required when BOT_TOKEN is set")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, ", "))
	}

	return nil
}

// getSSLMode возвращает режим SSL в зависимости от окружения
func getSSLMode(env string) string {
	if env == "production" {
		return "require"
	}
	return "disable"
}

// parseAdminIDs парсит список ID администраторов
func parseAdminIDs(ids string) []int64 {
	if ids == "" {
		return []int64{}
	}

	var result []int64
	for _, idStr := range strings.Split(ids, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
