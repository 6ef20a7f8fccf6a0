// Package config holds process configuration and tuning constants. Values
// come from the environment (a .env file is loaded by main via godotenv);
// everything has a development default except the external backends, which
// are simply disabled when unset.
package config

import (
	"os"
	"time"
)

const (
	// DefaultBanDuration applies when the admin CLI bans without a duration.
	DefaultBanDuration = 24 * time.Hour

	// ReadTimeout/WriteTimeout guard the HTTP surface; upgraded websocket
	// connections are hijacked and not subject to them.
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second

	// TokenTTL is the lifetime of an issued anon-id token.
	TokenTTL = 72 * time.Hour
)

type Config struct {
	ListenAddr string
	JWTSecret  string

	// PostgresDSN enables the room audit trail when set.
	PostgresDSN string
	// RedisAddr enables the room-event mirror and ban flags when set.
	RedisAddr     string
	RedisPassword string

	// TelegramToken enables the Telegram front end when set.
	TelegramToken string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
