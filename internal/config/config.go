package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	// Dedicated port for /metrics and /healthz.
	MetricsPort string

	RedisAddr string
	RedisPass string
	RedisDB   int

	// BotToken signs the Telegram initData check; BotID is the tenant
	// identifier forwarded to the game API on every call.
	BotToken string
	BotID    int64

	JWTSecret string

	GameAPIURL string
}

func Load() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	botID, err := parseInt64(getEnvOrDefault("BOT_ID", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOT_ID: %v", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}

	return &Config{
		Env:         getEnvOrDefault("ENV", "local"),
		Port:        getEnvOrDefault("PORT", "8080"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9095"),
		RedisAddr:   getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     redisDB,
		BotToken:    token,
		BotID:       botID,
		JWTSecret:   secret,
		GameAPIURL:  getEnvOrDefault("GAME_API_URL", "http://localhost:3000"),
	}, nil
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
