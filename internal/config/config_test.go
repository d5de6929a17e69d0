package config_test

import (
	"testing"

	"casino-miniapp-gateway/internal/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "defaults",
			env: map[string]string{
				"BOT_TOKEN":  "123:token",
				"JWT_SECRET": "secret",
			},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Env != "local" {
					t.Errorf("Expected env local, got %q", cfg.Env)
				}
				if cfg.Port != "8080" {
					t.Errorf("Expected port 8080, got %q", cfg.Port)
				}
				if cfg.MetricsPort != "9095" {
					t.Errorf("Expected metrics port 9095, got %q", cfg.MetricsPort)
				}
				if cfg.BotID != 1 {
					t.Errorf("Expected default bot id 1, got %d", cfg.BotID)
				}
				if cfg.GameAPIURL != "http://localhost:3000" {
					t.Errorf("Unexpected game api url %q", cfg.GameAPIURL)
				}
			},
		},
		{
			name: "full override",
			env: map[string]string{
				"BOT_TOKEN":    "123:token",
				"JWT_SECRET":   "secret",
				"ENV":          "production",
				"PORT":         "9000",
				"METRICS_PORT": "9100",
				"REDIS_ADDR":   "redis:6379",
				"REDIS_DB":     "2",
				"BOT_ID":       "42",
				"GAME_API_URL": "https://api.example.com",
			},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Env != "production" || cfg.Port != "9000" {
					t.Errorf("Overrides not applied: %+v", cfg)
				}
				if cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
					t.Errorf("Redis overrides not applied: %+v", cfg)
				}
				if cfg.BotID != 42 {
					t.Errorf("Expected bot id 42, got %d", cfg.BotID)
				}
			},
		},
		{
			name:    "missing bot token",
			env:     map[string]string{"JWT_SECRET": "secret"},
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			env:     map[string]string{"BOT_TOKEN": "123:token"},
			wantErr: true,
		},
		{
			name: "bad bot id",
			env: map[string]string{
				"BOT_TOKEN":  "123:token",
				"JWT_SECRET": "secret",
				"BOT_ID":     "not-a-number",
			},
			wantErr: true,
		},
		{
			name: "bad redis db",
			env: map[string]string{
				"BOT_TOKEN":  "123:token",
				"JWT_SECRET": "secret",
				"REDIS_DB":   "two",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"BOT_TOKEN", "JWT_SECRET", "ENV", "PORT", "METRICS_PORT",
				"REDIS_ADDR", "REDIS_PASS", "REDIS_DB", "BOT_ID", "GAME_API_URL",
			} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
