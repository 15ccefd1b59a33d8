// Package config reads service settings from the environment.
// A .env file, when present, is loaded first by the commands.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Port            string
	StoreBackend    string
	RedisAddr       string
	RedisPassword   string
	DatabaseURL     string
	ShutdownTimeout time.Duration
}

// Get returns the value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		StoreBackend:  strings.ToLower(Get("STORE_BACKEND", BackendMemory)),
		RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
	}

	timeout, err := time.ParseDuration(Get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: parse SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	switch cfg.StoreBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return Config{}, fmt.Errorf("load config: DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	default:
		return Config{}, fmt.Errorf("load config: unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}
