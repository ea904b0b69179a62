package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr            string
	CommerceAPIBase string
	UpstreamTimeout time.Duration
	JWTSecret       string
	RedisAddr       string
	SessionTTL      time.Duration
	DefaultCountry  string
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	base := os.Getenv("COMMERCE_API_BASE")
	if base == "" {
		base = "http://localhost:3000"
	}

	country := os.Getenv("DEFAULT_COUNTRY")
	if country == "" {
		country = "India"
	}

	return Config{
		Addr:            addr,
		CommerceAPIBase: base,
		UpstreamTimeout: time.Duration(intEnv("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		SessionTTL:      time.Duration(intEnv("SESSION_TTL_HOURS", 72)) * time.Hour,
		DefaultCountry:  country,
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
