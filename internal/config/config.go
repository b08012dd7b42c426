package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	LogLevel       string
	StaticDir      string
	AllowedOrigin  string
	CacheType      string
	CacheLRUTiles  int
	CacheTTL       time.Duration
	PendingTimeout time.Duration
	SendBuffer     int
	MaxMessageSize int64
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnvInt("PORT", 5000),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StaticDir:      getEnv("STATIC_DIR", "public"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", ""),
		CacheType:      getEnv("CACHE", "memory"),
		CacheLRUTiles:  getEnvInt("CACHE_LRU_TILES", 2000),
		CacheTTL:       getEnvDuration("CACHE_TTL", 10*time.Minute),
		PendingTimeout: getEnvDuration("PENDING_TIMEOUT", 30*time.Second),
		SendBuffer:     getEnvInt("CLIENT_SEND_BUFFER", 256),
		MaxMessageSize: getEnvInt64("MAX_MESSAGE_SIZE", 4194304), // 4MB, tiles ship as base64
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
