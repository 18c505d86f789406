package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	YouTube YouTubeConfig
	Dislike DislikeConfig
	Server  ServerConfig
	Session SessionConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

type YouTubeConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type DislikeConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ServerConfig struct {
	Addr    string
	GinMode string
}

type SessionConfig struct {
	Backend      string
	Secret       string
	TTL          time.Duration
	SecureCookie bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LoggingConfig struct {
	Level string
	File  string
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout := time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second

	cfg := &Config{
		YouTube: YouTubeConfig{
			APIKey:   getEnv("YOUTUBE_API_KEY", ""),
			Endpoint: getEnv("YOUTUBE_API_ENDPOINT", ""),
			Timeout:  timeout,
		},
		Dislike: DislikeConfig{
			BaseURL: strings.TrimRight(getEnv("DISLIKE_API_BASE_URL", "https://returnyoutubedislikeapi.com"), "/"),
			Timeout: timeout,
		},
		Server: ServerConfig{
			Addr:    getEnv("SERVER_ADDR", ":8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
			Secret:  getEnv("SESSION_SECRET", ""),
			TTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,

			SecureCookie: getEnvBool("SESSION_SECURE_COOKIE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings every binary depends on. Server-only settings are
// checked by ValidateServer.
func (c *Config) Validate() error {
	if c.YouTube.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.Dislike.BaseURL == "" {
		return fmt.Errorf("DISLIKE_API_BASE_URL is required")
	}
	return nil
}

func (c *Config) ValidateServer() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	switch c.Server.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.Server.GinMode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
