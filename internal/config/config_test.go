package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("DISLIKE_API_BASE_URL", "")
	t.Setenv("SESSION_SECURE_COOKIE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.YouTube.APIKey)
	assert.Equal(t, 10*time.Second, cfg.YouTube.Timeout)
	assert.Equal(t, "https://returnyoutubedislikeapi.com", cfg.Dislike.BaseURL)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 120*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Session.SecureCookie)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "key-123")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("DISLIKE_API_BASE_URL", "http://votes.local/")
	t.Setenv("SESSION_BACKEND", "REDIS")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SESSION_SECURE_COOKIE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.YouTube.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Dislike.Timeout)
	assert.Equal(t, "http://votes.local", cfg.Dislike.BaseURL)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.True(t, cfg.Session.SecureCookie)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Session: SessionConfig{Backend: SessionBackendMemory, Secret: "s3cret", TTL: time.Hour},
	}
	require.NoError(t, cfg.ValidateServer())

	cfg.Session.Secret = ""
	assert.Error(t, cfg.ValidateServer())

	cfg.Session.Secret = "s3cret"
	cfg.Session.Backend = "etcd"
	assert.Error(t, cfg.ValidateServer())

	cfg.Session.Backend = SessionBackendRedis
	cfg.Server.GinMode = "verbose"
	assert.Error(t, cfg.ValidateServer())
}
