package app

import (
	"context"
	"fmt"

	"github.com/kapu/youtube-analyzer-go/internal/adapter"
	"github.com/kapu/youtube-analyzer-go/internal/analyzer"
	"github.com/kapu/youtube-analyzer-go/internal/config"
	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/server"
	"github.com/kapu/youtube-analyzer-go/internal/service/assets"
	"github.com/kapu/youtube-analyzer-go/internal/service/cache"
	"github.com/kapu/youtube-analyzer-go/internal/service/dislike"
	"github.com/kapu/youtube-analyzer-go/internal/service/pulse"
	"github.com/kapu/youtube-analyzer-go/internal/service/session"
	"github.com/kapu/youtube-analyzer-go/internal/service/youtube"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like the
// HTTP server and the one-shot CLI.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	YouTube   *youtube.YouTubeService
	Dislikes  *dislike.Client
	Analyzer  *analyzer.Analyzer
	Assets    *assets.Fetcher
	Formatter *adapter.ResponseFormatter

	closers []func()
}

// Build assembles the analysis services. Session storage is created separately
// because only the server needs a shared backend.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	youtubeSvc := youtube.NewYouTubeService(youtube.Config{
		Endpoint: cfg.YouTube.Endpoint,
		Timeout:  cfg.YouTube.Timeout,
	}, logger)

	dislikeClient := dislike.NewClient(cfg.Dislike.BaseURL, cfg.Dislike.Timeout, logger)
	pulseAnalyzer := pulse.NewAnalyzer(youtubeSvc, logger)

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		YouTube:   youtubeSvc,
		Dislikes:  dislikeClient,
		Analyzer:  analyzer.New(youtubeSvc, youtubeSvc, dislikeClient, pulseAnalyzer, logger),
		Assets:    assets.NewFetcher(constants.APIConfig.AssetTimeout, logger),
		Formatter: adapter.NewResponseFormatter(),
	}

	logger.Info("Analysis services assembled",
		zap.Bool("fallback_key", cfg.YouTube.APIKey != ""),
		zap.String("dislike_api", cfg.Dislike.BaseURL))

	return c, nil
}

// NewSessionManager opens the configured session backend.
func (c *Container) NewSessionManager(ctx context.Context) (*session.Manager, error) {
	var store session.Store

	switch c.Config.Session.Backend {
	case config.SessionBackendRedis:
		cacheSvc, err := cache.NewCacheService(ctx, cache.CacheConfig{
			Host:     c.Config.Redis.Host,
			Port:     c.Config.Redis.Port,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		}, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", err)
		}
		c.closers = append(c.closers, func() {
			_ = cacheSvc.Close()
		})
		store = session.NewRedisStore(cacheSvc)
	default:
		store = session.NewMemoryStore()
	}

	c.Logger.Info("Session store ready", zap.String("backend", c.Config.Session.Backend))
	return session.NewManager(store, c.Config.YouTube.APIKey, c.Config.Session.TTL, c.Logger), nil
}

// NewServer wires the HTTP server on top of the assembled services.
func (c *Container) NewServer(ctx context.Context) (*server.Server, error) {
	if err := c.Config.ValidateServer(); err != nil {
		return nil, err
	}

	manager, err := c.NewSessionManager(ctx)
	if err != nil {
		return nil, err
	}

	return server.New(server.Config{
		Addr:          c.Config.Server.Addr,
		SessionSecret: c.Config.Session.Secret,
		SessionTTL:    c.Config.Session.TTL,
		SecureCookie:  c.Config.Session.SecureCookie,
	}, server.Deps{
		Sessions:  manager,
		Reports:   c.Analyzer,
		Metadata:  c.YouTube,
		Assets:    c.Assets,
		Formatter: c.Formatter,
		Quota:     c.YouTube,
		Breaker:   c.Dislikes,
	}, c.Logger), nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
