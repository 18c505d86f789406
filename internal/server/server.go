package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/kapu/youtube-analyzer-go/internal/adapter"
	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/service/assets"
	"github.com/kapu/youtube-analyzer-go/internal/util"
	"go.uber.org/zap"
)

type SessionManager interface {
	Start(ctx context.Context, id, credential, targetURL string) (*domain.Session, error)
	Load(ctx context.Context, id string) (*domain.Session, error)
	Terminate(ctx context.Context, id string) (*domain.Session, error)
}

type ReportRunner interface {
	Run(ctx context.Context, s *domain.Session, includeChannel bool) (*domain.Report, error)
}

type MetadataFetcher interface {
	FetchVideo(ctx context.Context, credential string, id domain.VideoID) (*domain.VideoMetrics, error)
	FetchProfilePicURL(ctx context.Context, credential, channelID string) (string, error)
}

type AssetFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*assets.Asset, error)
}

type QuotaReporter interface {
	QuotaStatus() (used int, resetTime time.Time)
}

type BreakerReporter interface {
	BreakerStatus() util.CircuitBreakerStatus
}

// Deps are the collaborators the HTTP handlers call into. Quota and Breaker are
// optional and only feed the health endpoint.
type Deps struct {
	Sessions  SessionManager
	Reports   ReportRunner
	Metadata  MetadataFetcher
	Assets    AssetFetcher
	Formatter *adapter.ResponseFormatter
	Quota     QuotaReporter
	Breaker   BreakerReporter
}

type Config struct {
	Addr          string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookie  bool
}

type Server struct {
	cfg    Config
	deps   Deps
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

func New(cfg Config, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Formatter == nil {
		deps.Formatter = adapter.NewResponseFormatter()
	}

	s := &Server{cfg: cfg, deps: deps, logger: logger}
	s.router = s.buildRouter()
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	store := cookie.NewStore([]byte(s.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionConfig.CookieName, store))

	r.GET("/health", s.handleHealth)

	r.POST("/session", s.handleStartSession)
	r.DELETE("/session", s.handleTerminateSession)

	dashboard := r.Group("/dashboard")
	dashboard.Use(s.requireSession)
	dashboard.GET("", s.handleDashboard)
	dashboard.GET("/thumbnail", s.handleThumbnail)
	dashboard.GET("/profile-pic", s.handleProfilePic)

	return r
}

// ListenAndServe blocks until the server stops. http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("HTTP request", fields...)
			return
		}
		logger.Debug("HTTP request", fields...)
	}
}
