package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kapu/youtube-analyzer-go/internal/adapter"
	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"go.uber.org/zap"
)

const sessionContextKey = "analysis_session"

type startSessionRequest struct {
	APIKey string `json:"api_key" form:"api_key"`
	URL    string `json:"url" form:"url"`
}

type sessionResponse struct {
	SessionID     string    `json:"session_id"`
	TargetURL     string    `json:"target_url"`
	VideoID       string    `json:"video_id,omitempty"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

func newSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		SessionID:     s.ID,
		TargetURL:     s.TargetURL,
		Authenticated: s.Authenticated,
		CreatedAt:     s.CreatedAt,
	}
	if id, ok := domain.ExtractVideoID(s.TargetURL); ok {
		resp.VideoID = id.String()
	}
	return resp
}

func cookieSessionID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(constants.SessionConfig.IDKey).(string)
	return id
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if s.deps.Quota != nil {
		used, reset := s.deps.Quota.QuotaStatus()
		body["youtube_quota_used"] = used
		body["youtube_quota_reset"] = reset
	}
	if s.deps.Breaker != nil {
		body["dislike_circuit"] = s.deps.Breaker.BreakerStatus()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleStartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBind(&req); err != nil {
		s.respondError(c, errors.NewValidationError("invalid request body", "body", err.Error()))
		return
	}

	started, err := s.deps.Sessions.Start(c.Request.Context(),
		cookieSessionID(c),
		adapter.SanitizeInput(req.APIKey),
		adapter.SanitizeInput(req.URL))
	if err != nil {
		s.respondError(c, err)
		return
	}

	cookieSession := sessions.Default(c)
	cookieSession.Set(constants.SessionConfig.IDKey, started.ID)
	if err := cookieSession.Save(); err != nil {
		s.logger.Error("Failed to save session cookie", zap.Error(err))
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(started))
}

func (s *Server) handleTerminateSession(c *gin.Context) {
	id := cookieSessionID(c)
	if _, err := s.deps.Sessions.Terminate(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}

	cookieSession := sessions.Default(c)
	cookieSession.Clear()
	if err := cookieSession.Save(); err != nil {
		s.logger.Warn("Failed to clear session cookie", zap.Error(err))
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) requireSession(c *gin.Context) {
	current, err := s.deps.Sessions.Load(c.Request.Context(), cookieSessionID(c))
	if err != nil {
		s.respondError(c, err)
		c.Abort()
		return
	}
	if !current.IsActive() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "🔒 No active session. Start one with POST /session.",
		})
		return
	}

	c.Set(sessionContextKey, current)
	c.Next()
}

func activeSession(c *gin.Context) *domain.Session {
	current, _ := c.MustGet(sessionContextKey).(*domain.Session)
	return current
}

func (s *Server) handleDashboard(c *gin.Context) {
	opts, err := adapter.ParseDashboardOptions(c.Query("channel"), c.Query("format"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	report, err := s.deps.Reports.Run(c.Request.Context(), activeSession(c), opts.IncludeChannel)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if opts.Format == adapter.FormatJSON {
		c.JSON(http.StatusOK, report)
		return
	}

	text, err := s.deps.Formatter.FormatReport(report)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) handleThumbnail(c *gin.Context) {
	current := activeSession(c)
	id, ok := domain.ExtractVideoID(current.TargetURL)
	if !ok {
		s.respondError(c, errors.NewInputError("URL does not contain a YouTube video id", current.TargetURL))
		return
	}

	video, err := s.deps.Metadata.FetchVideo(c.Request.Context(), current.Credential, id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.sendAsset(c, video.ThumbnailURL, id.String()+".jpg")
}

func (s *Server) handleProfilePic(c *gin.Context) {
	current := activeSession(c)
	id, ok := domain.ExtractVideoID(current.TargetURL)
	if !ok {
		s.respondError(c, errors.NewInputError("URL does not contain a YouTube video id", current.TargetURL))
		return
	}

	ctx := c.Request.Context()
	video, err := s.deps.Metadata.FetchVideo(ctx, current.Credential, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	picURL, err := s.deps.Metadata.FetchProfilePicURL(ctx, current.Credential, video.ChannelID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.sendAsset(c, picURL, "profile.jpg")
}

func (s *Server) sendAsset(c *gin.Context, rawURL, filename string) {
	asset, err := s.deps.Assets.Fetch(c.Request.Context(), rawURL)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, asset.ContentType, asset.Data)
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.StatusCode(err)
	body := gin.H{"error": s.deps.Formatter.FormatError(err)}
	if kind, ok := errors.KindOf(err); ok {
		body["kind"] = kind.String()
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, body)
}
