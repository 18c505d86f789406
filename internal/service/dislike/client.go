package dislike

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/util"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public Return YouTube Dislike API.
const DefaultBaseURL = "https://returnyoutubedislikeapi.com"

type votesResponse struct {
	ID       string `json:"id"`
	Likes    int64  `json:"likes"`
	Dislikes int64  `json:"dislikes"`
}

// Client looks up community-estimated dislike counts. Every failure degrades to 0.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = constants.APIConfig.DislikeTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: util.NewCircuitBreaker("dislike",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger),
		logger: logger,
	}
}

// FetchDislikes returns the estimated dislike count for id, or 0 when the estimate
// is unavailable for any reason.
func (c *Client) FetchDislikes(ctx context.Context, id domain.VideoID) int64 {
	if !c.breaker.CanExecute() {
		c.logger.Debug("Dislike lookup skipped, circuit open", zap.String("video", id.String()))
		return 0
	}

	votes, err := c.fetchVotes(ctx, id)
	if err != nil {
		var apiErr *errors.APIError
		if stderrors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			c.breaker.RecordSuccess()
		} else {
			c.breaker.RecordFailure()
		}
		c.logger.Debug("Dislike lookup failed",
			zap.String("video", id.String()),
			zap.Error(err))
		return 0
	}
	c.breaker.RecordSuccess()

	if votes.Dislikes < 0 {
		return 0
	}
	return votes.Dislikes
}

func (c *Client) BreakerStatus() util.CircuitBreakerStatus {
	return c.breaker.Status()
}

func (c *Client) fetchVotes(ctx context.Context, id domain.VideoID) (*votesResponse, error) {
	endpoint := c.baseURL + "/votes?videoId=" + url.QueryEscape(id.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": endpoint,
		}).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAPIError("request failed", 502, map[string]any{
			"url": endpoint,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.NewAPIError(
			fmt.Sprintf("dislike API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{"url": endpoint},
		)
	}

	var votes votesResponse
	if err := json.NewDecoder(resp.Body).Decode(&votes); err != nil {
		return nil, errors.NewAPIError("failed to decode response", 502, map[string]any{
			"url": endpoint,
		}).WithCause(err)
	}

	return &votes, nil
}
