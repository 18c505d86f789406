package youtube

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/service/metrics"
	"github.com/kapu/youtube-analyzer-go/internal/service/pulse"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const serviceName = "youtube"

// oauthTokenPrefix marks Google OAuth access tokens; any other credential is sent
// as an API key.
const oauthTokenPrefix = "ya29."

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// YouTubeService calls the YouTube Data API v3 on behalf of whichever credential
// the caller supplies.
type YouTubeService struct {
	endpoint string
	timeout  time.Duration
	quota    *quotaMeter
	logger   *zap.Logger
}

func NewYouTubeService(cfg Config, logger *zap.Logger) *YouTubeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.APIConfig.YouTubeTimeout
	}

	ys := &YouTubeService{
		endpoint: cfg.Endpoint,
		timeout:  timeout,
		quota:    newQuotaMeter(logger),
		logger:   logger,
	}

	logger.Info("YouTube service initialized",
		zap.Duration("timeout", timeout),
		zap.Bool("customEndpoint", cfg.Endpoint != ""))

	return ys
}

func (ys *YouTubeService) newClient(ctx context.Context, credential string) (*youtube.Service, error) {
	if credential == "" {
		return nil, errors.NewCredentialError("YouTube credential is required")
	}

	opts := make([]option.ClientOption, 0, 2)
	if strings.HasPrefix(credential, oauthTokenPrefix) {
		opts = append(opts, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: credential,
			TokenType:   "Bearer",
		})))
	} else {
		opts = append(opts, option.WithAPIKey(credential))
	}
	if ys.endpoint != "" {
		opts = append(opts, option.WithEndpoint(ys.endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.NewUpstreamError(errors.KindNetworkFailure, serviceName, "client", err)
	}
	return service, nil
}

// FetchVideo returns the snippet and statistics of one video.
func (ys *YouTubeService) FetchVideo(ctx context.Context, credential string, id domain.VideoID) (*domain.VideoMetrics, error) {
	const op = "videos.list"

	svc, err := ys.newClient(ctx, credential)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, ys.timeout)
	defer cancel()

	response, err := svc.Videos.List([]string{"snippet", "statistics"}).
		Id(id.String()).
		Context(callCtx).
		Do()
	ys.quota.consume(videosQuotaCost)
	if err != nil {
		ys.logger.Warn("Failed to fetch video",
			zap.String("video", id.String()),
			zap.Error(err))
		return nil, classify(op, err)
	}

	if len(response.Items) == 0 {
		return nil, errors.NewUpstreamError(errors.KindNotFound, serviceName, op, nil)
	}

	video, err := toVideoMetrics(id, response.Items[0])
	if err != nil {
		return nil, errors.NewUpstreamError(errors.KindMalformedResponse, serviceName, op, err)
	}

	ys.logger.Debug("Video fetched",
		zap.String("video", id.String()),
		zap.Uint64("views", video.Views))

	return video, nil
}

func toVideoMetrics(id domain.VideoID, item *youtube.Video) (*domain.VideoMetrics, error) {
	if item == nil || item.Snippet == nil {
		return nil, fmt.Errorf("video snippet missing")
	}
	snippet := item.Snippet
	if snippet.ChannelId == "" {
		return nil, fmt.Errorf("video channel id missing")
	}

	publishedAt, err := time.Parse(time.RFC3339, snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid publishedAt %q: %w", snippet.PublishedAt, err)
	}

	video := &domain.VideoMetrics{
		ID:           id,
		Title:        snippet.Title,
		Description:  snippet.Description,
		PublishedAt:  publishedAt,
		ChannelID:    snippet.ChannelId,
		ChannelTitle: snippet.ChannelTitle,
		ThumbnailURL: extractThumbnail(snippet.Thumbnails, true),
	}

	if stats := item.Statistics; stats != nil {
		video.Views = stats.ViewCount
		video.Likes = stats.LikeCount
		video.Comments = stats.CommentCount
	}

	return video, nil
}

// FetchChannel returns channel counters plus the average likes of its most recent
// uploads. Any failure in the three calls fails the whole fetch.
func (ys *YouTubeService) FetchChannel(ctx context.Context, credential, channelID string) (*domain.ChannelMetrics, error) {
	svc, err := ys.newClient(ctx, credential)
	if err != nil {
		return nil, err
	}

	channel, err := ys.fetchChannelStatistics(ctx, svc, channelID)
	if err != nil {
		return nil, err
	}

	videoIDs, err := ys.fetchRecentVideoIDs(ctx, svc, channelID)
	if err != nil {
		return nil, err
	}

	likeCounts, err := ys.fetchLikeCounts(ctx, svc, videoIDs)
	if err != nil {
		return nil, err
	}

	if len(likeCounts) > 0 {
		channel.AvgLikes = metrics.AverageLikes(likeCounts, len(videoIDs))
	}
	channel.RecentVideos = len(videoIDs)

	ys.logger.Info("Channel statistics fetched",
		zap.String("channel", channelID),
		zap.Uint64("subscribers", channel.Subscribers),
		zap.Int("recentVideos", len(videoIDs)))

	return channel, nil
}

// FetchProfilePicURL looks up only the channel snippet. An empty URL means the
// channel has no picture.
func (ys *YouTubeService) FetchProfilePicURL(ctx context.Context, credential, channelID string) (string, error) {
	const op = "channels.list"

	svc, err := ys.newClient(ctx, credential)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, ys.timeout)
	defer cancel()

	response, err := svc.Channels.List([]string{"snippet"}).
		Id(channelID).
		Context(callCtx).
		Do()
	ys.quota.consume(channelsQuotaCost)
	if err != nil {
		ys.logger.Error("Failed to fetch channel snippet",
			zap.String("channel", channelID),
			zap.Error(err))
		return "", classify(op, err)
	}

	if len(response.Items) == 0 {
		return "", errors.NewUpstreamError(errors.KindNotFound, serviceName, op, nil)
	}
	if response.Items[0].Snippet == nil {
		return "", nil
	}
	return extractThumbnail(response.Items[0].Snippet.Thumbnails, false), nil
}

func (ys *YouTubeService) fetchChannelStatistics(ctx context.Context, svc *youtube.Service, channelID string) (*domain.ChannelMetrics, error) {
	const op = "channels.list"

	callCtx, cancel := context.WithTimeout(ctx, ys.timeout)
	defer cancel()

	response, err := svc.Channels.List([]string{"statistics", "snippet"}).
		Id(channelID).
		Context(callCtx).
		Do()
	ys.quota.consume(channelsQuotaCost)
	if err != nil {
		ys.logger.Error("Failed to fetch channel statistics",
			zap.String("channel", channelID),
			zap.Error(err))
		return nil, classify(op, err)
	}

	if len(response.Items) == 0 {
		return nil, errors.NewUpstreamError(errors.KindNotFound, serviceName, op, nil)
	}

	item := response.Items[0]
	channel := &domain.ChannelMetrics{ID: channelID}
	if item.Statistics != nil {
		channel.Subscribers = item.Statistics.SubscriberCount
		channel.TotalViews = item.Statistics.ViewCount
		channel.TotalVideos = item.Statistics.VideoCount
	}
	channel.AvgViews = metrics.AverageViews(channel.TotalViews, channel.TotalVideos)
	if item.Snippet != nil {
		channel.ProfilePicURL = extractThumbnail(item.Snippet.Thumbnails, false)
	}

	return channel, nil
}

func (ys *YouTubeService) fetchRecentVideoIDs(ctx context.Context, svc *youtube.Service, channelID string) ([]string, error) {
	const op = "search.list"

	callCtx, cancel := context.WithTimeout(ctx, ys.timeout)
	defer cancel()

	response, err := svc.Search.List([]string{"id"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(constants.ChannelConfig.RecentVideos).
		Context(callCtx).
		Do()
	ys.quota.consume(searchQuotaCost)
	if err != nil {
		ys.logger.Error("Failed to fetch recent videos",
			zap.String("channel", channelID),
			zap.Error(err))
		return nil, classify(op, err)
	}

	videoIDs := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}

	return videoIDs, nil
}

func (ys *YouTubeService) fetchLikeCounts(ctx context.Context, svc *youtube.Service, videoIDs []string) ([]uint64, error) {
	const op = "videos.list"

	if len(videoIDs) == 0 {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, ys.timeout)
	defer cancel()

	response, err := svc.Videos.List([]string{"statistics"}).
		Id(strings.Join(videoIDs, ",")).
		Context(callCtx).
		Do()
	ys.quota.consume(videosQuotaCost)
	if err != nil {
		return nil, classify(op, err)
	}

	likes := make([]uint64, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Statistics == nil {
			likes = append(likes, 0)
			continue
		}
		likes = append(likes, item.Statistics.LikeCount)
	}
	return likes, nil
}

// ListCommentPage returns one page of top-level comment texts.
func (ys *YouTubeService) ListCommentPage(ctx context.Context, credential string, id domain.VideoID, pageToken string, pageSize int64) (*pulse.CommentPage, error) {
	const op = "commentThreads.list"

	svc, err := ys.newClient(ctx, credential)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, ys.timeout)
	defer cancel()

	call := svc.CommentThreads.List([]string{"snippet"}).
		VideoId(id.String()).
		MaxResults(pageSize).
		TextFormat("plainText")
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(callCtx).Do()
	ys.quota.consume(commentThreadsQuotaCost)
	if err != nil {
		return nil, classify(op, err)
	}

	page := &pulse.CommentPage{
		Texts:         make([]string, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		page.Texts = append(page.Texts, item.Snippet.TopLevelComment.Snippet.TextDisplay)
	}

	return page, nil
}

// QuotaStatus reports the units this process has spent since the last reset.
func (ys *YouTubeService) QuotaStatus() (used int, resetTime time.Time) {
	return ys.quota.status()
}

// extractThumbnail walks the thumbnail set from the largest size down. Videos start
// at maxres; channel pictures start at high.
func extractThumbnail(thumbnails *youtube.ThumbnailDetails, includeMaxres bool) string {
	if thumbnails == nil {
		return ""
	}

	candidates := []*youtube.Thumbnail{thumbnails.High, thumbnails.Medium, thumbnails.Default}
	if includeMaxres {
		candidates = append([]*youtube.Thumbnail{thumbnails.Maxres}, candidates...)
	}
	for _, thumb := range candidates {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// classify maps a client error onto the upstream error kinds.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		return errors.NewUpstreamError(kindForAPIError(apiErr), serviceName, op, err)
	}
	return errors.NewUpstreamError(errors.KindNetworkFailure, serviceName, op, err)
}

func kindForAPIError(apiErr *googleapi.Error) errors.UpstreamKind {
	switch {
	case apiErr.Code == 401 || apiErr.Code == 403:
		return errors.KindAuthRejected
	case apiErr.Code == 400 && hasReason(apiErr, "keyInvalid", "keyExpired"):
		return errors.KindAuthRejected
	case apiErr.Code == 404:
		return errors.KindNotFound
	case apiErr.Code >= 500:
		return errors.KindNetworkFailure
	default:
		return errors.KindMalformedResponse
	}
}

func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	return false
}
