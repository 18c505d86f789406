package analyzer

import (
	"context"
	"time"

	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/service/metrics"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type VideoFetcher interface {
	FetchVideo(ctx context.Context, credential string, id domain.VideoID) (*domain.VideoMetrics, error)
}

type ChannelFetcher interface {
	FetchChannel(ctx context.Context, credential, channelID string) (*domain.ChannelMetrics, error)
}

type DislikeFetcher interface {
	FetchDislikes(ctx context.Context, id domain.VideoID) int64
}

type CommentPulse interface {
	Analyze(ctx context.Context, credential string, id domain.VideoID) domain.PulseResult
}

// Analyzer builds the dashboard report for a session.
type Analyzer struct {
	videos   VideoFetcher
	channels ChannelFetcher
	dislikes DislikeFetcher
	pulse    CommentPulse
	now      func() time.Time
	logger   *zap.Logger
}

func New(videos VideoFetcher, channels ChannelFetcher, dislikes DislikeFetcher, pulse CommentPulse, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		videos:   videos,
		channels: channels,
		dislikes: dislikes,
		pulse:    pulse,
		now:      time.Now,
		logger:   logger,
	}
}

// Run fetches the video of the session's URL and enriches it. Only the video fetch
// can fail the report; dislikes, comment pulse and channel insight degrade to their
// defaults.
func (a *Analyzer) Run(ctx context.Context, s *domain.Session, includeChannel bool) (*domain.Report, error) {
	if !s.IsActive() {
		return nil, errors.NewCredentialError("session is not authenticated")
	}

	id, ok := domain.ExtractVideoID(s.TargetURL)
	if !ok {
		return nil, errors.NewInputError("URL does not contain a YouTube video id", s.TargetURL)
	}

	video, err := a.videos.FetchVideo(ctx, s.Credential, id)
	if err != nil {
		a.logger.Warn("Video fetch failed",
			zap.String("video", id.String()),
			zap.Error(err))
		return nil, err
	}

	var (
		dislikes   int64
		pulse      domain.PulseResult
		channel    *domain.ChannelMetrics
		channelErr error
	)

	p := pool.New()
	p.Go(func() {
		dislikes = a.dislikes.FetchDislikes(ctx, id)
	})
	p.Go(func() {
		pulse = a.pulse.Analyze(ctx, s.Credential, id)
	})
	if includeChannel {
		p.Go(func() {
			channel, channelErr = a.channels.FetchChannel(ctx, s.Credential, video.ChannelID)
		})
	}
	p.Wait()

	report := &domain.Report{
		VideoID:     id,
		WatchURL:    id.WatchURL(),
		Video:       video,
		Stats:       metrics.VideoStats(video, dislikes),
		Pulse:       pulse,
		GeneratedAt: a.now(),
	}
	if report.Pulse.TopTerms == nil {
		report.Pulse.TopTerms = []domain.TermCount{}
	}

	if includeChannel {
		if channelErr != nil {
			report.ChannelError = channelFailure(channelErr)
			a.logger.Warn("Channel insight unavailable",
				zap.String("channel", video.ChannelID),
				zap.Error(channelErr))
		} else {
			milestone := metrics.Milestone(channel.Subscribers)
			report.Channel = channel
			report.Milestone = &milestone
		}
	}

	a.logger.Info("Report generated",
		zap.String("video", id.String()),
		zap.Float64("engagement", report.Stats.EngagementRatePercent),
		zap.Int("comments", report.Pulse.CommentsScanned),
		zap.Bool("channel", report.HasChannel()))

	return report, nil
}

func channelFailure(err error) string {
	if kind, ok := errors.KindOf(err); ok {
		return kind.String()
	}
	return err.Error()
}
