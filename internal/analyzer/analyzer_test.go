package analyzer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVideos struct {
	video *domain.VideoMetrics
	err   error
	calls int32
}

func (f *fakeVideos) FetchVideo(_ context.Context, _ string, id domain.VideoID) (*domain.VideoMetrics, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	v := *f.video
	v.ID = id
	return &v, nil
}

type fakeChannels struct {
	channel *domain.ChannelMetrics
	err     error
	gotID   string
	calls   int32
}

func (f *fakeChannels) FetchChannel(_ context.Context, _ string, channelID string) (*domain.ChannelMetrics, error) {
	atomic.AddInt32(&f.calls, 1)
	f.gotID = channelID
	return f.channel, f.err
}

type fakeDislikes struct{ count int64 }

func (f fakeDislikes) FetchDislikes(context.Context, domain.VideoID) int64 { return f.count }

type fakePulse struct{ result domain.PulseResult }

func (f fakePulse) Analyze(context.Context, string, domain.VideoID) domain.PulseResult {
	return f.result
}

func activeSession() *domain.Session {
	return &domain.Session{
		ID:            "sid",
		Credential:    "k",
		TargetURL:     "https://youtu.be/dQw4w9WgXcQ",
		Authenticated: true,
	}
}

func newFixture() (*fakeVideos, *fakeChannels) {
	videos := &fakeVideos{video: &domain.VideoMetrics{
		Title:     "Title",
		ChannelID: "UC1",
		Views:     3000,
		Likes:     100,
		Comments:  50,
	}}
	channels := &fakeChannels{channel: &domain.ChannelMetrics{ID: "UC1", Subscribers: 50000}}
	return videos, channels
}

func TestRunBuildsFullReport(t *testing.T) {
	videos, channels := newFixture()
	pulse := fakePulse{result: domain.PulseResult{
		TopTerms:        []domain.TermCount{{Term: "wonderful", Count: 3}},
		CommentsScanned: 2,
	}}
	a := New(videos, channels, fakeDislikes{count: 25}, pulse, zap.NewNop())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	report, err := a.Run(context.Background(), activeSession(), true)
	require.NoError(t, err)

	assert.Equal(t, domain.VideoID("dQw4w9WgXcQ"), report.VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", report.WatchURL)
	assert.InDelta(t, 5.0, report.Stats.EngagementRatePercent, 1e-9)
	assert.Equal(t, int64(25), report.Stats.Dislikes)
	assert.Equal(t, 2, report.Pulse.CommentsScanned)
	assert.Equal(t, fixed, report.GeneratedAt)

	require.True(t, report.HasChannel())
	assert.Equal(t, "UC1", channels.gotID)
	require.NotNil(t, report.Milestone)
	assert.Equal(t, uint64(100000), report.Milestone.NextGoal)
	assert.InDelta(t, 0.5, report.Milestone.FractionComplete, 1e-9)
	assert.Empty(t, report.ChannelError)
}

func TestRunWithoutChannelSkipsChannelFetch(t *testing.T) {
	videos, channels := newFixture()
	a := New(videos, channels, fakeDislikes{}, fakePulse{}, zap.NewNop())

	report, err := a.Run(context.Background(), activeSession(), false)
	require.NoError(t, err)

	assert.False(t, report.HasChannel())
	assert.Nil(t, report.Milestone)
	assert.Zero(t, atomic.LoadInt32(&channels.calls))
	assert.NotNil(t, report.Pulse.TopTerms)
}

func TestRunChannelFailureDoesNotFailReport(t *testing.T) {
	videos, channels := newFixture()
	channels.err = errors.NewUpstreamError(errors.KindAuthRejected, "youtube", "search.list", nil)
	a := New(videos, channels, fakeDislikes{count: 3}, fakePulse{}, zap.NewNop())

	report, err := a.Run(context.Background(), activeSession(), true)
	require.NoError(t, err)

	assert.False(t, report.HasChannel())
	assert.Nil(t, report.Milestone)
	assert.Equal(t, "auth_rejected", report.ChannelError)
	assert.Equal(t, int64(3), report.Stats.Dislikes)
}

func TestRunVideoFailureIsReturned(t *testing.T) {
	videos, channels := newFixture()
	videos.err = errors.NewUpstreamError(errors.KindNotFound, "youtube", "videos.list", nil)
	a := New(videos, channels, fakeDislikes{}, fakePulse{}, zap.NewNop())

	_, err := a.Run(context.Background(), activeSession(), true)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	assert.Zero(t, atomic.LoadInt32(&channels.calls))
}

func TestRunRequiresActiveSession(t *testing.T) {
	videos, channels := newFixture()
	a := New(videos, channels, fakeDislikes{}, fakePulse{}, nil)

	_, err := a.Run(context.Background(), activeSession().Terminated(), false)
	var credErr *errors.CredentialError
	require.ErrorAs(t, err, &credErr)

	_, err = a.Run(context.Background(), nil, false)
	require.ErrorAs(t, err, &credErr)
	assert.Zero(t, atomic.LoadInt32(&videos.calls))
}

func TestRunRejectsSessionURLWithoutID(t *testing.T) {
	videos, channels := newFixture()
	a := New(videos, channels, fakeDislikes{}, fakePulse{}, zap.NewNop())

	s := activeSession()
	s.TargetURL = "https://example.com/watch"

	_, err := a.Run(context.Background(), s, false)
	var inputErr *errors.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Zero(t, atomic.LoadInt32(&videos.calls))
}
