package adapter

import (
	"fmt"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/util"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
)

// ResponseFormatter renders reports and failures as plain text.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

type termView struct {
	Term  string
	Count string
}

type channelView struct {
	Subscribers  string
	TotalViews   string
	TotalVideos  string
	AvgViews     string
	AvgLikes     string
	RecentVideos int
	NextGoal     string
	Remaining    string
	Progress     string
}

type reportView struct {
	Title           string
	ChannelTitle    string
	Published       string
	WatchURL        string
	Description     string
	Views           string
	Likes           string
	Dislikes        string
	Comments        string
	Engagement      float64
	Tier            string
	LikeShare       float64
	CommentsScanned int
	Terms           []termView
	Channel         *channelView
	ChannelError    string
}

// FormatReport renders the dashboard as text.
func (f *ResponseFormatter) FormatReport(report *domain.Report) (string, error) {
	if report == nil || report.Video == nil {
		return "", fmt.Errorf("report has no video")
	}

	video := report.Video
	view := reportView{
		Title:           util.TruncateString(video.Title, constants.StringLimits.Title),
		ChannelTitle:    video.ChannelTitle,
		Published:       util.FormatDate(video.PublishedAt),
		WatchURL:        report.WatchURL,
		Description:     util.TruncateString(util.SingleLine(video.Description), constants.StringLimits.Description),
		Views:           util.FormatCount(video.Views),
		Likes:           util.FormatCount(video.Likes),
		Dislikes:        util.FormatCount(uint64(max(report.Stats.Dislikes, 0))),
		Comments:        util.FormatCount(video.Comments),
		Engagement:      report.Stats.EngagementRatePercent,
		Tier:            string(report.Stats.EngagementTier),
		LikeShare:       report.Stats.LikeSharePercent,
		CommentsScanned: report.Pulse.CommentsScanned,
		ChannelError:    report.ChannelError,
	}

	for _, term := range report.Pulse.TopTerms {
		view.Terms = append(view.Terms, termView{
			Term:  term.Term,
			Count: util.FormatCount(uint64(term.Count)),
		})
	}

	if report.HasChannel() {
		view.Channel = newChannelView(report.Channel, report.Milestone)
	}

	return executeFormatterTemplate("report", view)
}

func newChannelView(channel *domain.ChannelMetrics, milestone *domain.MilestoneProjection) *channelView {
	view := &channelView{
		Subscribers:  util.FormatCount(channel.Subscribers),
		TotalViews:   util.FormatCount(channel.TotalViews),
		TotalVideos:  util.FormatCount(channel.TotalVideos),
		AvgViews:     util.FormatCount(channel.AvgViews),
		AvgLikes:     util.FormatCount(channel.AvgLikes),
		RecentVideos: channel.RecentVideos,
	}
	if milestone != nil {
		view.NextGoal = util.FormatCount(milestone.NextGoal)
		view.Remaining = util.FormatCount(milestone.Remaining)
		view.Progress = fmt.Sprintf("%.1f", milestone.FractionComplete*100)
	}
	return view
}

// FormatError turns a failure into the message shown to the user.
func (f *ResponseFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var (
		input      *errors.InputError
		validation *errors.ValidationError
		credential *errors.CredentialError
	)
	switch {
	case errors.As(err, &input):
		return "❌ Invalid URL format detected."
	case errors.As(err, &validation):
		return "❌ Invalid request: " + validation.Message + "."
	case errors.As(err, &credential):
		return "🔑 Missing API configuration. Enter a YouTube API key or configure YOUTUBE_API_KEY."
	}

	kind, ok := errors.KindOf(err)
	if !ok {
		return "⚠️ Something went wrong while analyzing the video. Try again later."
	}
	switch kind {
	case errors.KindNotFound:
		return "🔍 Video not found. It may be private or deleted."
	case errors.KindAuthRejected:
		return "🔑 The YouTube API rejected the credential or its quota is exhausted."
	case errors.KindMalformedResponse:
		return "⚠️ The YouTube API returned an unexpected response."
	default:
		return "🌐 Could not reach the YouTube API. Try again later."
	}
}
