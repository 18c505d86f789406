package pulse

import (
	"context"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"go.uber.org/zap"
)

// CommentPage is one page of top-level comment texts.
type CommentPage struct {
	Texts         []string
	NextPageToken string
}

// CommentPager lists top-level comments of a video one page at a time.
type CommentPager interface {
	ListCommentPage(ctx context.Context, credential string, id domain.VideoID, pageToken string, pageSize int64) (*CommentPage, error)
}

type Analyzer struct {
	pager  CommentPager
	logger *zap.Logger
}

func NewAnalyzer(pager CommentPager, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{pager: pager, logger: logger}
}

// Analyze pages through at most MaxPages pages (MaxComments comments) and ranks the
// terms. Any failure yields an empty result; the error is only logged.
func (a *Analyzer) Analyze(ctx context.Context, credential string, id domain.VideoID) domain.PulseResult {
	texts, err := a.collect(ctx, credential, id)
	if err != nil {
		a.logger.Debug("Comment pulse unavailable",
			zap.String("video", id.String()),
			zap.Error(err))
		return emptyResult()
	}

	if len(texts) == 0 {
		return emptyResult()
	}

	result := domain.PulseResult{
		TopTerms:        Rank(texts, constants.PulseConfig.TopTerms),
		CommentsScanned: len(texts),
	}

	a.logger.Debug("Comment pulse computed",
		zap.String("video", id.String()),
		zap.Int("comments", result.CommentsScanned),
		zap.Int("terms", len(result.TopTerms)))

	return result
}

func (a *Analyzer) collect(ctx context.Context, credential string, id domain.VideoID) ([]string, error) {
	maxComments := constants.PulseConfig.MaxComments
	texts := make([]string, 0, constants.PulseConfig.PageSize)
	pageToken := ""

	for page := 0; page < constants.PulseConfig.MaxPages; page++ {
		resp, err := a.pager.ListCommentPage(ctx, credential, id, pageToken, constants.PulseConfig.PageSize)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			break
		}

		remaining := maxComments - len(texts)
		if len(resp.Texts) > remaining {
			texts = append(texts, resp.Texts[:remaining]...)
			break
		}
		texts = append(texts, resp.Texts...)

		if resp.NextPageToken == "" || len(texts) >= maxComments {
			break
		}
		pageToken = resp.NextPageToken
	}

	return texts, nil
}

func emptyResult() domain.PulseResult {
	return domain.PulseResult{TopTerms: []domain.TermCount{}, CommentsScanned: 0}
}
