package metrics

import (
	"math"
	"strconv"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/internal/util"
)

// EngagementRate returns ((likes+comments)/views)*100 rounded to 2 decimals.
// A video without views has an engagement rate of 0.
func EngagementRate(likes, comments, views uint64) float64 {
	if views == 0 {
		return 0
	}
	rate := (float64(likes) + float64(comments)) / float64(views) * 100
	return util.Round2(rate)
}

// Tier buckets an engagement rate into the bands shown on the dashboard gauge.
func Tier(ratePercent float64) domain.EngagementTier {
	switch {
	case ratePercent < constants.EngagementTiers.Low:
		return domain.EngagementTierLow
	case ratePercent >= constants.EngagementTiers.High:
		return domain.EngagementTierHigh
	default:
		return domain.EngagementTierNormal
	}
}

// LikeShare is the percentage of likes among likes and dislikes.
func LikeShare(likes uint64, dislikes int64) float64 {
	if dislikes < 0 {
		dislikes = 0
	}
	total := float64(likes) + float64(dislikes)
	if total == 0 {
		return 0
	}
	return util.Round2(float64(likes) / total * 100)
}

// VideoStats assembles the derived figures for one video.
func VideoStats(video *domain.VideoMetrics, dislikes int64) domain.DerivedVideoStats {
	if video == nil {
		return domain.DerivedVideoStats{EngagementTier: domain.EngagementTierLow}
	}
	if dislikes < 0 {
		dislikes = 0
	}
	rate := EngagementRate(video.Likes, video.Comments, video.Views)
	return domain.DerivedVideoStats{
		EngagementRatePercent: rate,
		EngagementTier:        Tier(rate),
		Dislikes:              dislikes,
		LikeSharePercent:      LikeShare(video.Likes, dislikes),
	}
}

// AverageViews is totalViews / totalVideos with floor division, 0 without videos.
func AverageViews(totalViews, totalVideos uint64) uint64 {
	if totalVideos == 0 {
		return 0
	}
	return totalViews / totalVideos
}

// AverageLikes sums likeCounts and floor-divides by videoCount, the number of
// recent video ids that were looked up. It is 0 when there were none.
func AverageLikes(likeCounts []uint64, videoCount int) uint64 {
	if videoCount <= 0 {
		return 0
	}
	var total uint64
	for _, n := range likeCounts {
		total += n
	}
	return total / uint64(videoCount)
}

// Milestone projects the next subscriber goal. With d the number of decimal digits
// of subscribers and p = 10^d, the goal is p when subscribers < p and twice the
// current count otherwise. Exact powers of ten move to the next power
// (1000 -> 10000).
func Milestone(subscribers uint64) domain.MilestoneProjection {
	digits := len(strconv.FormatUint(subscribers, 10))

	var nextGoal uint64
	power, ok := pow10(digits)
	switch {
	case !ok:
		nextGoal = math.MaxUint64
	case subscribers < power:
		nextGoal = power
	case subscribers > math.MaxUint64/2:
		nextGoal = math.MaxUint64
	default:
		nextGoal = subscribers * 2
	}

	return domain.MilestoneProjection{
		NextGoal:         nextGoal,
		Remaining:        nextGoal - subscribers,
		FractionComplete: util.Clamp01(float64(subscribers) / float64(nextGoal)),
	}
}

// pow10 returns 10^n, or false when the result does not fit in a uint64.
func pow10(n int) (uint64, bool) {
	result := uint64(1)
	for i := 0; i < n; i++ {
		if result > math.MaxUint64/10 {
			return 0, false
		}
		result *= 10
	}
	return result, true
}
