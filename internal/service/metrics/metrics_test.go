package metrics

import (
	"math"
	"testing"

	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		name                   string
		likes, comments, views uint64
		want                   float64
	}{
		{"reference example", 100, 50, 3000, 5.0},
		{"rounds to two decimals", 1, 0, 3, 33.33},
		{"rounds up", 2, 0, 3, 66.67},
		{"tie goes to even digit", 1, 0, 800, 0.12},
		{"below tie rounds down", 5, 0, 8000, 0.06},
		{"above one hundred percent", 30, 20, 10, 500},
		{"zero views is zero", 100, 50, 0, 0},
		{"no interaction", 0, 0, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EngagementRate(tt.likes, tt.comments, tt.views), 1e-9)
		})
	}
}

func TestTier(t *testing.T) {
	assert.Equal(t, domain.EngagementTierLow, Tier(0))
	assert.Equal(t, domain.EngagementTierLow, Tier(4.99))
	assert.Equal(t, domain.EngagementTierNormal, Tier(5))
	assert.Equal(t, domain.EngagementTierNormal, Tier(11.99))
	assert.Equal(t, domain.EngagementTierHigh, Tier(12))
	assert.Equal(t, domain.EngagementTierHigh, Tier(40))
}

func TestLikeShare(t *testing.T) {
	assert.InDelta(t, 75.0, LikeShare(300, 100), 1e-9)
	assert.InDelta(t, 100.0, LikeShare(10, 0), 1e-9)
	assert.InDelta(t, 0.0, LikeShare(0, 0), 1e-9)
	assert.InDelta(t, 100.0, LikeShare(10, -5), 1e-9)
}

func TestVideoStats(t *testing.T) {
	video := &domain.VideoMetrics{Views: 3000, Likes: 100, Comments: 50}

	stats := VideoStats(video, 25)
	assert.InDelta(t, 5.0, stats.EngagementRatePercent, 1e-9)
	assert.Equal(t, domain.EngagementTierNormal, stats.EngagementTier)
	assert.Equal(t, int64(25), stats.Dislikes)
	assert.InDelta(t, 80.0, stats.LikeSharePercent, 1e-9)

	assert.Equal(t, int64(0), VideoStats(video, -1).Dislikes)
}

func TestAverageViews(t *testing.T) {
	assert.Equal(t, uint64(0), AverageViews(1_000_000, 0))
	assert.Equal(t, uint64(333), AverageViews(1000, 3))
	assert.Equal(t, uint64(500), AverageViews(1000, 2))
}

func TestAverageLikes(t *testing.T) {
	assert.Equal(t, uint64(0), AverageLikes(nil, 0))
	assert.Equal(t, uint64(0), AverageLikes([]uint64{}, 0))
	assert.Equal(t, uint64(20), AverageLikes([]uint64{10, 20, 30}, 3))
	assert.Equal(t, uint64(3), AverageLikes([]uint64{5, 5}, 3))
}

func TestMilestone(t *testing.T) {
	tests := []struct {
		name        string
		subscribers uint64
		want        domain.MilestoneProjection
	}{
		{"exact power of ten", 1000, domain.MilestoneProjection{NextGoal: 10000, Remaining: 9000, FractionComplete: 0.1}},
		{"five digits", 50000, domain.MilestoneProjection{NextGoal: 100000, Remaining: 50000, FractionComplete: 0.5}},
		{"ten thousand exactly", 10000, domain.MilestoneProjection{NextGoal: 100000, Remaining: 90000, FractionComplete: 0.1}},
		{"zero counts as one digit", 0, domain.MilestoneProjection{NextGoal: 10, Remaining: 10, FractionComplete: 0}},
		{"single digit", 7, domain.MilestoneProjection{NextGoal: 10, Remaining: 3, FractionComplete: 0.7}},
		{"all nines", 999, domain.MilestoneProjection{NextGoal: 1000, Remaining: 1, FractionComplete: 0.999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Milestone(tt.subscribers)
			assert.Equal(t, tt.want.NextGoal, got.NextGoal)
			assert.Equal(t, tt.want.Remaining, got.Remaining)
			assert.InDelta(t, tt.want.FractionComplete, got.FractionComplete, 1e-9)
		})
	}
}

func TestMilestoneSaturatesWhenPowerOverflows(t *testing.T) {
	got := Milestone(math.MaxUint64 - 1)
	assert.Equal(t, uint64(math.MaxUint64), got.NextGoal)
	assert.Equal(t, uint64(1), got.Remaining)
	assert.LessOrEqual(t, got.FractionComplete, 1.0)
}
