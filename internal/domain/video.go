package domain

import (
	"regexp"
	"time"
)

// VideoID is the platform's 11-character video key.
type VideoID string

func (id VideoID) String() string {
	return string(id)
}

// WatchURL returns the canonical watch page for the video.
func (id VideoID) WatchURL() string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + string(id)
}

var videoIDPattern = regexp.MustCompile(
	`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/(?:watch\?v=|embed/|v/|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{11})`,
)

// ExtractVideoID returns the first video identifier found in rawURL. The boolean
// is false when no known URL shape is present.
func ExtractVideoID(rawURL string) (VideoID, bool) {
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if len(match) < 2 {
		return "", false
	}
	return VideoID(match[1]), true
}

// VideoMetrics is the normalized view of one videos.list item.
type VideoMetrics struct {
	ID           VideoID   `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"published_at"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	Views        uint64    `json:"views"`
	Likes        uint64    `json:"likes"`
	Comments     uint64    `json:"comments"`
	ThumbnailURL string    `json:"thumbnail_url"`
}

type EngagementTier string

const (
	EngagementTierLow    EngagementTier = "low"
	EngagementTierNormal EngagementTier = "normal"
	EngagementTierHigh   EngagementTier = "high"
)

func (t EngagementTier) String() string {
	return string(t)
}

// DerivedVideoStats holds the figures computed from VideoMetrics and the vote service.
type DerivedVideoStats struct {
	EngagementRatePercent float64        `json:"engagement_rate_percent"`
	EngagementTier        EngagementTier `json:"engagement_tier"`
	Dislikes              int64          `json:"dislikes"`
	LikeSharePercent      float64        `json:"like_share_percent"`
}
