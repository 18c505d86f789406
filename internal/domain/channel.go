package domain

// ChannelMetrics represents a channel's public counters plus the per-video averages
// derived from them.
type ChannelMetrics struct {
	ID            string `json:"id"`
	Subscribers   uint64 `json:"subscribers"`
	TotalViews    uint64 `json:"total_views"`
	TotalVideos   uint64 `json:"total_videos"`
	AvgViews      uint64 `json:"avg_views"`
	AvgLikes      uint64 `json:"avg_likes"`
	RecentVideos  int    `json:"recent_videos"`
	ProfilePicURL string `json:"profile_pic_url"`
}

// HasProfilePic returns true if the channel has a picture URL
func (c *ChannelMetrics) HasProfilePic() bool {
	if c == nil {
		return false
	}
	return c.ProfilePicURL != ""
}

// MilestoneProjection is the next round subscriber target and the progress toward it.
type MilestoneProjection struct {
	NextGoal         uint64  `json:"next_goal"`
	Remaining        uint64  `json:"remaining"`
	FractionComplete float64 `json:"fraction_complete"`
}
