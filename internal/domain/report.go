package domain

import "time"

// Report is everything the presentation layer needs for one analysis.
type Report struct {
	VideoID     VideoID           `json:"video_id"`
	WatchURL    string            `json:"watch_url"`
	Video       *VideoMetrics     `json:"video"`
	Stats       DerivedVideoStats `json:"stats"`
	Pulse       PulseResult       `json:"pulse"`
	GeneratedAt time.Time         `json:"generated_at"`

	// Channel and Milestone are set only when channel insight was requested and the
	// channel fetch succeeded. ChannelError carries the failure kind otherwise.
	Channel      *ChannelMetrics      `json:"channel,omitempty"`
	Milestone    *MilestoneProjection `json:"milestone,omitempty"`
	ChannelError string               `json:"channel_error,omitempty"`
}

func (r *Report) HasChannel() bool {
	return r != nil && r.Channel != nil
}
