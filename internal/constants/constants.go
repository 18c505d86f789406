package constants

import "time"

var APIConfig = struct {
	YouTubeTimeout time.Duration
	DislikeTimeout time.Duration
	AssetTimeout   time.Duration
	MaxAssetBytes  int64
}{
	YouTubeTimeout: 10 * time.Second,
	DislikeTimeout: 5 * time.Second,
	AssetTimeout:   15 * time.Second,
	MaxAssetBytes:  10 << 20, // 10MB
}

var PulseConfig = struct {
	PageSize     int64
	MaxPages     int
	MaxComments  int
	TopTerms     int
	MinTermRunes int
}{
	PageSize:     100,
	MaxPages:     5,
	MaxComments:  500,
	TopTerms:     15,
	MinTermRunes: 4, // tokens of 3 runes or fewer are dropped
}

var ChannelConfig = struct {
	RecentVideos int64
}{
	RecentVideos: 10,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // 3 consecutive failures open the circuit
	ResetTimeout:     30 * time.Second, // probe again after 30s
}

var EngagementTiers = struct {
	Low  float64
	High float64
}{
	Low:  5,
	High: 12,
}

var SessionConfig = struct {
	CookieName string
	IDKey      string
	KeyPrefix  string
}{
	CookieName: "yta_session",
	IDKey:      "session_id",
	KeyPrefix:  "session:",
}

var StringLimits = struct {
	Title       int
	Description int
}{
	Title:       100,
	Description: 280,
}
