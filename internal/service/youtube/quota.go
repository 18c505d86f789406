package youtube

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	dailyQuotaLimit         = 10000
	searchQuotaCost         = 100
	videosQuotaCost         = 1
	channelsQuotaCost       = 1
	commentThreadsQuotaCost = 1
	quotaWarnMargin         = 2000
)

// quotaMeter tracks the units spent by this process. Credentials belong to the
// callers, so it only reports; it never blocks a call.
type quotaMeter struct {
	mu     sync.Mutex
	used   int
	reset  time.Time
	now    func() time.Time
	logger *zap.Logger
}

func newQuotaMeter(logger *zap.Logger) *quotaMeter {
	m := &quotaMeter{now: time.Now, logger: logger}
	m.reset = nextQuotaReset(m.now())
	return m
}

// nextQuotaReset returns the next midnight Pacific time, when the API resets quotas.
func nextQuotaReset(now time.Time) time.Time {
	pt, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		pt = time.FixedZone("PST", -8*60*60)
	}
	local := now.In(pt)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, pt)
}

func (m *quotaMeter) rollover() {
	now := m.now()
	if now.After(m.reset) {
		m.used = 0
		m.reset = nextQuotaReset(now)
		m.logger.Info("YouTube API quota meter reset",
			zap.Time("nextReset", m.reset))
	}
}

func (m *quotaMeter) consume(cost int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rollover()
	m.used += cost
	remaining := dailyQuotaLimit - m.used

	m.logger.Debug("YouTube API quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", m.used),
		zap.Int("remaining", remaining))

	if remaining < quotaWarnMargin {
		m.logger.Warn("YouTube API quota running low",
			zap.Int("remaining", remaining),
			zap.Time("resetTime", m.reset))
	}
}

func (m *quotaMeter) status() (int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rollover()
	return m.used, m.reset
}
