package results

import (
	"time"
)

// Time frames accepted by the leaderboard.
const (
	FrameAll     = "all"
	FrameDaily   = "daily"
	FrameWeekly  = "weekly"
	FrameMonthly = "monthly"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WindowStart returns the inclusive lower bound for a leaderboard time
// frame. Unknown frames behave like "all".
func WindowStart(frame string, now time.Time) time.Time {
	now = now.UTC()
	switch frame {
	case FrameDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case FrameWeekly:
		return now.Add(-7 * 24 * time.Hour)
	case FrameMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
