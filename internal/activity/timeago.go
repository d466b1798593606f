package activity

import (
	"fmt"
	"time"
)

// TimeAgo renders created relative to now as "{n}s ago", "{n}m ago",
// "{n}h ago" or "{n}d ago". Units are floored and days have no upper bound.
// Timestamps in the future count as "0s ago".
func TimeAgo(created, now time.Time) string {
	sec := int64(now.Sub(created) / time.Second)
	if sec < 0 {
		sec = 0
	}
	if sec < 60 {
		return fmt.Sprintf("%ds ago", sec)
	}
	mins := sec / 60
	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}
	hr := mins / 60
	if hr < 24 {
		return fmt.Sprintf("%dh ago", hr)
	}
	return fmt.Sprintf("%dd ago", hr/24)
}
