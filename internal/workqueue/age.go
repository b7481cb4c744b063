package workqueue

import (
	"fmt"
	"time"

	"github.com/retentionhub/churn-console/internal/domain"
)

const (
	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
	msPerDay    = 24 * msPerHour
)

// UnknownAge is what FormatRelativeAge renders for an unparseable createdAt.
const UnknownAge = "unknown"

// AgeMs returns the milliseconds elapsed between createdAt and now.
// A createdAt in the future (clock skew) is clamped to zero. ok is false when
// createdAt is the zero time, which marks an unparseable upstream value.
func AgeMs(createdAt, now time.Time) (ms int64, ok bool) {
	if createdAt.IsZero() {
		return 0, false
	}
	ms = now.Sub(createdAt).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return ms, true
}

// AgeSeverity buckets the item age: under 1h fresh, under 4h warning,
// under 24h stale, otherwise critical. Each lower bound is inclusive.
// An unknown age is treated as critical.
func AgeSeverity(createdAt, now time.Time) domain.AgeSeverity {
	ms, ok := AgeMs(createdAt, now)
	if !ok {
		return domain.AgeCritical
	}
	switch {
	case ms < msPerHour:
		return domain.AgeFresh
	case ms < 4*msPerHour:
		return domain.AgeWarning
	case ms < msPerDay:
		return domain.AgeStale
	default:
		return domain.AgeCritical
	}
}

// FormatRelativeAge renders the age as "2d 3h ago", "3h 15m ago" or
// "15m ago". Seconds are dropped, not rounded.
func FormatRelativeAge(createdAt, now time.Time) string {
	ms, ok := AgeMs(createdAt, now)
	if !ok {
		return UnknownAge
	}
	minutes := ms / msPerMinute
	hours := minutes / 60
	days := hours / 24

	switch {
	case days >= 1:
		return fmt.Sprintf("%dd %dh ago", days, hours%24)
	case hours >= 1:
		return fmt.Sprintf("%dh %dm ago", hours, minutes%60)
	default:
		return fmt.Sprintf("%dm ago", minutes)
	}
}

// formatClock renders a duration in ms as "HH:MM:00". Hours do not wrap at 24.
func formatClock(ms int64) string {
	minutes := ms / msPerMinute
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}
