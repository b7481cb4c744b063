package format

import (
	"fmt"
	"time"
)

// ActivitySeverity grades how recently a customer was seen.
type ActivitySeverity string

const (
	ActivityHealthy    ActivitySeverity = "healthy"
	ActivityWarning    ActivitySeverity = "warning"
	ActivityConcerning ActivitySeverity = "concerning"
	ActivityCritical   ActivitySeverity = "critical"
)

// Activity is a customer's last-seen label with its severity.
type Activity struct {
	Label    string           `json:"label"`
	Severity ActivitySeverity `json:"severity"`
}

const (
	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
	msPerDay    = 24 * msPerHour
)

// RelativeActivity describes the time elapsed since lastActivityAt.
// A nil timestamp means the customer was never seen; the zero time means
// upstream sent something unparseable. Timestamps in the future read as
// "Active just now".
func RelativeActivity(lastActivityAt *time.Time, now time.Time) Activity {
	if lastActivityAt == nil {
		return Activity{Label: "No recent activity", Severity: ActivityCritical}
	}
	if lastActivityAt.IsZero() {
		return Activity{Label: "Unknown activity", Severity: ActivityCritical}
	}

	elapsed := now.Sub(*lastActivityAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	minutes := elapsed / msPerMinute
	hours := elapsed / msPerHour
	days := elapsed / msPerDay

	switch {
	case minutes < 1:
		return Activity{Label: "Active just now", Severity: ActivityHealthy}
	case hours < 1:
		return Activity{Label: fmt.Sprintf("Active %dm ago", minutes), Severity: ActivityHealthy}
	case days < 1:
		return Activity{Label: fmt.Sprintf("Active %dh ago", hours), Severity: ActivityHealthy}
	case days < 7:
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		return Activity{Label: fmt.Sprintf("Last seen %d %s ago", days, unit), Severity: ActivityWarning}
	case days < 14:
		return Activity{Label: fmt.Sprintf("Last seen %d days ago", days), Severity: ActivityConcerning}
	case days < 30:
		return Activity{Label: fmt.Sprintf("Last seen %d days ago", days), Severity: ActivityCritical}
	default:
		return Activity{Label: "Last seen 30+ days ago", Severity: ActivityCritical}
	}
}
