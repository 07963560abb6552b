package feed

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
)

// FormatRelativeTime renders t as the display form used in the feed ("just
// now", "2h ago", "yesterday"). The result is for rendering only; ordering
// always uses the canonical timestamp.
func FormatRelativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes <= 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("Jan 2")
	}
}

// FormatDeadline renders a deadline date string for display. Unparseable
// deadlines are rendered as entered.
func FormatDeadline(deadline string, now time.Time) string {
	parsed, err := dateparse.ParseAny(deadline)
	if err != nil {
		return deadline
	}

	days := daysUntil(parsed, now)
	switch {
	case days <= 0:
		return "Deadline passed"
	case days == 1:
		return "Due tomorrow"
	case days <= 7:
		return fmt.Sprintf("Due in %d days", days)
	default:
		return parsed.Format("Due 02/01/2006")
	}
}

// IsDeadlineUrgent reports whether a deadline falls within the next 7 days.
// Past and unparseable deadlines are not urgent.
func IsDeadlineUrgent(deadline string, now time.Time) bool {
	parsed, err := dateparse.ParseAny(deadline)
	if err != nil {
		return false
	}
	days := daysUntil(parsed, now)
	return days > 0 && days <= 7
}

func daysUntil(t time.Time, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}
