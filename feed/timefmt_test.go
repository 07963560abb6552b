package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", FormatRelativeTime(now, now))
	assert.Equal(t, "just now", FormatRelativeTime(now.Add(-1*time.Minute), now))
	assert.Equal(t, "5m ago", FormatRelativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "59m ago", FormatRelativeTime(now.Add(-59*time.Minute), now))
	assert.Equal(t, "1h ago", FormatRelativeTime(now.Add(-1*time.Hour), now))
	assert.Equal(t, "23h ago", FormatRelativeTime(now.Add(-23*time.Hour), now))
	assert.Equal(t, "yesterday", FormatRelativeTime(now.Add(-30*time.Hour), now))
	assert.Equal(t, "3d ago", FormatRelativeTime(now.Add(-3*24*time.Hour), now))
	assert.Equal(t, "Jun 5", FormatRelativeTime(now.Add(-10*24*time.Hour), now))
}

func TestFormatDeadline(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Deadline passed", FormatDeadline("2024-06-14", now))
	assert.Equal(t, "Deadline passed", FormatDeadline("2024-06-15", now))
	assert.Equal(t, "Due tomorrow", FormatDeadline("2024-06-16", now))
	assert.Equal(t, "Due in 5 days", FormatDeadline("2024-06-20", now))
	assert.Equal(t, "Due 30/06/2024", FormatDeadline("2024-06-30", now))

	// Unparseable deadlines render as entered.
	assert.Equal(t, "whenever", FormatDeadline("whenever", now))
}

func TestIsDeadlineUrgent(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsDeadlineUrgent("2024-06-18", now))
	assert.True(t, IsDeadlineUrgent("2024-06-22", now))
	assert.False(t, IsDeadlineUrgent("2024-06-30", now))
	assert.False(t, IsDeadlineUrgent("2024-06-10", now))
	assert.False(t, IsDeadlineUrgent("not a date", now))
}
