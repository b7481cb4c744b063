package workqueue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/workqueue"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) time.Time { return now.Add(-d) }

func TestAgeMs(t *testing.T) {
	ms, ok := workqueue.AgeMs(ago(90*time.Second), now)
	assert.True(t, ok)
	assert.Equal(t, int64(90_000), ms)

	ms, ok = workqueue.AgeMs(now, now)
	assert.True(t, ok)
	assert.Zero(t, ms)
}

func TestAgeMs_FutureIsClamped(t *testing.T) {
	ms, ok := workqueue.AgeMs(now.Add(10*time.Minute), now)
	assert.True(t, ok)
	assert.Zero(t, ms)
	assert.Equal(t, domain.AgeFresh, workqueue.AgeSeverity(now.Add(10*time.Minute), now))
	assert.Equal(t, "0m ago", workqueue.FormatRelativeAge(now.Add(10*time.Minute), now))
}

func TestAgeMs_Unknown(t *testing.T) {
	_, ok := workqueue.AgeMs(time.Time{}, now)
	assert.False(t, ok)
	assert.Equal(t, domain.AgeCritical, workqueue.AgeSeverity(time.Time{}, now))
	assert.Equal(t, workqueue.UnknownAge, workqueue.FormatRelativeAge(time.Time{}, now))
}

func TestAgeSeverity_Boundaries(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want domain.AgeSeverity
	}{
		{0, domain.AgeFresh},
		{59*time.Minute + 59*time.Second, domain.AgeFresh},
		{time.Hour - time.Millisecond, domain.AgeFresh},
		{time.Hour, domain.AgeWarning},
		{3*time.Hour + 59*time.Minute + 59*time.Second, domain.AgeWarning},
		{4 * time.Hour, domain.AgeStale},
		{23*time.Hour + 59*time.Minute + 59*time.Second, domain.AgeStale},
		{24 * time.Hour, domain.AgeCritical},
		{24*time.Hour + time.Second, domain.AgeCritical},
		{30 * 24 * time.Hour, domain.AgeCritical},
	}

	for _, tc := range tests {
		t.Run(tc.age.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, workqueue.AgeSeverity(ago(tc.age), now))
		})
	}
}

func TestFormatRelativeAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, "0m ago"},
		{59 * time.Second, "0m ago"},
		{5*time.Minute + 59*time.Second, "5m ago"},
		{time.Hour, "1h 0m ago"},
		{3*time.Hour + 15*time.Minute + 40*time.Second, "3h 15m ago"},
		{24 * time.Hour, "1d 0h ago"},
		{2*24*time.Hour + 3*time.Hour + 59*time.Minute, "2d 3h ago"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, workqueue.FormatRelativeAge(ago(tc.age), now))
		})
	}
}

func TestAgeStyle(t *testing.T) {
	fresh := workqueue.AgeStyle(ago(time.Minute), now)
	assert.Equal(t, "border-l-transparent", fresh.Border)
	assert.Empty(t, fresh.Background)

	critical := workqueue.AgeStyle(ago(48*time.Hour), now)
	assert.Equal(t, workqueue.StyleFor(domain.AgeCritical), critical)
	assert.NotEmpty(t, critical.Text)
	assert.NotEmpty(t, critical.Border)
	assert.NotEmpty(t, critical.Background)

	seen := map[workqueue.Style]bool{}
	for _, s := range []domain.AgeSeverity{domain.AgeFresh, domain.AgeWarning, domain.AgeStale, domain.AgeCritical} {
		seen[workqueue.StyleFor(s)] = true
	}
	assert.Len(t, seen, 4)
}
