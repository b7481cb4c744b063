package format

import (
	"strings"
	"time"
)

const dateTimeLayout = "Jan 2, 2006, 15:04"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 forms the upstream API emits.
// The result is in UTC; ok is false when no layout matches.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DateTime renders t as "Mar 1, 2026, 09:05". The zero time stands for an
// unparseable upstream value and renders as Placeholder.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(dateTimeLayout)
}

// DateTimeString parses s and renders it with DateTime.
func DateTimeString(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return Placeholder
	}
	return DateTime(t)
}
