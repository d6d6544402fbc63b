package timecalc

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the calendar-day key used for archived records.
const DateKeyLayout = "2006-01-02"

// ParseBreak converts a stored break duration ("<minutes>m <seconds>s") into a
// time.Duration. Missing or non-numeric parts count as zero, so a malformed
// entry contributes nothing instead of failing the aggregation.
func ParseBreak(s string) time.Duration {
	parts := strings.Split(s, "m")
	minutes := leadingInt(parts[0])
	var seconds int64
	if len(parts) > 1 {
		seconds = leadingInt(parts[1])
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
}

// leadingInt parses the optionally signed integer at the start of s, skipping
// leading whitespace and ignoring anything after the digits.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

// FormatBreak formats d in the canonical stored form "<minutes>m <seconds>s".
// Sub-second precision is truncated.
func FormatBreak(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// SumBreaks adds up a list of stored durations.
func SumBreaks(durations []string) time.Duration {
	var total time.Duration
	for _, d := range durations {
		total += ParseBreak(d)
	}
	return total
}

// FormatTotal formats an aggregated break total for display. Totals of an
// hour or more become "HHh MMm SSs" (zero-padded); shorter totals keep the
// unpadded "<minutes>m <seconds>s" form.
func FormatTotal(d time.Duration) string {
	secs := int64(d / time.Second)
	minutes := secs / 60
	if minutes >= 60 {
		return fmt.Sprintf("%02dh %02dm %02ds", minutes/60, minutes%60, secs%60)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs%60)
}

// FormatHMS formats d as "1h 5m 9s". Negative values keep a leading minus.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		return "-" + FormatHMS(-d)
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%dh %dm %ds", secs/3600, (secs%3600)/60, secs%60)
}

// FormatClock formats d as HH:MM:SS for live timers. The hours field is not
// bounded and negative values clamp to zero.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// DateKey returns the calendar-day key of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween counts calendar days from a to b (positive when b is later).
// Both are compared as dates in b's location, so DST shifts do not matter.
func DaysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// FormatISO renders t as an RFC 3339 timestamp with millisecond precision.
func FormatISO(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseISO parses a timestamp written by FormatISO (or any RFC 3339 value)
// and returns it in the local zone.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
