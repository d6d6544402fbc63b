package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

func TestParseBreak(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"0m 0s", 0},
		{"15m 0s", 15 * time.Minute},
		{"2m 30s", 2*time.Minute + 30*time.Second},
		{"  7m 5s", 7*time.Minute + 5*time.Second},
		{"10m", 10 * time.Minute},
		{"m 12s", 12 * time.Second},
		{"abc", 0},
		{"", 0},
		{"xm ys", 0},
		{"90m 0s", 90 * time.Minute},
	}
	for _, tt := range tests {
		got := timecalc.ParseBreak(tt.in)
		if got != tt.want {
			t.Errorf("ParseBreak(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatBreakRoundTrip(t *testing.T) {
	for _, s := range []string{"0m 0s", "1m 1s", "15m 0s", "59m 59s", "75m 12s", "480m 0s"} {
		got := timecalc.FormatBreak(timecalc.ParseBreak(s))
		if got != s {
			t.Errorf("FormatBreak(ParseBreak(%q)) = %q", s, got)
		}
	}
}

func TestFormatBreakTruncatesSubSecond(t *testing.T) {
	got := timecalc.FormatBreak(15*time.Minute + 999*time.Millisecond)
	if got != "15m 0s" {
		t.Errorf("FormatBreak = %q, want %q", got, "15m 0s")
	}
}

func TestSumBreaks(t *testing.T) {
	got := timecalc.SumBreaks([]string{"15m 0s", "10m 0s", "garbage", "0m 30s"})
	want := 25*time.Minute + 30*time.Second
	if got != want {
		t.Errorf("SumBreaks = %v, want %v", got, want)
	}
	if timecalc.SumBreaks(nil) != 0 {
		t.Error("SumBreaks(nil) should be zero")
	}
}

func TestFormatTotal(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m 0s"},
		{25 * time.Minute, "25m 0s"},
		{59*time.Minute + 59*time.Second, "59m 59s"},
		{time.Hour, "01h 00m 00s"},
		{time.Hour + 5*time.Minute + 7*time.Second, "01h 05m 07s"},
		{12*time.Hour + 30*time.Minute, "12h 30m 00s"},
	}
	for _, tt := range tests {
		got := timecalc.FormatTotal(tt.d)
		if got != tt.want {
			t.Errorf("FormatTotal(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatHMS(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m 0s"},
		{7*time.Hour + 35*time.Minute, "7h 35m 0s"},
		{3661 * time.Second, "1h 1m 1s"},
		{-90 * time.Second, "-0h 1m 30s"},
	}
	for _, tt := range tests {
		got := timecalc.FormatHMS(tt.d)
		if got != tt.want {
			t.Errorf("FormatHMS(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{61 * time.Second, "00:01:01"},
		{3661 * time.Second, "01:01:01"},
		{100 * time.Hour, "100:00:00"},
		{-5 * time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		got := timecalc.FormatClock(tt.d)
		if got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestDaysBetween(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		then time.Time
		want int
	}{
		{time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC), 1},
		{time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		got := timecalc.DaysBetween(tt.then, now)
		if got != tt.want {
			t.Errorf("DaysBetween(%v, now) = %d, want %d", tt.then, got, tt.want)
		}
	}
}

func TestDateKey(t *testing.T) {
	ts := time.Date(2026, 2, 27, 23, 30, 0, 0, time.UTC)
	if got := timecalc.DateKey(ts); got != "2026-02-27" {
		t.Errorf("DateKey = %q, want %q", got, "2026-02-27")
	}
	day, err := timecalc.ParseDateKey("2026-02-27", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if !day.Equal(timecalc.StartOfDay(ts)) {
		t.Errorf("ParseDateKey = %v, want %v", day, timecalc.StartOfDay(ts))
	}
	if _, err := timecalc.ParseDateKey("27.02.2026", time.UTC); err == nil {
		t.Error("ParseDateKey: expected error for bad layout")
	}
}

func TestISORoundTrip(t *testing.T) {
	ts := time.Date(2026, 2, 27, 9, 0, 0, 123000000, time.Local)
	s := timecalc.FormatISO(ts)
	got, err := timecalc.ParseISO(s)
	if err != nil {
		t.Fatalf("ParseISO(%q): %v", s, err)
	}
	if !got.Equal(ts) {
		t.Errorf("ParseISO(FormatISO(t)) = %v, want %v", got, ts)
	}
	if _, err := timecalc.ParseISO("yesterday"); err == nil {
		t.Error("ParseISO: expected error")
	}
}
