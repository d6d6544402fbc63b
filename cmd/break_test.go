package cmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/ledger"
	"github.com/Tiliavir/work-time-tracker/internal/model"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{30, "30s"},
		{59, "59s"},
		{60, "1m 0s"},
		{90, "1m 30s"},
		{3600, "1h 0m 0s"},
		{3661, "1h 1m 1s"},
		{7322, "2h 2m 2s"},
	}
	for _, tt := range tests {
		got := formatElapsed(tt.seconds)
		if got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		arg     string
		n       int
		want    int
		wantErr error
	}{
		{"1", 2, 0, nil},
		{" 2 ", 2, 1, nil},
		{"3", 2, 0, ledger.ErrBreakNotFound},
		{"0", 2, 0, ledger.ErrBreakNotFound},
		{"1", 0, 0, ledger.ErrBreakNotFound},
		{"first", 2, 0, errUsage},
	}
	for _, tt := range tests {
		got, err := parseIndex(tt.arg, tt.n)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("parseIndex(%q, %d) error = %v, want %v", tt.arg, tt.n, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseIndex(%q, %d) = %d, %v, want %d", tt.arg, tt.n, got, err, tt.want)
		}
	}
}

func TestFormatBreaks(t *testing.T) {
	if got := formatBreaks(nil, nil); got != "No breaks recorded.\n" {
		t.Errorf("formatBreaks(nil) = %q", got)
	}

	at := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }
	breaks := []model.Break{
		{Start: at(12, 0), End: at(12, 30), Duration: "30m 0s"},
		{Start: at(15, 0), End: at(15, 0), Duration: "40m 0s"},
	}
	got := formatBreaks(breaks, []bool{false, true})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("formatBreaks lines = %d, want 3:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], " 1. 12:00:00 PM – 12:30:00 PM  30m 0s") || strings.HasSuffix(lines[0], "*") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "40m 0s *") {
		t.Errorf("line 2 = %q, want deletable mark", lines[1])
	}
	if lines[2] != "Total: 01h 10m 00s" {
		t.Errorf("total = %q", lines[2])
	}
}
