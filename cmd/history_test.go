package cmd

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/model"
)

func TestHistoryDate(t *testing.T) {
	now := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"2026-03-06", "2026-03-06", false},
		{" 2026-03-05 ", "2026-03-05", false},
		{"2026-03-02", "2026-03-02", false},
		{"2026-03-01", "", true},
		{"2026-02-28", "", true},
		{"2026-03-07", "", true},
		{"06.03.2026", "", true},
	}
	for _, tt := range tests {
		got, err := historyDate(tt.arg, now, 5)
		if tt.wantErr {
			if !errors.Is(err, errUsage) {
				t.Errorf("historyDate(%q) error = %v, want usage error", tt.arg, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("historyDate(%q) = %q, %v, want %q", tt.arg, got, err, tt.want)
		}
	}
}

func TestLatest(t *testing.T) {
	records := []model.Record{{Date: "2026-03-04"}, {Date: "2026-03-05"}, {Date: "2026-03-02"}}
	if got := latest(records).Date; got != "2026-03-05" {
		t.Errorf("latest = %q", got)
	}
}

func TestRenderRecord(t *testing.T) {
	login := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	logout := login.Add(8*time.Hour + 25*time.Minute)
	r := model.Record{
		Date:               "2026-03-02",
		LoginTime:          login,
		ExpectedLogoutTime: logout,
		LogoutTime:         &logout,
		Breaks: []model.Break{
			{Start: login.Add(3 * time.Hour), End: login.Add(3*time.Hour + 25*time.Minute), Duration: "25m 0s"},
		},
		TotalBreakTime:    "25m 0s",
		TotalLoggedInTime: "8h 0m 0s",
	}
	st := newStyles(false)

	got := renderRecord(r, st)
	for _, want := range []string{"2026-03-02 (Mon 02/03)", "09:00:00 AM", "05:25:00 PM", "8h 0m 0s", " 1. 12:00:00 PM – 12:25:00 PM  25m 0s"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderRecord missing %q:\n%s", want, got)
		}
	}

	list := renderRecordList([]model.Record{r}, st)
	if !strings.Contains(list, "2026-03-02") || !strings.Contains(list, "breaks 25m 0s, logged in 8h 0m 0s") {
		t.Errorf("renderRecordList = %q", list)
	}
	if renderRecordList(nil, st) != "No archived days.\n" {
		t.Error("renderRecordList(nil) should report no days")
	}
}
