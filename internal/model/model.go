package model

import (
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

// Break is a single rest interval. Manual entries carry Start == End; their
// Duration field is authoritative for every total.
type Break struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"`
}

// Elapsed returns the parsed Duration field.
func (b Break) Elapsed() time.Duration {
	return timecalc.ParseBreak(b.Duration)
}

// Durations extracts the stored duration strings of breaks.
func Durations(breaks []Break) []string {
	out := make([]string, len(breaks))
	for i, b := range breaks {
		out[i] = b.Duration
	}
	return out
}

// TotalBreak sums the durations of breaks.
func TotalBreak(breaks []Break) time.Duration {
	return timecalc.SumBreaks(Durations(breaks))
}

// Policy holds the required work hours per day. Sunday is optional; when it
// is nil the weekday value applies.
type Policy struct {
	Weekday  float64  `json:"weekday"`
	Saturday float64  `json:"saturday"`
	Sunday   *float64 `json:"sunday,omitempty"`
}

// DefaultPolicy is used until the user saves their own hours.
func DefaultPolicy() Policy {
	return Policy{Weekday: 8, Saturday: 5}
}

// Session is a snapshot of the live work day. Nil pointers mean "absent".
type Session struct {
	LoginTime          *time.Time `json:"loginTime"`
	ExpectedLogoutTime *time.Time `json:"expectedLogoutTime"`
	LogoutTime         *time.Time `json:"logoutTime"`
	BreakStart         *time.Time `json:"breakStartTime"`
	Breaks             []Break    `json:"breaks"`
}

// Record is the archived summary of one calendar day, keyed by Date.
type Record struct {
	Date               string     `json:"date"`
	LoginTime          time.Time  `json:"loginTime"`
	ExpectedLogoutTime time.Time  `json:"expectedLogoutTime"`
	LogoutTime         *time.Time `json:"logoutTime"`
	Breaks             []Break    `json:"breaks"`
	TotalLoggedInTime  string     `json:"totalLoggedInTime"`
	TotalBreakTime     string     `json:"totalBreakTime"`
}
