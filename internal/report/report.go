// Package report renders a day's summary and break table for download.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/archive"
	"github.com/Tiliavir/work-time-tracker/internal/model"
)

const (
	timeLayout = "03:04:05 PM"
	dateLayout = "Mon 02/01"
	na         = "N/A"
)

// Formats accepted by Write.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatMD   = "md"
	FormatXLSX = "xlsx"
)

var (
	SummaryHeader = []string{"Date", "Login Time", "Expected Logout Time", "Logout Time", "Total Break Duration", "Total Logged In Hours"}
	BreaksHeader  = []string{"Break Start", "Break End", "Break Duration"}
)

// ErrNoLogin is returned when there is nothing to report.
var ErrNoLogin = errors.New("no login recorded")

// Summary is the report of one day.
type Summary struct {
	Date           string     `json:"date"`
	Login          string     `json:"login"`
	ExpectedLogout string     `json:"expected_logout"`
	Logout         string     `json:"logout"`
	TotalBreak     string     `json:"total_break"`
	TotalLoggedIn  string     `json:"total_logged_in"`
	Breaks         []BreakRow `json:"breaks"`
}

// BreakRow is one line of the breaks table.
type BreakRow struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
}

// FromSession builds the report of the live session.
func FromSession(s model.Session) (Summary, error) {
	if s.LoginTime == nil {
		return Summary{}, ErrNoLogin
	}
	return FromRecord(archive.BuildRecord(s)), nil
}

// FromRecord builds the report of an archived day.
func FromRecord(r model.Record) Summary {
	sum := Summary{
		Date:           r.LoginTime.Format(dateLayout),
		Login:          clock(&r.LoginTime),
		ExpectedLogout: clock(&r.ExpectedLogoutTime),
		Logout:         clock(r.LogoutTime),
		TotalBreak:     r.TotalBreakTime,
		TotalLoggedIn:  r.TotalLoggedInTime,
		Breaks:         make([]BreakRow, 0, len(r.Breaks)),
	}
	for _, b := range r.Breaks {
		sum.Breaks = append(sum.Breaks, BreakRow{
			Start:    clock(&b.Start),
			End:      clock(&b.End),
			Duration: b.Duration,
		})
	}
	return sum
}

func clock(t *time.Time) string {
	if t == nil || t.IsZero() {
		return na
	}
	return t.Format(timeLayout)
}

// Rows lays the summary out as a sheet: header, values, a blank row, the
// "Breaks Table" caption, then the breaks header and rows.
func (s Summary) Rows() [][]string {
	rows := [][]string{
		SummaryHeader,
		{s.Date, s.Login, s.ExpectedLogout, s.Logout, s.TotalBreak, s.TotalLoggedIn},
		{""},
		{"Breaks Table"},
		BreaksHeader,
	}
	for _, b := range s.Breaks {
		rows = append(rows, []string{b.Start, b.End, b.Duration})
	}
	return rows
}

// DefaultFilename is the download name for format.
func DefaultFilename(format string) string {
	return "LoginBreaksReport." + format
}

// Write renders s to w in format.
func Write(w io.Writer, format string, s Summary) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatMD:
		return WriteMarkdown(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	default:
		return fmt.Errorf("unknown format %q (want csv, json, md or xlsx)", format)
	}
}

// WriteCSV writes the sheet rows as CSV.
func WriteCSV(w io.Writer, s Summary) error {
	for _, row := range s.Rows() {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = csvEscape(c)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, ",")); err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteMarkdown writes the summary and breaks as two Markdown tables.
func WriteMarkdown(w io.Writer, s Summary) error {
	var b strings.Builder
	mdRow(&b, SummaryHeader)
	mdRule(&b, len(SummaryHeader))
	mdRow(&b, []string{s.Date, s.Login, s.ExpectedLogout, s.Logout, s.TotalBreak, s.TotalLoggedIn})
	b.WriteString("\n### Breaks\n\n")
	if len(s.Breaks) == 0 {
		b.WriteString("No breaks recorded.\n")
	} else {
		mdRow(&b, BreaksHeader)
		mdRule(&b, len(BreaksHeader))
		for _, br := range s.Breaks {
			mdRow(&b, []string{br.Start, br.End, br.Duration})
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func mdRow(b *strings.Builder, cells []string) {
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}

func mdRule(b *strings.Builder, n int) {
	b.WriteString("|" + strings.Repeat(" --- |", n) + "\n")
}
