package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/report"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

var historyList bool

var historyCmd = &cobra.Command{
	Use:   "history [YYYY-MM-DD]",
	Short: "Show an archived day (latest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVarP(&historyList, "list", "l", false, "List archived days")
}

func runHistory(cmd *cobra.Command, args []string) error {
	now := time.Now()
	st := newStyles(darkMode(store))

	records, err := machine.Archive().List()
	if err != nil {
		exit(2, err)
	}

	if historyList {
		fmt.Print(renderRecordList(records, st))
		return nil
	}

	if len(args) == 0 {
		if len(records) == 0 {
			fmt.Println("No archived days.")
			return nil
		}
		fmt.Print(renderRecord(latest(records), st))
		return nil
	}

	key, err := historyDate(args[0], now, cfg.RetentionDays)
	if err != nil {
		fail(err)
	}
	r, ok, err := machine.Archive().Query(key)
	if err != nil {
		exit(2, err)
	}
	if !ok {
		exit(1, fmt.Errorf("no record for %s", key))
	}
	fmt.Print(renderRecord(r, st))
	return nil
}

// historyDate validates a date argument against the retention window
// ending today.
func historyDate(arg string, now time.Time, retentionDays int) (string, error) {
	day, err := timecalc.ParseDateKey(strings.TrimSpace(arg), now.Location())
	if err != nil {
		return "", usagef("%v", err)
	}
	if day.After(timecalc.StartOfDay(now)) {
		return "", usagef("%s is in the future", timecalc.DateKey(day))
	}
	// Prune drops records this old, so they can never be found.
	if timecalc.DaysBetween(day, now) >= retentionDays {
		return "", usagef("%s is older than %d days; only recent days are kept", timecalc.DateKey(day), retentionDays-1)
	}
	return timecalc.DateKey(day), nil
}

// latest returns the record with the greatest date key.
func latest(records []model.Record) model.Record {
	best := records[0]
	for _, r := range records[1:] {
		if r.Date > best.Date {
			best = r
		}
	}
	return best
}

func renderRecordList(records []model.Record, st styles) string {
	if len(records) == 0 {
		return "No archived days.\n"
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s  %s\n", st.accent.Render(r.Date),
			st.muted.Render(fmt.Sprintf("breaks %s, logged in %s", r.TotalBreakTime, r.TotalLoggedInTime)))
	}
	return b.String()
}

func renderRecord(r model.Record, st styles) string {
	sum := report.FromRecord(r)
	var b strings.Builder
	b.WriteString(st.title.Render(r.Date+" ("+sum.Date+")") + "\n")
	b.WriteString(st.row("Login", sum.Login) + "\n")
	b.WriteString(st.row("Expected logout", sum.ExpectedLogout) + "\n")
	b.WriteString(st.row("Logout", sum.Logout) + "\n")
	b.WriteString(st.row("Total break", sum.TotalBreak) + "\n")
	b.WriteString(st.row("Total logged in", sum.TotalLoggedIn) + "\n")
	for i, br := range sum.Breaks {
		b.WriteString(st.muted.Render(fmt.Sprintf("%2d. %s – %s  %s", i+1, br.Start, br.End, br.Duration)) + "\n")
	}
	return b.String()
}
