package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/ledger"
	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Start, end, add or remove breaks",
}

var breakStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a break now",
	Args:  cobra.NoArgs,
	RunE:  runBreakStart,
}

var breakEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the running break",
	Args:  cobra.NoArgs,
	RunE:  runBreakEnd,
}

var breakAddCmd = &cobra.Command{
	Use:   "add <minutes>",
	Short: "Record a break you forgot to start",
	Args:  cobra.ExactArgs(1),
	RunE:  runBreakAdd,
}

var breakRmCmd = &cobra.Command{
	Use:   "rm <index>",
	Short: "Remove a break recorded in the last two minutes",
	Args:  cobra.ExactArgs(1),
	RunE:  runBreakRm,
}

var breakListCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's breaks",
	Args:  cobra.NoArgs,
	RunE:  runBreakList,
}

func init() {
	breakCmd.AddCommand(breakStartCmd)
	breakCmd.AddCommand(breakEndCmd)
	breakCmd.AddCommand(breakAddCmd)
	breakCmd.AddCommand(breakRmCmd)
	breakCmd.AddCommand(breakListCmd)
}

func runBreakStart(cmd *cobra.Command, args []string) error {
	now := time.Now()
	if err := machine.StartBreak(now); err != nil {
		fail(err)
	}
	fmt.Printf("Break started at %s.\n", now.Format(clockLayout))
	return nil
}

func runBreakEnd(cmd *cobra.Command, args []string) error {
	b, err := machine.EndBreak(time.Now())
	if err != nil {
		fail(err)
	}
	fmt.Printf("Break ended: %s.\n", b.Duration)
	printExpected()
	return nil
}

func runBreakAdd(cmd *cobra.Command, args []string) error {
	b, err := machine.AddManualBreak(time.Now(), args[0])
	if err != nil {
		fail(err)
	}
	fmt.Printf("Added break of %s.\n", b.Duration)
	printExpected()
	return nil
}

func runBreakRm(cmd *cobra.Command, args []string) error {
	i, err := parseIndex(args[0], len(machine.Snapshot().Breaks))
	if err != nil {
		fail(err)
	}
	b, err := machine.DeleteBreak(time.Now(), i)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Removed break #%d (%s).\n", i+1, b.Duration)
	printExpected()
	return nil
}

func runBreakList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	s := machine.Snapshot()
	deletable := make([]bool, len(s.Breaks))
	for i := range s.Breaks {
		deletable[i] = machine.DeletableBreak(now, i)
	}
	fmt.Print(formatBreaks(s.Breaks, deletable))
	if s.BreakStart != nil {
		fmt.Printf("On break since %s (%s).\n", s.BreakStart.Format(clockLayout),
			formatElapsed(int64(now.Sub(*s.BreakStart).Seconds())))
	}
	return nil
}

// parseIndex turns a 1-based break number into a ledger index.
func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, usagef("break index %q is not a number", arg)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%w: #%d", ledger.ErrBreakNotFound, i)
	}
	return i - 1, nil
}

// formatBreaks renders the numbered break table; deletable breaks are
// marked with a trailing "*".
func formatBreaks(breaks []model.Break, deletable []bool) string {
	if len(breaks) == 0 {
		return "No breaks recorded.\n"
	}
	var b strings.Builder
	for i, br := range breaks {
		mark := ""
		if i < len(deletable) && deletable[i] {
			mark = " *"
		}
		fmt.Fprintf(&b, "%2d. %s – %s  %s%s\n", i+1,
			br.Start.Format(clockLayout), br.End.Format(clockLayout), br.Duration, mark)
	}
	fmt.Fprintf(&b, "Total: %s\n", timecalc.FormatTotal(model.TotalBreak(breaks)))
	return b.String()
}

func printExpected() {
	if t := machine.Snapshot().ExpectedLogoutTime; t != nil {
		fmt.Printf("Expected logout: %s\n", t.Format(clockLayout))
	}
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
