package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/model"
)

var (
	hoursWeekday  float64
	hoursSaturday float64
	hoursSunday   float64
	hoursNoSunday bool
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show or set the required working hours",
	Long: `Without flags hours prints the current policy. With --weekday, --saturday
or --sunday it saves a new one; expected logout of a running day is
recomputed at once. Values must be between 0 and 24. --clear-sunday drops
the Sunday value so Sundays use the weekday hours again.`,
	Args: cobra.NoArgs,
	RunE: runHours,
}

func init() {
	hoursCmd.Flags().Float64Var(&hoursWeekday, "weekday", 0, "Hours required Monday to Friday")
	hoursCmd.Flags().Float64Var(&hoursSaturday, "saturday", 0, "Hours required on Saturday")
	hoursCmd.Flags().Float64Var(&hoursSunday, "sunday", 0, "Hours required on Sunday (default: weekday hours)")
	hoursCmd.Flags().BoolVar(&hoursNoSunday, "clear-sunday", false, "Use the weekday hours on Sunday again")
	hoursCmd.MarkFlagsMutuallyExclusive("sunday", "clear-sunday")
}

var hoursFlags = []string{"weekday", "saturday", "sunday", "clear-sunday"}

func runHours(cmd *cobra.Command, args []string) error {
	p, changed := applyHours(machine.Policy(), cmd.Flags().Changed)
	if !changed {
		fmt.Print(formatPolicy(p))
		return nil
	}

	if err := machine.SavePolicy(p); err != nil {
		fail(err)
	}
	fmt.Println("Work hours saved.")
	fmt.Print(formatPolicy(p))
	if machine.State().LoggedIn() {
		printExpected()
	}
	return nil
}

// applyHours sets the flags the user passed on p and reports whether any
// of them was given.
func applyHours(p model.Policy, changed func(name string) bool) (model.Policy, bool) {
	given := false
	for _, name := range hoursFlags {
		given = given || changed(name)
	}
	if changed("weekday") {
		p.Weekday = hoursWeekday
	}
	if changed("saturday") {
		p.Saturday = hoursSaturday
	}
	switch {
	case changed("sunday"):
		sunday := hoursSunday
		p.Sunday = &sunday
	case changed("clear-sunday") && hoursNoSunday:
		p.Sunday = nil
	}
	return p, given
}

func formatPolicy(p model.Policy) string {
	sunday := "same as weekday"
	if p.Sunday != nil {
		sunday = fmt.Sprintf("%gh", *p.Sunday)
	}
	return fmt.Sprintf("Weekday:  %gh\nSaturday: %gh\nSunday:   %s\n", p.Weekday, p.Saturday, sunday)
}
