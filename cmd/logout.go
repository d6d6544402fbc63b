package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/prompt"
	"github.com/Tiliavir/work-time-tracker/internal/session"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

var logoutYes bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the work day now",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Do not ask for confirmation")
}

func runLogout(cmd *cobra.Command, args []string) error {
	// Check the transition before asking.
	switch machine.State() {
	case session.LoggedOut:
		fail(session.ErrNotLoggedIn)
	case session.PendingClear:
		fail(session.ErrSessionClosed)
	case session.OnBreak:
		fail(session.ErrOnBreak)
	}

	ok, err := confirmer(logoutYes).Confirm(prompt.Question{
		Title:       "Are you sure you want to log out?",
		Affirmative: "Log out",
		Negative:    "Cancel",
	})
	if err != nil {
		exit(1, fmt.Errorf("confirmation: %w", err))
	}

	now := time.Now()
	if err := machine.Logout(now, ok); err != nil {
		fail(err)
	}
	if !ok {
		fmt.Println("Logout cancelled.")
		return nil
	}

	p := machine.Progress(now)
	fmt.Printf("Logged out at %s.\n", now.Format(clockLayout))
	fmt.Printf("Total break: %s\n", timecalc.FormatTotal(p.BreakTotal))
	fmt.Printf("Total logged in: %s\n", timecalc.FormatHMS(p.LoggedIn))
	return nil
}

// confirmer answers yes without asking when the user passed --yes.
func confirmer(yes bool) prompt.Confirmer {
	if yes {
		return prompt.Fixed(true)
	}
	return prompt.Terminal{}
}
