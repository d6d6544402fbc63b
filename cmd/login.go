package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/policy"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Start the work day now",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	now := time.Now()

	if err := machine.Login(now); err != nil {
		fail(err)
	}

	s := machine.Snapshot()
	fmt.Printf("Logged in at %s.\n", now.Format(clockLayout))
	fmt.Printf("Required today: %s\n", timecalc.FormatHMS(policy.Required(now, machine.Policy())))
	if s.ExpectedLogoutTime != nil {
		fmt.Printf("Expected logout: %s\n", s.ExpectedLogoutTime.Format(clockLayout))
	}
	return nil
}
