package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/archive"
	"github.com/Tiliavir/work-time-tracker/internal/prompt"
	"github.com/Tiliavir/work-time-tracker/internal/session"
)

const (
	overwriteAsk = "ask"
	overwriteYes = "yes"
	overwriteNo  = "no"
)

var (
	clearYes       bool
	clearOverwrite string
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Archive today's record and reset the session",
	Long: `clear stores the current day in the archive and resets the session so a
new day can start. Work hours, theme and the archive are kept.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
	clearCmd.Flags().StringVar(&clearOverwrite, "overwrite", overwriteAsk, "Replace an existing record for the same day: ask, yes, no")
}

func runClear(cmd *cobra.Command, args []string) error {
	overwrite, err := overwritePolicy(clearOverwrite, prompt.Terminal{})
	if err != nil {
		fail(err)
	}
	if machine.State() == session.LoggedOut {
		fail(session.ErrNotLoggedIn)
	}

	ok, err := confirmer(clearYes).Confirm(prompt.Question{
		Title:       "Clear today's data?",
		Description: "The day is archived and the session reset.",
		Affirmative: "Clear",
		Negative:    "Cancel",
	})
	if err != nil {
		exit(1, fmt.Errorf("confirmation: %w", err))
	}

	outcome, err := machine.Clear(time.Now(), ok, overwrite)
	if err != nil {
		fail(err)
	}
	if !ok {
		fmt.Println("Clear cancelled.")
		return nil
	}
	fmt.Printf("Session cleared (record %s).\n", outcome)
	return nil
}

// overwritePolicy maps the --overwrite flag to an archive.ConfirmFunc.
func overwritePolicy(flag string, c prompt.Confirmer) (archive.ConfirmFunc, error) {
	switch flag {
	case overwriteAsk:
		return prompt.Overwrite(c), nil
	case overwriteYes:
		return archive.Always, nil
	case overwriteNo:
		return archive.Never, nil
	default:
		return nil, usagef("--overwrite must be %s, %s or %s, got %q", overwriteAsk, overwriteYes, overwriteNo, flag)
	}
}
