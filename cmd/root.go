package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/config"
	"github.com/Tiliavir/work-time-tracker/internal/ledger"
	"github.com/Tiliavir/work-time-tracker/internal/logging"
	"github.com/Tiliavir/work-time-tracker/internal/policy"
	"github.com/Tiliavir/work-time-tracker/internal/session"
	"github.com/Tiliavir/work-time-tracker/internal/storage"
)

// clockLayout is how wall-clock times are printed.
const clockLayout = "03:04:05 PM"

var logLevel string

// Set up by the root command before any subcommand runs.
var (
	cfg     config.Config
	store   storage.Backend
	machine *session.Machine
)

var rootCmd = &cobra.Command{
	Use:   "wtt",
	Short: "Work Time Tracker – log in, take breaks, know when you can leave",
	Long: `wtt tracks a single work day: login time, breaks and logout.
It tells you when you may log out given your required hours, keeps a short
archive of past days and exports a report of the day.
All data is stored in ~/.wtt/ (or $WTT_HOME).`,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(hoursCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(themeCmd)
}

// setup loads config, opens the store, prunes the archive and restores the
// session.
func setup(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		exit(2, err)
	}

	// Log config problems at the flag's level until the config is known.
	logging.Setup(os.Stderr, logLevel)
	cfg, err = config.Load(base)
	if err != nil {
		exit(2, err)
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logging.Setup(os.Stderr, level)

	store, err = storage.Open(cfg.Storage.Backend, base, cfg.Storage.Path)
	if err != nil {
		exit(2, err)
	}

	m, err := session.Load(store, cfg.DefaultHours)
	if err != nil {
		exit(2, err)
	}
	machine = m

	if _, err := machine.Archive().Prune(time.Now(), cfg.RetentionDays); err != nil {
		slog.Warn("pruning archive", "error", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	return closeStore()
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// userErrors are rejected actions; anything else is a storage or config
// failure.
var userErrors = []error{
	session.ErrAlreadyLoggedIn,
	session.ErrNotLoggedIn,
	session.ErrOnBreak,
	session.ErrNoBreak,
	session.ErrSessionClosed,
	ledger.ErrInvalidMinutes,
	ledger.ErrBreakInProgress,
	ledger.ErrNoBreakInProgress,
	ledger.ErrBreakNotFound,
	ledger.ErrGraceExpired,
	policy.ErrInvalidHours,
	errUsage,
}

// errUsage marks bad command-line input detected by a command itself.
var errUsage = errors.New("invalid input")

// exitCode maps err to the process exit status: 1 for a rejected action,
// 2 for storage or config errors.
func exitCode(err error) int {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return 1
		}
	}
	return 2
}

// fail reports err on stderr and exits with exitCode(err).
func fail(err error) {
	exit(exitCode(err), err)
}

func exit(code int, err error) {
	fmt.Fprintln(os.Stderr, message(err))
	if cerr := closeStore(); cerr != nil {
		slog.Error("closing store", "error", cerr)
	}
	os.Exit(code)
}

// message strips the sentinel wrapping from user-facing errors.
func message(err error) string {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

// usagef builds an errUsage with a readable message.
func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}
