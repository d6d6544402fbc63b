package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/work-time-tracker/internal/storage"
)

var themeCmd = &cobra.Command{
	Use:   "theme [on|off]",
	Short: "Toggle or set dark mode for styled output",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	dark := !darkMode(store)
	if len(args) == 1 {
		v, err := parseSwitch(args[0])
		if err != nil {
			fail(err)
		}
		dark = v
	}
	if err := store.Set(storage.KeyThemeMode, strconv.FormatBool(dark)); err != nil {
		exit(2, fmt.Errorf("saving theme: %w", err))
	}
	st := newStyles(dark)
	if dark {
		fmt.Println(st.title.Render("Dark mode on."))
	} else {
		fmt.Println(st.title.Render("Dark mode off."))
	}
	return nil
}

func parseSwitch(arg string) (bool, error) {
	switch arg {
	case "on", "dark":
		return true, nil
	case "off", "light":
		return false, nil
	}
	return false, usagef("theme must be on or off, got %q", arg)
}

// darkMode reads the stored theme; it is a JSON boolean.
func darkMode(s storage.Store) bool {
	raw, ok, err := s.Get(storage.KeyThemeMode)
	if err != nil {
		slog.Warn("reading theme", "error", err)
		return false
	}
	if !ok {
		return false
	}
	var dark bool
	if err := json.Unmarshal([]byte(raw), &dark); err != nil {
		slog.Warn("ignoring invalid theme", "value", raw)
		return false
	}
	return dark
}

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	accent lipgloss.Style
}

func newStyles(dark bool) styles {
	fg, dim, accent := lipgloss.Color("236"), lipgloss.Color("243"), lipgloss.Color("57")
	if dark {
		fg, dim, accent = lipgloss.Color("252"), lipgloss.Color("245"), lipgloss.Color("99")
	}
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		label:  lipgloss.NewStyle().Foreground(dim).Width(18),
		value:  lipgloss.NewStyle().Foreground(fg),
		muted:  lipgloss.NewStyle().Foreground(dim),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		accent: lipgloss.NewStyle().Foreground(accent),
	}
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value)
}
