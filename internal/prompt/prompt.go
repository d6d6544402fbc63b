// Package prompt asks the user to confirm destructive actions.
package prompt

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh"

	"github.com/Tiliavir/work-time-tracker/internal/archive"
	"github.com/Tiliavir/work-time-tracker/internal/model"
)

// Question is a yes/no confirmation.
type Question struct {
	Title       string
	Description string
	Affirmative string
	Negative    string
}

// Confirmer answers questions.
type Confirmer interface {
	Confirm(q Question) (bool, error)
}

// Terminal asks interactively.
type Terminal struct{}

func (Terminal) Confirm(q Question) (bool, error) {
	var ok bool
	c := huh.NewConfirm().
		Title(q.Title).
		Value(&ok)
	if q.Description != "" {
		c = c.Description(q.Description)
	}
	if q.Affirmative != "" {
		c = c.Affirmative(q.Affirmative)
	}
	if q.Negative != "" {
		c = c.Negative(q.Negative)
	}
	if err := huh.NewForm(huh.NewGroup(c)).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// Fixed always gives the same answer, e.g. for --yes.
type Fixed bool

func (f Fixed) Confirm(Question) (bool, error) { return bool(f), nil }

// Overwrite asks c before an archived record is replaced. A failed prompt
// keeps the existing record.
func Overwrite(c Confirmer) archive.ConfirmFunc {
	return func(existing model.Record) bool {
		ok, err := c.Confirm(Question{
			Title:       fmt.Sprintf("A record for %s already exists. Overwrite it?", existing.Date),
			Description: fmt.Sprintf("Logged in at %s, breaks %s.", existing.LoginTime.Format("15:04"), existing.TotalBreakTime),
			Affirmative: "Overwrite",
			Negative:    "Keep",
		})
		if err != nil {
			slog.Warn("overwrite prompt failed; keeping existing record", "date", existing.Date, "error", err)
			return false
		}
		return ok
	}
}
