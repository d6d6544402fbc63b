// Package policy resolves the required work hours for a day and derives the
// expected logout time from them.
package policy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/model"
)

// MaxHours is the largest value accepted for any day.
const MaxHours = 24

// ErrInvalidHours is returned by Validate for negative, non-finite or
// oversized hour values.
var ErrInvalidHours = errors.New("invalid work hours")

// RequiredHours returns the hours p requires on the calendar day of t.
// Saturday uses p.Saturday, Sunday uses p.Sunday when configured, and every
// other day uses p.Weekday.
func RequiredHours(t time.Time, p model.Policy) float64 {
	switch t.Weekday() {
	case time.Saturday:
		return p.Saturday
	case time.Sunday:
		if p.Sunday != nil {
			return *p.Sunday
		}
	}
	return p.Weekday
}

// CoversDay reports whether p has an explicit entry for the day of t. Only
// an unconfigured Sunday is not covered.
func CoversDay(t time.Time, p model.Policy) bool {
	return t.Weekday() != time.Sunday || p.Sunday != nil
}

// Required returns RequiredHours as a duration.
func Required(t time.Time, p model.Policy) time.Duration {
	return hoursToDuration(RequiredHours(t, p))
}

// ExpectedLogout returns login plus the hours required on the login day.
func ExpectedLogout(login time.Time, p model.Policy) time.Time {
	return login.Add(Required(login, p))
}

// ApplyBreakDelta shifts an expected logout time by delta. A removed break
// is applied with a negative delta.
func ApplyBreakDelta(expected time.Time, delta time.Duration) time.Time {
	return expected.Add(delta)
}

// Recompute derives the expected logout time from scratch: login plus the
// required hours plus every recorded break.
func Recompute(login time.Time, p model.Policy, breaks []model.Break) time.Time {
	return ApplyBreakDelta(ExpectedLogout(login, p), model.TotalBreak(breaks))
}

// Validate checks every configured value of p.
func Validate(p model.Policy) error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxHours {
			return fmt.Errorf("%w: %s must be between 0 and %d, got %v", ErrInvalidHours, name, MaxHours, v)
		}
		return nil
	}
	if err := check("weekday", p.Weekday); err != nil {
		return err
	}
	if err := check("saturday", p.Saturday); err != nil {
		return err
	}
	if p.Sunday != nil {
		return check("sunday", *p.Sunday)
	}
	return nil
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
