package session

import (
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/archive"
	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/policy"
)

// Progress is a read-only view of the session at one instant. It is what
// the live timers display; computing it never touches storage.
type Progress struct {
	State State
	// Required is the work time the policy asks for on the login day.
	Required time.Duration
	// Worked is the effective time: elapsed since login minus breaks. It
	// stops advancing during a break and at logout.
	Worked time.Duration
	// Percent is Worked as a whole percentage of Required.
	Percent int
	// Remaining is the time left until expected logout; negative once it
	// has passed.
	Remaining time.Duration
	// BreakElapsed is the length of the running break so far.
	BreakElapsed time.Duration
	// BreakTotal sums the recorded breaks.
	BreakTotal time.Duration
	// LoggedIn is logout minus login minus breaks, once logged out.
	LoggedIn    time.Duration
	HasLoggedIn bool
}

// Progress derives the live figures at now.
func (m *Machine) Progress(now time.Time) Progress {
	return Compute(m.Snapshot(), m.policy, now)
}

// Compute derives Progress for s under p at now.
func Compute(s model.Session, p model.Policy, now time.Time) Progress {
	pr := Progress{State: stateOf(s), BreakTotal: model.TotalBreak(s.Breaks)}
	if s.LoginTime == nil {
		return pr
	}
	login := *s.LoginTime
	pr.Required = policy.Required(login, p)

	until := now
	switch {
	case s.LogoutTime != nil:
		until = *s.LogoutTime
	case s.BreakStart != nil:
		until = *s.BreakStart
		pr.BreakElapsed = now.Sub(*s.BreakStart)
	}
	pr.Worked = until.Sub(login) - pr.BreakTotal

	switch {
	case pr.Worked <= 0:
		pr.Percent = 0
	case pr.Required <= 0:
		pr.Percent = 100
	default:
		pr.Percent = int(pr.Worked * 100 / pr.Required)
	}

	if s.ExpectedLogoutTime != nil && s.LogoutTime == nil {
		pr.Remaining = s.ExpectedLogoutTime.Sub(now)
	}
	pr.LoggedIn, pr.HasLoggedIn = archive.TotalLoggedIn(s)
	return pr
}

func stateOf(s model.Session) State {
	switch {
	case s.LoginTime == nil:
		return LoggedOut
	case s.LogoutTime != nil:
		return PendingClear
	case s.BreakStart != nil:
		return OnBreak
	}
	return Working
}
