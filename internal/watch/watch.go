// Package watch drives the live displays: a break timer while a break runs
// and a work timer while logged in and working. Each timer is a
// subscription to the session's state; it is armed and disarmed exactly on
// state transitions and only reads the session.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/session"
)

// Tick is handed to a timer on every heartbeat while it is armed.
type Tick struct {
	Now time.Time
	// Since is how long the timer has been armed.
	Since    time.Duration
	Progress session.Progress
}

// Timer is one display recomputation.
type Timer struct {
	Name   string
	Active func(session.State) bool
	OnTick func(Tick)

	armed   bool
	armedAt time.Time
}

// Loop owns the timers of one session machine.
type Loop struct {
	machine  *session.Machine
	timers   []*Timer
	interval time.Duration
	stepAt   time.Time
	onChange func(prev, next session.State)
}

// New creates a Loop ticking every interval and subscribes it to m.
func New(m *session.Machine, interval time.Duration) *Loop {
	l := &Loop{machine: m, interval: interval}
	m.Subscribe(l.transition)
	return l
}

// BreakActive and WorkActive are the conditions of the two standard timers.
func BreakActive(s session.State) bool { return s == session.OnBreak }
func WorkActive(s session.State) bool  { return s == session.Working }

// Add registers a timer and arms it at once if its condition already holds.
func (l *Loop) Add(t *Timer) {
	l.timers = append(l.timers, t)
	if t.Active(l.machine.State()) {
		t.arm(l.clock())
	}
}

// clock is the time of the running Step, or the wall clock outside one.
func (l *Loop) clock() time.Time {
	if !l.stepAt.IsZero() {
		return l.stepAt
	}
	return time.Now()
}

// OnTransition registers a callback for state changes seen by the loop.
func (l *Loop) OnTransition(fn func(prev, next session.State)) {
	l.onChange = fn
}

// Armed reports whether the named timer is currently armed.
func (l *Loop) Armed(name string) bool {
	for _, t := range l.timers {
		if t.Name == name {
			return t.armed
		}
	}
	return false
}

func (l *Loop) transition(prev, next session.State) {
	now := l.clock()
	for _, t := range l.timers {
		switch active := t.Active(next); {
		case active && !t.armed:
			t.arm(now)
		case !active && t.armed:
			t.disarm()
		}
	}
	if l.onChange != nil {
		l.onChange(prev, next)
	}
}

func (t *Timer) arm(now time.Time) {
	t.armed = true
	t.armedAt = now
}

func (t *Timer) disarm() {
	t.armed = false
	t.armedAt = time.Time{}
}

// Step runs one heartbeat at now: it re-reads the session, which may arm or
// disarm timers, and fires every armed timer.
func (l *Loop) Step(now time.Time) error {
	l.stepAt = now
	defer func() { l.stepAt = time.Time{} }()

	if err := l.machine.Reload(); err != nil {
		return err
	}
	p := l.machine.Progress(now)
	for _, t := range l.timers {
		if !t.armed || t.OnTick == nil {
			continue
		}
		t.OnTick(Tick{Now: now, Since: now.Sub(t.armedAt), Progress: p})
	}
	return nil
}

// Run steps the loop every interval until ctx is done. Reload errors are
// logged and the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := l.Step(now); err != nil {
				slog.Error("refreshing session", "error", err)
			}
		}
	}
}
