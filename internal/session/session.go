// Package session implements the login / break / logout / clear cycle of a
// work day. Every mutation persists through the storage port; expected
// logout is always recomputed from login time, policy and breaks.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/archive"
	"github.com/Tiliavir/work-time-tracker/internal/ledger"
	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/policy"
	"github.com/Tiliavir/work-time-tracker/internal/storage"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

// State is the coarse position of the session in its lifecycle.
type State int

const (
	LoggedOut    State = iota // no login recorded
	Working                   // logged in, no break running
	OnBreak                   // logged in, break running
	PendingClear              // logged out, waiting for clear-data
)

func (s State) String() string {
	switch s {
	case Working:
		return "working"
	case OnBreak:
		return "on break"
	case PendingClear:
		return "logged out"
	default:
		return "not logged in"
	}
}

// LoggedIn reports whether the state has a login that is not closed.
func (s State) LoggedIn() bool { return s == Working || s == OnBreak }

var (
	ErrAlreadyLoggedIn = errors.New("already logged in; clear data first")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrOnBreak         = errors.New("a break is in progress")
	ErrNoBreak         = errors.New("no break in progress")
	ErrSessionClosed   = errors.New("session is logged out; clear data first")
)

// Observer is called after every change of State.
type Observer func(prev, next State)

// Machine owns the live session.
type Machine struct {
	store    storage.Store
	archive  *archive.Archive
	ledger   *ledger.Ledger
	defaults model.Policy
	policy   model.Policy

	login    *time.Time
	expected *time.Time
	logout   *time.Time

	observers []Observer
}

// Load rebuilds the machine from store. defaults is the policy used until
// one has been saved.
func Load(store storage.Store, defaults model.Policy) (*Machine, error) {
	m := &Machine{
		store:    store,
		archive:  archive.New(store),
		defaults: defaults,
	}
	if err := m.load(true); err != nil {
		return nil, err
	}
	return m, nil
}

// load reads every session key. With heal set, a missing or drifted
// expected logout is written back; otherwise it is only fixed in memory.
func (m *Machine) load(heal bool) error {
	p, err := loadPolicy(m.store, m.defaults)
	if err != nil {
		return err
	}
	l, err := ledger.Load(m.store)
	if err != nil {
		return err
	}
	login, err := m.readTime(storage.KeyLoginTime)
	if err != nil {
		return err
	}
	logout, err := m.readTime(storage.KeyLogoutTime)
	if err != nil {
		return err
	}
	stored, err := m.readTime(storage.KeyExpectedLogoutTime)
	if err != nil {
		return err
	}

	m.policy, m.ledger, m.login, m.logout, m.expected = p, l, login, logout, stored
	if m.login == nil {
		return nil
	}

	want := policy.Recompute(*m.login, m.policy, m.ledger.Breaks())
	if stored != nil && stored.Equal(want) {
		return nil
	}
	slog.Debug("recomputed expected logout", "stored", stored, "expected", want)
	if heal {
		m.setExpected(&want)
	} else {
		m.expected = &want
	}
	return nil
}

func (m *Machine) readTime(key string) (*time.Time, error) {
	raw, ok, err := m.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	t, err := timecalc.ParseISO(raw)
	if err != nil {
		slog.Warn("ignoring unreadable timestamp", "key", key, "error", err)
		return nil, nil
	}
	return &t, nil
}

func loadPolicy(store storage.Store, defaults model.Policy) (model.Policy, error) {
	raw, ok, err := store.Get(storage.KeyLoginHours)
	if err != nil {
		return defaults, fmt.Errorf("reading %s: %w", storage.KeyLoginHours, err)
	}
	if !ok {
		return defaults, nil
	}
	var p model.Policy
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.Warn("ignoring unreadable work hours", "error", err)
		return defaults, nil
	}
	if err := policy.Validate(p); err != nil {
		slog.Warn("ignoring invalid work hours", "error", err)
		return defaults, nil
	}
	return p, nil
}

// Reload re-reads the store, picking up changes made by another process,
// and notifies observers if the state moved. It never writes.
func (m *Machine) Reload() error {
	prev := m.State()
	if err := m.load(false); err != nil {
		return err
	}
	m.notify(prev)
	return nil
}

// Subscribe registers o for state changes.
func (m *Machine) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Machine) notify(prev State) {
	next := m.State()
	if next == prev {
		return
	}
	for _, o := range m.observers {
		o(prev, next)
	}
}

// State derives the lifecycle state from the recorded timestamps.
func (m *Machine) State() State {
	switch {
	case m.login == nil:
		return LoggedOut
	case m.logout != nil:
		return PendingClear
	}
	if _, ok := m.ledger.InProgress(); ok {
		return OnBreak
	}
	return Working
}

// Policy returns the active work-hours policy.
func (m *Machine) Policy() model.Policy { return m.policy }

// Archive returns the record archive sharing the machine's store.
func (m *Machine) Archive() *archive.Archive { return m.archive }

// Snapshot copies the live session.
func (m *Machine) Snapshot() model.Session {
	s := model.Session{
		LoginTime:          copyTime(m.login),
		ExpectedLogoutTime: copyTime(m.expected),
		LogoutTime:         copyTime(m.logout),
		Breaks:             m.ledger.Breaks(),
	}
	if start, ok := m.ledger.InProgress(); ok {
		s.BreakStart = &start
	}
	return s
}

// DeletableBreak reports whether break index may still be deleted at now.
func (m *Machine) DeletableBreak(now time.Time, index int) bool {
	return m.State().LoggedIn() && m.ledger.Deletable(now, index)
}

// Login starts a new work day at now.
func (m *Machine) Login(now time.Time) error {
	if m.login != nil {
		if m.logout != nil {
			return ErrSessionClosed
		}
		return ErrAlreadyLoggedIn
	}
	prev := m.State()

	// Drop leftovers of an earlier day.
	m.ledger.Reset()
	for _, key := range []string{storage.KeyLogoutTime, storage.KeyBreakStartTime, storage.KeyBreaks} {
		m.remove(key)
	}
	m.logout = nil

	if !policy.CoversDay(now, m.policy) {
		slog.Warn("no work hours configured for this day; using weekday hours",
			"day", now.Weekday().String(), "hours", policy.RequiredHours(now, m.policy))
	}

	m.login = &now
	m.put(storage.KeyLoginTime, timecalc.FormatISO(now))
	m.recompute()
	m.notify(prev)
	return nil
}

// StartBreak starts a break at now.
func (m *Machine) StartBreak(now time.Time) error {
	if err := m.requireOpen(); err != nil {
		return err
	}
	prev := m.State()
	if prev == OnBreak {
		return ErrOnBreak
	}
	if err := m.ledger.Start(now); err != nil {
		return err
	}
	m.notify(prev)
	return nil
}

// EndBreak closes the running break at now and extends expected logout.
func (m *Machine) EndBreak(now time.Time) (model.Break, error) {
	if err := m.requireOpen(); err != nil {
		return model.Break{}, err
	}
	prev := m.State()
	if prev != OnBreak {
		return model.Break{}, ErrNoBreak
	}
	b, err := m.ledger.End(now)
	if err != nil {
		return model.Break{}, err
	}
	m.recompute()
	m.notify(prev)
	return b, nil
}

// AddManualBreak records a break of input minutes.
func (m *Machine) AddManualBreak(now time.Time, input string) (model.Break, error) {
	if err := m.requireOpen(); err != nil {
		return model.Break{}, err
	}
	b, err := m.ledger.AddManual(now, input)
	if err != nil {
		return model.Break{}, err
	}
	m.recompute()
	return b, nil
}

// DeleteBreak removes break index if it is inside the grace window.
func (m *Machine) DeleteBreak(now time.Time, index int) (model.Break, error) {
	if err := m.requireOpen(); err != nil {
		return model.Break{}, err
	}
	b, err := m.ledger.Delete(now, index)
	if err != nil {
		return model.Break{}, err
	}
	m.recompute()
	return b, nil
}

// Logout closes the session at now. Without confirmation nothing happens.
func (m *Machine) Logout(now time.Time, confirm bool) error {
	if err := m.requireOpen(); err != nil {
		return err
	}
	prev := m.State()
	if prev == OnBreak {
		return ErrOnBreak
	}
	if !confirm {
		return nil
	}
	m.logout = &now
	m.put(storage.KeyLogoutTime, timecalc.FormatISO(now))
	m.notify(prev)
	return nil
}

// Clear archives the session and resets it to LoggedOut. Work hours, theme
// and the archive itself are kept. overwrite decides whether an existing
// record for the same day is replaced; declining does not stop the reset.
func (m *Machine) Clear(now time.Time, confirm bool, overwrite archive.ConfirmFunc) (archive.Outcome, error) {
	if m.login == nil {
		return archive.Skipped, ErrNotLoggedIn
	}
	if !confirm {
		return archive.Skipped, nil
	}
	prev := m.State()

	outcome, archErr := m.archive.Finalize(m.Snapshot(), now, overwrite)
	if archErr != nil {
		slog.Error("archiving session", "error", archErr)
	}

	if err := storage.ClearSession(m.store); err != nil {
		slog.Error("clearing session storage", "error", err)
	}
	m.ledger.Reset()
	m.login, m.expected, m.logout = nil, nil, nil
	m.notify(prev)

	if archErr != nil {
		return outcome, fmt.Errorf("session cleared but not archived: %w", archErr)
	}
	return outcome, nil
}

// SavePolicy stores p and, while a login exists, recomputes expected logout
// from the current login time.
func (m *Machine) SavePolicy(p model.Policy) error {
	if err := policy.Validate(p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding work hours: %w", err)
	}
	m.policy = p
	m.put(storage.KeyLoginHours, string(data))
	m.recompute()
	return nil
}

func (m *Machine) requireOpen() error {
	switch m.State() {
	case LoggedOut:
		return ErrNotLoggedIn
	case PendingClear:
		return ErrSessionClosed
	}
	return nil
}

func (m *Machine) recompute() {
	if m.login == nil {
		m.setExpected(nil)
		return
	}
	t := policy.Recompute(*m.login, m.policy, m.ledger.Breaks())
	m.setExpected(&t)
}

func (m *Machine) setExpected(t *time.Time) {
	m.expected = t
	if t == nil {
		m.remove(storage.KeyExpectedLogoutTime)
		return
	}
	m.put(storage.KeyExpectedLogoutTime, timecalc.FormatISO(*t))
}

// put and remove are best effort; see ledger.
func (m *Machine) put(key, value string) {
	if err := m.store.Set(key, value); err != nil {
		slog.Error("persisting value", "key", key, "error", err)
	}
}

func (m *Machine) remove(key string) {
	if err := m.store.Remove(key); err != nil {
		slog.Error("removing value", "key", key, "error", err)
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
