// Package ledger keeps the ordered list of breaks of the live session and
// the break that is currently running, persisting both on every change.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/storage"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

// GraceWindow is how long after its end a break may still be deleted.
const GraceWindow = 2 * time.Minute

var (
	ErrInvalidMinutes    = errors.New("invalid break minutes")
	ErrBreakInProgress   = errors.New("a break is already in progress")
	ErrNoBreakInProgress = errors.New("no break in progress")
	ErrBreakNotFound     = errors.New("break not found")
	ErrGraceExpired      = errors.New("break can no longer be deleted")
)

// ValidationError describes rejected user input. It unwraps to
// ErrInvalidMinutes.
type ValidationError struct {
	Input   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidMinutes }

// Ledger holds the breaks of one session in creation order.
type Ledger struct {
	store  storage.Store
	breaks []model.Break
	active *time.Time
}

// New returns an empty ledger backed by store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store, breaks: []model.Break{}}
}

// Load restores the ledger from store. Unreadable values are logged and
// treated as absent so a damaged entry never blocks the tracker.
func Load(store storage.Store) (*Ledger, error) {
	l := New(store)

	raw, ok, err := store.Get(storage.KeyBreaks)
	if err != nil {
		return nil, fmt.Errorf("reading breaks: %w", err)
	}
	if ok && raw != "" {
		var breaks []model.Break
		if err := json.Unmarshal([]byte(raw), &breaks); err != nil {
			slog.Warn("ignoring unreadable breaks", "key", storage.KeyBreaks, "error", err)
		} else if breaks != nil {
			l.breaks = breaks
		}
	}

	raw, ok, err = store.Get(storage.KeyBreakStartTime)
	if err != nil {
		return nil, fmt.Errorf("reading break start: %w", err)
	}
	if ok {
		start, err := timecalc.ParseISO(raw)
		if err != nil {
			slog.Warn("ignoring unreadable break start", "key", storage.KeyBreakStartTime, "error", err)
		} else {
			l.active = &start
		}
	}
	return l, nil
}

// Breaks returns a copy of the recorded breaks.
func (l *Ledger) Breaks() []model.Break {
	out := make([]model.Break, len(l.breaks))
	copy(out, l.breaks)
	return out
}

// Len returns the number of recorded breaks.
func (l *Ledger) Len() int { return len(l.breaks) }

// InProgress returns the start of the running break, if any.
func (l *Ledger) InProgress() (time.Time, bool) {
	if l.active == nil {
		return time.Time{}, false
	}
	return *l.active, true
}

// Total sums every recorded break. The running break is not included.
func (l *Ledger) Total() time.Duration {
	return model.TotalBreak(l.breaks)
}

// Start begins a break at now.
func (l *Ledger) Start(now time.Time) error {
	if l.active != nil {
		return ErrBreakInProgress
	}
	l.active = &now
	l.put(storage.KeyBreakStartTime, timecalc.FormatISO(now))
	return nil
}

// End closes the running break at now and appends it.
func (l *Ledger) End(now time.Time) (model.Break, error) {
	if l.active == nil {
		return model.Break{}, ErrNoBreakInProgress
	}
	start := *l.active
	b := model.Break{
		Start:    start,
		End:      now,
		Duration: timecalc.FormatBreak(now.Sub(start)),
	}
	l.breaks = append(l.breaks, b)
	l.active = nil
	l.remove(storage.KeyBreakStartTime)
	l.persistBreaks()
	return b, nil
}

// ParseMinutes validates manual break input: a positive whole number.
func ParseMinutes(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return 0, &ValidationError{Input: input, Message: "Please enter a valid number of minutes."}
	}
	return n, nil
}

// AddManual records a break of the given minutes. Start and End are both
// now; only the duration counts.
func (l *Ledger) AddManual(now time.Time, input string) (model.Break, error) {
	minutes, err := ParseMinutes(input)
	if err != nil {
		return model.Break{}, err
	}
	b := model.Break{
		Start:    now,
		End:      now,
		Duration: fmt.Sprintf("%dm 0s", minutes),
	}
	l.breaks = append(l.breaks, b)
	l.persistBreaks()
	return b, nil
}

// Deletable reports whether the break at index is still inside the grace
// window at now.
func (l *Ledger) Deletable(now time.Time, index int) bool {
	if index < 0 || index >= len(l.breaks) {
		return false
	}
	return now.Sub(l.breaks[index].End) <= GraceWindow
}

// Delete removes the break at index if it ended at most GraceWindow ago.
func (l *Ledger) Delete(now time.Time, index int) (model.Break, error) {
	if index < 0 || index >= len(l.breaks) {
		return model.Break{}, fmt.Errorf("%w: index %d of %d", ErrBreakNotFound, index, len(l.breaks))
	}
	if !l.Deletable(now, index) {
		return model.Break{}, fmt.Errorf("%w: it ended %s ago", ErrGraceExpired,
			timecalc.FormatBreak(now.Sub(l.breaks[index].End)))
	}
	removed := l.breaks[index]
	l.breaks = append(l.breaks[:index:index], l.breaks[index+1:]...)
	l.persistBreaks()
	return removed, nil
}

// Reset forgets every break in memory. The caller clears storage.
func (l *Ledger) Reset() {
	l.breaks = []model.Break{}
	l.active = nil
}

func (l *Ledger) persistBreaks() {
	data, err := json.Marshal(l.breaks)
	if err != nil {
		slog.Error("encoding breaks", "error", err)
		return
	}
	l.put(storage.KeyBreaks, string(data))
}

// put and remove are best effort: a storage failure is logged and the
// in-memory ledger stays authoritative.
func (l *Ledger) put(key, value string) {
	if err := l.store.Set(key, value); err != nil {
		slog.Error("persisting value", "key", key, "error", err)
	}
}

func (l *Ledger) remove(key string) {
	if err := l.store.Remove(key); err != nil {
		slog.Error("removing value", "key", key, "error", err)
	}
}
