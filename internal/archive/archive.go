// Package archive keeps one finalized record per calendar day for a short
// rolling window.
package archive

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/storage"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
)

const (
	// DefaultRetentionDays is how many days of records Prune keeps.
	DefaultRetentionDays = 5
	// MaxAgeDays is the oldest login (in days before now) Finalize accepts.
	MaxAgeDays = 6
)

// NotLoggedOut is shown as the logged-in total of a session that was
// cleared without a logout.
const NotLoggedOut = "N/A"

// Outcome tells what Finalize did.
type Outcome int

const (
	Skipped     Outcome = iota // no login to archive
	Stored                     // new record appended
	Overwritten                // existing record for the day replaced
	Declined                   // overwrite refused, existing record kept
	Stale                      // login too old, dropped
)

func (o Outcome) String() string {
	switch o {
	case Stored:
		return "stored"
	case Overwritten:
		return "overwritten"
	case Declined:
		return "declined"
	case Stale:
		return "stale"
	default:
		return "skipped"
	}
}

// ConfirmFunc is asked before an existing record is replaced.
type ConfirmFunc func(existing model.Record) bool

// Always and Never are fixed answers for ConfirmFunc.
func Always(model.Record) bool { return true }
func Never(model.Record) bool  { return false }

// Archive reads and writes the records key of a store.
type Archive struct {
	store storage.Store
}

// New returns an Archive over store.
func New(store storage.Store) *Archive {
	return &Archive{store: store}
}

// List returns every stored record in insertion order.
func (a *Archive) List() ([]model.Record, error) {
	raw, ok, err := a.store.Get(storage.KeyRecords)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	if !ok || raw == "" {
		return []model.Record{}, nil
	}
	var records []model.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func (a *Archive) save(records []model.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := a.store.Set(storage.KeyRecords, string(data)); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

// Query returns the record whose date key equals key.
func (a *Archive) Query(key string) (model.Record, bool, error) {
	records, err := a.List()
	if err != nil {
		return model.Record{}, false, err
	}
	for _, r := range records {
		if r.Date == key {
			return r, true, nil
		}
	}
	return model.Record{}, false, nil
}

// Finalize archives s under the calendar day of its login. A login more
// than MaxAgeDays before now is dropped. When the day already has a record
// confirm decides whether it is replaced.
func (a *Archive) Finalize(s model.Session, now time.Time, confirm ConfirmFunc) (Outcome, error) {
	if s.LoginTime == nil {
		return Skipped, nil
	}
	if timecalc.DaysBetween(*s.LoginTime, now) > MaxAgeDays {
		slog.Info("dropping stale session", "login", timecalc.FormatISO(*s.LoginTime))
		return Stale, nil
	}

	rec := BuildRecord(s)
	records, err := a.List()
	if err != nil {
		return Skipped, err
	}

	for i, existing := range records {
		if existing.Date != rec.Date {
			continue
		}
		if confirm == nil || !confirm(existing) {
			return Declined, nil
		}
		records[i] = rec
		if err := a.save(records); err != nil {
			return Skipped, err
		}
		return Overwritten, nil
	}

	if err := a.save(append(records, rec)); err != nil {
		return Skipped, err
	}
	return Stored, nil
}

// Prune removes every record dated retentionDays or more calendar days
// before now, along with records whose date cannot be read. It returns the
// number removed.
func (a *Archive) Prune(now time.Time, retentionDays int) (int, error) {
	records, err := a.List()
	if err != nil {
		return 0, err
	}

	kept := make([]model.Record, 0, len(records))
	for _, r := range records {
		day, err := timecalc.ParseDateKey(r.Date, now.Location())
		if err != nil {
			slog.Warn("pruning record with unreadable date", "date", r.Date)
			continue
		}
		if timecalc.DaysBetween(day, now) >= retentionDays {
			continue
		}
		kept = append(kept, r)
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := a.save(kept); err != nil {
		return 0, err
	}
	slog.Info("pruned archived records", "removed", removed, "retention_days", retentionDays)
	return removed, nil
}

// BuildRecord summarizes s. s.LoginTime must be set.
func BuildRecord(s model.Session) model.Record {
	login := *s.LoginTime
	expected := login
	if s.ExpectedLogoutTime != nil {
		expected = *s.ExpectedLogoutTime
	}
	breaks := make([]model.Break, len(s.Breaks))
	copy(breaks, s.Breaks)

	total := NotLoggedOut
	if worked, ok := TotalLoggedIn(s); ok {
		total = timecalc.FormatHMS(worked)
	}

	return model.Record{
		Date:               timecalc.DateKey(login),
		LoginTime:          login,
		ExpectedLogoutTime: expected,
		LogoutTime:         s.LogoutTime,
		Breaks:             breaks,
		TotalLoggedInTime:  total,
		TotalBreakTime:     timecalc.FormatTotal(model.TotalBreak(breaks)),
	}
}

// TotalLoggedIn is the time between login and logout minus every break.
// ok is false until the session has logged out.
func TotalLoggedIn(s model.Session) (time.Duration, bool) {
	if s.LoginTime == nil || s.LogoutTime == nil {
		return 0, false
	}
	return s.LogoutTime.Sub(*s.LoginTime) - model.TotalBreak(s.Breaks), true
}
