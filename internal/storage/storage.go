// Package storage provides the durable key/value port the tracker persists
// its session, settings and archive through.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Keys written by the tracker.
const (
	KeyLoginTime          = "loginTime"
	KeyBreaks             = "breaks"
	KeyBreakStartTime     = "breakStartTime"
	KeyExpectedLogoutTime = "expectedLogoutTime"
	KeyLogoutTime         = "logoutTime"
	KeyLoginHours         = "loginHours"
	KeyRecords            = "records"
	KeyThemeMode          = "themeMode"
)

// SessionKeys hold the current work day. ClearSession removes them; every
// other key (work hours, theme, archive) is left alone.
var SessionKeys = []string{
	KeyLoginTime,
	KeyBreaks,
	KeyBreakStartTime,
	KeyExpectedLogoutTime,
	KeyLogoutTime,
}

// Store is a string key/value store. Get reports ok=false for a missing key.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// Backend is a Store that holds resources until closed.
type Backend interface {
	Store
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// BaseDir returns the root data directory: $WTT_HOME or ~/.wtt.
func BaseDir() (string, error) {
	if dir := os.Getenv("WTT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wtt"), nil
}

// DefaultPath returns the data file used by backend inside base.
func DefaultPath(base, backend string) string {
	if backend == BackendSQLite {
		return filepath.Join(base, "wtt.db")
	}
	return filepath.Join(base, "state.json")
}

// Open opens the named backend at path. An empty path selects the default
// location inside base.
func Open(backend, base, path string) (Backend, error) {
	if backend == "" {
		backend = BackendJSON
	}
	if path == "" {
		path = DefaultPath(base, backend)
	}
	switch backend {
	case BackendJSON:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendJSON, BackendSQLite)
	}
}

// ClearSession removes the session keys from s. Keys outside SessionKeys
// are never written, so a failure cannot lose them. Every key is attempted
// and the failures are joined.
func ClearSession(s Store) error {
	var errs []error
	for _, k := range SessionKeys {
		if err := s.Remove(k); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}
