package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Tiliavir/work-time-tracker/internal/archive"
	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/policy"
	"github.com/Tiliavir/work-time-tracker/internal/storage"
)

// FileName is the config file inside the data directory.
const FileName = "config.json"

// Config is the root configuration for wtt, stored in ~/.wtt/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage StorageConfig `json:"storage"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// RetentionDays is how long archived day records are kept.
	RetentionDays int `json:"retention_days"`
	// DefaultHours is the policy used until one is saved with `wtt hours`.
	DefaultHours model.Policy `json:"default_hours"`
}

// StorageConfig selects where session state lives.
type StorageConfig struct {
	// Backend is "json" or "sqlite".
	Backend string `json:"backend"`
	// Path overrides the data file. Empty = default file in the data directory.
	Path string `json:"path"`
}

// DefaultLogLevel keeps routine operation quiet.
const DefaultLogLevel = "warn"

// Default returns a Config pre-filled with built-in defaults.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: storage.BackendJSON,
		},
		LogLevel:      DefaultLogLevel,
		RetentionDays: archive.DefaultRetentionDays,
		DefaultHours:  model.DefaultPolicy(),
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// wtt configuration – ~/.wtt/config.json
//
// All settings are optional; the defaults below are used for anything left
// out. Set WTT_HOME to move the whole data directory elsewhere.
{
  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "json"   – a single human-readable state.json file (default)
    // "sqlite" – a wtt.db SQLite database
    "backend": "json",

    // Data file location. Leave empty for the default inside the data directory.
    "path": ""
  },

  // Diagnostics written to stderr: "debug", "info", "warn" or "error".
  // Can be overridden per-run with: wtt --log-level debug <command>
  "log_level": "warn",

  // Days an archived day record is kept before it is pruned.
  "retention_days": 5,

  // Required working hours used until you save your own with: wtt hours
  // Add "sunday": <hours> to track Sundays separately; otherwise Sundays
  // use the weekday value.
  "default_hours": {
    "weekday": 8,
    "saturday": 5
  }
}
`

// FilePath returns the path to config.json inside base.
func FilePath(base string) string {
	return filepath.Join(base, FileName)
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads config.json from base, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load(base string) (Config, error) {
	path := FilePath(base)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			slog.Warn("could not create config file", "path", path, "error", writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := Default()
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = def.RetentionDays
	}
	if cfg.DefaultHours.Weekday == 0 && cfg.DefaultHours.Saturday == 0 {
		cfg.DefaultHours.Weekday = def.DefaultHours.Weekday
		cfg.DefaultHours.Saturday = def.DefaultHours.Saturday
	}
	if err := policy.Validate(cfg.DefaultHours); err != nil {
		return Default(), fmt.Errorf("config file %s: default_hours: %w", path, err)
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
