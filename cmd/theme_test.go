package cmd

import (
	"errors"
	"testing"

	"github.com/Tiliavir/work-time-tracker/internal/storage"
)

func TestDarkMode(t *testing.T) {
	tests := []struct {
		stored string
		set    bool
		want   bool
	}{
		{"", false, false},
		{"true", true, true},
		{"false", true, false},
		{"yes please", true, false},
	}
	for _, tt := range tests {
		s := storage.NewMemory()
		if tt.set {
			if err := s.Set(storage.KeyThemeMode, tt.stored); err != nil {
				t.Fatal(err)
			}
		}
		if got := darkMode(s); got != tt.want {
			t.Errorf("darkMode(%q) = %v, want %v", tt.stored, got, tt.want)
		}
	}
}

func TestParseSwitch(t *testing.T) {
	for arg, want := range map[string]bool{"on": true, "dark": true, "off": false, "light": false} {
		got, err := parseSwitch(arg)
		if err != nil || got != want {
			t.Errorf("parseSwitch(%q) = %v, %v, want %v", arg, got, err, want)
		}
	}
	if _, err := parseSwitch("blue"); !errors.Is(err, errUsage) {
		t.Errorf("parseSwitch(blue) error = %v", err)
	}
}
