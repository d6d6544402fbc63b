package cmd

import (
	"errors"
	"testing"

	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/prompt"
)

func TestOverwritePolicy(t *testing.T) {
	rec := model.Record{Date: "2026-03-02"}
	tests := []struct {
		flag   string
		answer bool
		want   bool
	}{
		{overwriteYes, false, true},
		{overwriteNo, true, false},
		{overwriteAsk, true, true},
		{overwriteAsk, false, false},
	}
	for _, tt := range tests {
		fn, err := overwritePolicy(tt.flag, prompt.Fixed(tt.answer))
		if err != nil {
			t.Fatalf("overwritePolicy(%q): %v", tt.flag, err)
		}
		if got := fn(rec); got != tt.want {
			t.Errorf("overwritePolicy(%q) with answer %v = %v, want %v", tt.flag, tt.answer, got, tt.want)
		}
	}

	if _, err := overwritePolicy("maybe", prompt.Fixed(true)); !errors.Is(err, errUsage) {
		t.Errorf("overwritePolicy(maybe) error = %v, want usage error", err)
	}
}

func TestConfirmerYes(t *testing.T) {
	ok, err := confirmer(true).Confirm(prompt.Question{Title: "Clear today's data?"})
	if err != nil || !ok {
		t.Errorf("confirmer(true) = %v, %v, want true", ok, err)
	}
	if _, isTerminal := confirmer(false).(prompt.Terminal); !isTerminal {
		t.Error("confirmer(false) should ask on the terminal")
	}
}
