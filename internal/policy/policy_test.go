package policy_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/policy"
)

func hours(h float64) *float64 { return &h }

func TestRequiredHours(t *testing.T) {
	p := model.Policy{Weekday: 8, Saturday: 5}

	// 2026-10-12 is a Monday.
	monday := time.Date(2026, 10, 12, 9, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		day := monday.AddDate(0, 0, i)
		assert.Equal(t, 8.0, policy.RequiredHours(day, p), day.Weekday().String())
	}
	saturday := monday.AddDate(0, 0, 5)
	assert.Equal(t, 5.0, policy.RequiredHours(saturday, p))

	sunday := monday.AddDate(0, 0, 6)
	assert.Equal(t, 8.0, policy.RequiredHours(sunday, p), "unconfigured sunday falls back to weekday")
	assert.False(t, policy.CoversDay(sunday, p))

	p.Sunday = hours(0)
	assert.Equal(t, 0.0, policy.RequiredHours(sunday, p))
	assert.True(t, policy.CoversDay(sunday, p))
	assert.True(t, policy.CoversDay(saturday, p))
}

func TestExpectedLogout(t *testing.T) {
	p := model.Policy{Weekday: 8, Saturday: 5}

	monday := time.Date(2026, 10, 12, 9, 0, 0, 0, time.Local)
	assert.True(t, policy.ExpectedLogout(monday, p).Equal(time.Date(2026, 10, 12, 17, 0, 0, 0, time.Local)))

	saturday := time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local)
	assert.True(t, policy.ExpectedLogout(saturday, p).Equal(time.Date(2026, 10, 17, 14, 0, 0, 0, time.Local)))

	p.Weekday = 7.5
	assert.True(t, policy.ExpectedLogout(monday, p).Equal(time.Date(2026, 10, 12, 16, 30, 0, 0, time.Local)))
}

func TestApplyBreakDeltaRoundTrip(t *testing.T) {
	base := time.Date(2026, 10, 12, 17, 0, 0, 0, time.Local)
	for _, d := range []time.Duration{0, time.Second, 15 * time.Minute, 75*time.Minute + 12*time.Second} {
		added := policy.ApplyBreakDelta(base, d)
		assert.True(t, policy.ApplyBreakDelta(added, -d).Equal(base), d.String())
	}
}

func TestRecompute(t *testing.T) {
	p := model.Policy{Weekday: 8, Saturday: 5}
	login := time.Date(2026, 10, 12, 9, 0, 0, 0, time.Local)
	breaks := []model.Break{
		{Duration: "15m 0s"},
		{Duration: "10m 0s"},
		{Duration: "bogus"},
	}
	got := policy.Recompute(login, p, breaks)
	assert.True(t, got.Equal(time.Date(2026, 10, 12, 17, 25, 0, 0, time.Local)), got.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       model.Policy
		wantErr bool
	}{
		{"defaults", model.DefaultPolicy(), false},
		{"zero", model.Policy{}, false},
		{"fractional", model.Policy{Weekday: 7.5, Saturday: 4.25}, false},
		{"negative weekday", model.Policy{Weekday: -1, Saturday: 5}, true},
		{"too many saturday", model.Policy{Weekday: 8, Saturday: 25}, true},
		{"nan", model.Policy{Weekday: math.NaN(), Saturday: 5}, true},
		{"bad sunday", model.Policy{Weekday: 8, Saturday: 5, Sunday: hours(-2)}, true},
		{"good sunday", model.Policy{Weekday: 8, Saturday: 5, Sunday: hours(4)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(tt.p)
			if tt.wantErr {
				assert.True(t, errors.Is(err, policy.ErrInvalidHours), "err = %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
