package watch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-time-tracker/internal/archive"
	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/session"
	"github.com/Tiliavir/work-time-tracker/internal/storage"
	"github.com/Tiliavir/work-time-tracker/internal/watch"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2026, 10, 12, hour, min, sec, 0, time.Local)
}

type recorder struct {
	ticks []watch.Tick
}

func (r *recorder) timer(name string, active func(session.State) bool) *watch.Timer {
	return &watch.Timer{Name: name, Active: active, OnTick: func(t watch.Tick) { r.ticks = append(r.ticks, t) }}
}

func setup(t *testing.T) (*session.Machine, *session.Machine, *watch.Loop, *recorder, *recorder) {
	t.Helper()
	store := storage.NewMemory()
	// writer plays the CLI process that mutates state; viewer is watched.
	writer, err := session.Load(store, model.DefaultPolicy())
	require.NoError(t, err)
	viewer, err := session.Load(store, model.DefaultPolicy())
	require.NoError(t, err)

	loop := watch.New(viewer, time.Second)
	brk, work := &recorder{}, &recorder{}
	loop.Add(brk.timer("break", watch.BreakActive))
	loop.Add(work.timer("work", watch.WorkActive))
	return writer, viewer, loop, brk, work
}

func TestTimersFollowState(t *testing.T) {
	writer, _, loop, brk, work := setup(t)

	require.NoError(t, loop.Step(at(8, 59, 0)))
	assert.False(t, loop.Armed("break"))
	assert.False(t, loop.Armed("work"))
	assert.Empty(t, work.ticks)

	require.NoError(t, writer.Login(at(9, 0, 0)))
	require.NoError(t, loop.Step(at(9, 0, 1)))
	assert.True(t, loop.Armed("work"))
	assert.False(t, loop.Armed("break"))
	require.NoError(t, loop.Step(at(9, 0, 2)))
	require.Len(t, work.ticks, 2)
	assert.Equal(t, time.Second, work.ticks[1].Since)
	assert.Equal(t, 2*time.Second, work.ticks[1].Progress.Worked)

	require.NoError(t, writer.StartBreak(at(10, 0, 0)))
	require.NoError(t, loop.Step(at(10, 0, 1)))
	assert.True(t, loop.Armed("break"))
	assert.False(t, loop.Armed("work"), "work timer stops during a break")
	require.NoError(t, loop.Step(at(10, 0, 5)))
	require.Len(t, brk.ticks, 2)
	assert.Equal(t, 5*time.Second, brk.ticks[1].Progress.BreakElapsed)
	assert.Len(t, work.ticks, 2)

	_, err := writer.EndBreak(at(10, 15, 0))
	require.NoError(t, err)
	require.NoError(t, loop.Step(at(10, 15, 1)))
	assert.False(t, loop.Armed("break"))
	assert.True(t, loop.Armed("work"))
	assert.Zero(t, work.ticks[len(work.ticks)-1].Since, "re-armed timers start over")

	require.NoError(t, writer.Logout(at(17, 15, 0), true))
	require.NoError(t, loop.Step(at(17, 15, 1)))
	assert.False(t, loop.Armed("work"))
	assert.False(t, loop.Armed("break"))

	_, err = writer.Clear(at(17, 16, 0), true, archive.Always)
	require.NoError(t, err)
	require.NoError(t, loop.Step(at(17, 16, 1)))
	assert.False(t, loop.Armed("work"))
}

func TestStepDoesNotWrite(t *testing.T) {
	store := storage.NewMemory()
	writer, err := session.Load(store, model.DefaultPolicy())
	require.NoError(t, err)
	require.NoError(t, writer.Login(at(9, 0, 0)))
	require.NoError(t, writer.StartBreak(at(9, 30, 0)))

	before := snapshot(t, store, storage.SessionKeys)

	viewer, err := session.Load(store, model.DefaultPolicy())
	require.NoError(t, err)
	loop := watch.New(viewer, time.Second)
	loop.Add(&watch.Timer{Name: "break", Active: watch.BreakActive, OnTick: func(watch.Tick) {}})
	assert.True(t, loop.Armed("break"), "a timer whose condition holds is armed on Add")
	for i := 0; i < 5; i++ {
		require.NoError(t, loop.Step(at(9, 30, i)))
	}

	assert.Equal(t, before, snapshot(t, store, storage.SessionKeys))
}

func TestOnTransition(t *testing.T) {
	writer, _, loop, _, _ := setup(t)
	var seen []session.State
	loop.OnTransition(func(_, next session.State) { seen = append(seen, next) })

	require.NoError(t, writer.Login(at(9, 0, 0)))
	require.NoError(t, loop.Step(at(9, 0, 1)))
	require.NoError(t, loop.Step(at(9, 0, 2)))
	assert.Equal(t, []session.State{session.Working}, seen)
}

func TestRunStopsOnCancel(t *testing.T) {
	_, viewer, _, _, _ := setup(t)
	loop := watch.New(viewer, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// snapshot reads keys from s, skipping the missing ones.
func snapshot(t *testing.T, s storage.Store, keys []string) map[string]string {
	t.Helper()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok, err := s.Get(k)
		require.NoError(t, err)
		if ok {
			out[k] = v
		}
	}
	return out
}
