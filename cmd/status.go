package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/work-time-tracker/internal/model"
	"github.com/Tiliavir/work-time-tracker/internal/session"
	"github.com/Tiliavir/work-time-tracker/internal/timecalc"
	"github.com/Tiliavir/work-time-tracker/internal/watch"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current work day",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Keep running and update every second")
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()
	st := newStyles(darkMode(store))

	fmt.Print(renderStatus(machine.Snapshot(), machine.Progress(now), now, st))
	if !statusWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watchStatus(ctx, machine, st); err != nil {
		exit(2, err)
	}
	return nil
}

// renderStatus prints the session summary. A session left over from an
// earlier day gets a hint to clear it.
func renderStatus(s model.Session, p session.Progress, now time.Time, st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render("Status: "+p.State.String()) + "\n")
	if s.LoginTime == nil {
		b.WriteString(st.muted.Render("Run `wtt login` to start the day.") + "\n")
		return b.String()
	}

	if !timecalc.SameDay(*s.LoginTime, now) {
		b.WriteString(st.warn.Render(fmt.Sprintf("Session started on %s; run `wtt clear` to archive it.",
			timecalc.DateKey(*s.LoginTime))) + "\n")
	}
	b.WriteString(st.row("Login", s.LoginTime.Format(clockLayout)) + "\n")
	if s.ExpectedLogoutTime != nil {
		b.WriteString(st.row("Expected logout", s.ExpectedLogoutTime.Format(clockLayout)) + "\n")
	}
	if s.LogoutTime != nil {
		b.WriteString(st.row("Logout", s.LogoutTime.Format(clockLayout)) + "\n")
	}
	b.WriteString(st.row("Required", timecalc.FormatHMS(p.Required)) + "\n")
	b.WriteString(st.row("Worked", fmt.Sprintf("%s (%d%%)", timecalc.FormatHMS(p.Worked), p.Percent)) + "\n")
	b.WriteString(st.row("Breaks", fmt.Sprintf("%d, %s", len(s.Breaks), timecalc.FormatTotal(p.BreakTotal))) + "\n")

	switch {
	case p.HasLoggedIn:
		b.WriteString(st.row("Total logged in", timecalc.FormatHMS(p.LoggedIn)) + "\n")
	case s.BreakStart != nil:
		b.WriteString(st.row("On break", timecalc.FormatClock(p.BreakElapsed)) + "\n")
	case p.Remaining > 0:
		b.WriteString(st.row("Remaining", timecalc.FormatHMS(p.Remaining)) + "\n")
	default:
		b.WriteString(st.row("Remaining", st.good.Render("done, you can log out")) + "\n")
	}
	return b.String()
}

// frame is one line of watch output. Ticks overwrite the current line;
// transitions are kept.
type frame struct {
	text string
	keep bool
}

// watchStatus runs the break and work timers until ctx is cancelled. The
// loop and the terminal writer run in one errgroup.
func watchStatus(ctx context.Context, m *session.Machine, st styles) error {
	g, gctx := errgroup.WithContext(ctx)
	frames := make(chan frame)
	emit := func(f frame) {
		select {
		case frames <- f:
		case <-gctx.Done():
		}
	}

	loop := watch.New(m, time.Second)
	loop.Add(&watch.Timer{
		Name:   "break",
		Active: watch.BreakActive,
		OnTick: func(t watch.Tick) { emit(frame{text: breakLine(t, st)}) },
	})
	loop.Add(&watch.Timer{
		Name:   "work",
		Active: watch.WorkActive,
		OnTick: func(t watch.Tick) { emit(frame{text: workLine(t, st)}) },
	})
	loop.OnTransition(func(prev, next session.State) {
		emit(frame{text: st.accent.Render(fmt.Sprintf("%s → %s", prev, next)), keep: true})
	})

	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				fmt.Println()
				return nil
			case f := <-frames:
				fmt.Print("\r\033[K" + f.text)
				if f.keep {
					fmt.Println()
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func breakLine(t watch.Tick, st styles) string {
	return st.warn.Render("On break "+timecalc.FormatClock(t.Progress.BreakElapsed)) +
		st.muted.Render(fmt.Sprintf("  breaks today %s", timecalc.FormatTotal(t.Progress.BreakTotal)))
}

func workLine(t watch.Tick, st styles) string {
	p := t.Progress
	left := "done"
	if p.Remaining > 0 {
		left = timecalc.FormatClock(p.Remaining) + " left"
	}
	return st.value.Render(fmt.Sprintf("Worked %s (%d%%)", timecalc.FormatClock(p.Worked), p.Percent)) +
		st.muted.Render("  "+left)
}
