// Package schedule turns delayed messages into Bubble Tea commands.
package schedule

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
)

// Scheduler creates delayed commands on a clock.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Scheduler struct {
	clock clockwork.Clock
}

// New returns a Scheduler using the given clock.
func New(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// After returns a command that delivers msg once d has passed. If ctx is done
// first, the timer is released and the command yields nothing.
func (s *Scheduler) After(ctx context.Context, d time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return s.wait(ctx, d, msg)
	}
}

// At returns a command that delivers msg at deadline. A deadline already in
// the past delivers at once unless ctx is done.
func (s *Scheduler) At(ctx context.Context, deadline time.Time, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		d := s.clock.Until(deadline)
		if d <= 0 {
			if ctx.Err() != nil {
				return nil
			}
			return msg
		}
		return s.wait(ctx, d, msg)
	}
}

func (s *Scheduler) wait(ctx context.Context, d time.Duration, msg tea.Msg) tea.Msg {
	timer := s.clock.NewTimer(d)
	select {
	case <-timer.Chan():
		return msg
	case <-ctx.Done():
		stopAndDrainTimer(timer)
		return nil
	}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
