package schedule

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
)

type pingMsg struct{ id int }

func runCmd(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() {
		out <- cmd()
	}()
	return out
}

func waitTimers(t *testing.T, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("waiting for %d timers: %v", n, err)
	}
}

func TestAfterDeliversMessage(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)

	out := runCmd(s.After(context.Background(), 3*time.Second, pingMsg{id: 7}))
	waitTimers(t, clock, 1)

	clock.Advance(2 * time.Second)
	select {
	case msg := <-out:
		t.Fatalf("message delivered early: %#v", msg)
	default:
	}

	clock.Advance(time.Second)
	select {
	case msg := <-out:
		ping, ok := msg.(pingMsg)
		if !ok || ping.id != 7 {
			t.Fatalf("unexpected message: %#v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("message not delivered after delay")
	}
}

func TestAfterReleasedOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)
	ctx, cancel := context.WithCancel(context.Background())

	out := runCmd(s.After(ctx, 100*time.Millisecond, pingMsg{id: 1}))
	waitTimers(t, clock, 1)
	cancel()

	select {
	case msg := <-out:
		if msg != nil {
			t.Fatalf("expected nil message after cancel, got %#v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("command did not return after cancel")
	}
	waitTimers(t, clock, 0)
}

func TestAtFiresOnDeadline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)
	deadline := clock.Now().Add(300 * time.Millisecond)
	clock.Advance(100 * time.Millisecond)

	out := runCmd(s.At(context.Background(), deadline, pingMsg{id: 2}))
	waitTimers(t, clock, 1)
	clock.Advance(200 * time.Millisecond)
	select {
	case msg := <-out:
		if ping, ok := msg.(pingMsg); !ok || ping.id != 2 {
			t.Fatalf("unexpected message: %#v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("message not delivered at deadline")
	}
}

func TestAtPastDeadline(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)
	deadline := clock.Now()
	clock.Advance(time.Second)

	if msg := s.At(context.Background(), deadline, pingMsg{id: 3})(); msg == nil {
		t.Fatalf("expected overdue message at once")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if msg := s.At(ctx, deadline, pingMsg{id: 4})(); msg != nil {
		t.Fatalf("expected nil message for cancelled context, got %#v", msg)
	}
}
