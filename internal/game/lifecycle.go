package game

import (
	"context"

	"github.com/google/uuid"
)

// Ticket identifies the session a scheduled message belongs to.
type Ticket struct {
	Gen uint64
	ID  uuid.UUID
}

// Lifecycle owns the per-session resources: the generation counter and the
// context that scheduled timers wait on. It is used from a single goroutine.
type Lifecycle struct {
	parent context.Context
	ticket Ticket
	ctx    context.Context
	cancel context.CancelFunc
}

// NewLifecycle returns a Lifecycle with no live session.
func NewLifecycle(parent context.Context) *Lifecycle {
	ctx, cancel := context.WithCancel(parent)
	cancel()
	return &Lifecycle{parent: parent, ctx: ctx, cancel: cancel}
}

// Begin releases the previous session's timers and issues a fresh ticket.
func (l *Lifecycle) Begin() Ticket {
	l.cancel()
	l.ctx, l.cancel = context.WithCancel(l.parent)
	l.ticket = Ticket{Gen: l.ticket.Gen + 1, ID: uuid.New()}
	return l.ticket
}

// Current reports whether the ticket belongs to the live session.
func (l *Lifecycle) Current(t Ticket) bool {
	return t.Gen != 0 && t == l.ticket && l.ctx.Err() == nil
}

// Ticket returns the live session's ticket. It is zero before the first Begin.
func (l *Lifecycle) Ticket() Ticket {
	return l.ticket
}

// Context is cancelled when the session is replaced or the lifecycle is closed.
func (l *Lifecycle) Context() context.Context {
	return l.ctx
}

// Close releases the live session's timers.
func (l *Lifecycle) Close() {
	l.cancel()
}
