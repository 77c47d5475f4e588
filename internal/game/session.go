// Package game implements the number-finding session state machine.
package game

import (
	"time"

	"github.com/verte-zerg/numfind/internal/model"
)

const (
	// TickPeriod is the wall time represented by one elapsed tick.
	TickPeriod = 100 * time.Millisecond
	// RemovalDelay is how long a correctly clicked token stays visible.
	RemovalDelay = 3 * time.Second
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusIdle Status = iota
	StatusActive
	StatusCleared
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCleared:
		return "cleared"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Outcome describes the effect of a click.
type Outcome int

const (
	// OutcomeIgnored means the click changed nothing.
	OutcomeIgnored Outcome = iota
	// OutcomeCorrect means the expected token was found and the session continues.
	OutcomeCorrect
	// OutcomeCleared means the last token was found.
	OutcomeCleared
	// OutcomeFailed means a token was clicked out of order.
	OutcomeFailed
)

// Found reports whether the click marked a token, which then needs a removal.
func (o Outcome) Found() bool {
	return o == OutcomeCorrect || o == OutcomeCleared
}

// Session is an immutable snapshot of one play-through. Transitions return a
// new value and never modify the receiver.
type Session struct {
	target   int
	expected int
	clicked  map[int]struct{}
	elapsed  int
	status   Status
	tokens   []model.Token
}

// Start begins a new session over the given tokens.
func Start(target int, tokens []model.Token) Session {
	visible := make([]model.Token, len(tokens))
	copy(visible, tokens)
	return Session{
		target:   target,
		expected: 1,
		clicked:  map[int]struct{}{},
		status:   StatusActive,
		tokens:   visible,
	}
}

// Click applies a click on the token with the given value.
func (s Session) Click(value int) (Session, Outcome) {
	if s.status != StatusActive {
		return s, OutcomeIgnored
	}
	if s.Clicked(value) || !s.visible(value) {
		return s, OutcomeIgnored
	}
	next := s
	if value != s.expected {
		next.status = StatusFailed
		return next, OutcomeFailed
	}
	next.clicked = make(map[int]struct{}, len(s.clicked)+1)
	for v := range s.clicked {
		next.clicked[v] = struct{}{}
	}
	next.clicked[value] = struct{}{}
	next.expected = s.expected + 1
	if s.expected == s.target {
		next.status = StatusCleared
		return next, OutcomeCleared
	}
	return next, OutcomeCorrect
}

// Tick advances the elapsed counter while the session is active.
func (s Session) Tick() Session {
	if s.status != StatusActive {
		return s
	}
	next := s
	next.elapsed++
	return next
}

// Remove drops a clicked token from the visible set.
func (s Session) Remove(value int) Session {
	if !s.Clicked(value) || !s.visible(value) {
		return s
	}
	next := s
	next.tokens = make([]model.Token, 0, len(s.tokens)-1)
	for _, tok := range s.tokens {
		if tok.Value != value {
			next.tokens = append(next.tokens, tok)
		}
	}
	return next
}

func (s Session) visible(value int) bool {
	for _, tok := range s.tokens {
		if tok.Value == value {
			return true
		}
	}
	return false
}

// Status returns the session status.
func (s Session) Status() Status { return s.status }

// Target returns the number of tokens in the session.
func (s Session) Target() int { return s.target }

// Expected returns the next value to click.
func (s Session) Expected() int { return s.expected }

// Elapsed returns the tick count.
func (s Session) Elapsed() int { return s.elapsed }

// Clicked reports whether the value was already found.
func (s Session) Clicked(value int) bool {
	_, ok := s.clicked[value]
	return ok
}

// ClickedCount returns how many tokens were found.
func (s Session) ClickedCount() int { return len(s.clicked) }

// Remaining returns how many tokens are left to find.
func (s Session) Remaining() int { return s.target - len(s.clicked) }

// Terminal reports whether the session is cleared or failed.
func (s Session) Terminal() bool {
	return s.status == StatusCleared || s.status == StatusFailed
}

// Tokens returns a copy of the visible tokens in paint order.
func (s Session) Tokens() []model.Token {
	out := make([]model.Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}
