// Package layout places numbered tokens on the grid.
package layout

import (
	"errors"
	"math/rand"
	"time"

	"github.com/verte-zerg/numfind/internal/model"
)

const (
	// GridUnits is the exclusive upper bound for both coordinates.
	GridUnits = 95
	// Tolerance is the minimum separation, on at least one axis, between two tokens.
	Tolerance = 5
	// Capacity is the largest token count the grid can hold at Tolerance.
	Capacity = ((GridUnits + Tolerance - 1) / Tolerance) * ((GridUnits + Tolerance - 1) / Tolerance)

	maxAttempts = 1000
)

var (
	// ErrInvalidCount is returned for a non-positive token count.
	ErrInvalidCount = errors.New("token count must be positive")
	// ErrTooMany is returned when the count exceeds Capacity.
	ErrTooMany = errors.New("token count exceeds grid capacity")
	// ErrSaturated is returned when no free position is left for the next token.
	ErrSaturated = errors.New("no free position left on the grid")
)

// Generator produces randomized token layouts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate places tokens 1..n and returns them in shuffled order.
func (g *Generator) Generate(n int) ([]model.Token, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}
	if n > Capacity {
		return nil, ErrTooMany
	}
	occ := &occupancy{}
	tokens := make([]model.Token, 0, n)
	for value := 1; value <= n; value++ {
		pos, ok := g.place(occ)
		if !ok {
			return nil, ErrSaturated
		}
		occ.mark(pos)
		tokens = append(tokens, model.Token{Value: value, Position: pos})
	}
	g.rnd.Shuffle(len(tokens), func(i, j int) {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	})
	return tokens, nil
}

func (g *Generator) place(occ *occupancy) (model.Position, bool) {
	for i := 0; i < maxAttempts; i++ {
		pos := g.randomPosition()
		if !occ.blocked(pos) {
			return pos, true
		}
	}
	free := occ.free()
	if len(free) == 0 {
		return model.Position{}, false
	}
	return free[g.rnd.Intn(len(free))], true
}

func (g *Generator) randomPosition() model.Position {
	return model.Position{
		Top:  g.rnd.Intn(GridUnits),
		Left: g.rnd.Intn(GridUnits),
	}
}

// Overlaps reports whether two positions are within Tolerance on both axes.
func Overlaps(a, b model.Position) bool {
	return abs(a.Top-b.Top) < Tolerance && abs(a.Left-b.Left) < Tolerance
}

// occupancy tracks every grid cell that lies within Tolerance of a placed token.
type occupancy struct {
	cells [GridUnits][GridUnits]bool
}

func (o *occupancy) mark(pos model.Position) {
	for top := pos.Top - Tolerance + 1; top < pos.Top+Tolerance; top++ {
		if top < 0 || top >= GridUnits {
			continue
		}
		for left := pos.Left - Tolerance + 1; left < pos.Left+Tolerance; left++ {
			if left < 0 || left >= GridUnits {
				continue
			}
			o.cells[top][left] = true
		}
	}
}

func (o *occupancy) blocked(pos model.Position) bool {
	return o.cells[pos.Top][pos.Left]
}

func (o *occupancy) free() []model.Position {
	var out []model.Position
	for top := 0; top < GridUnits; top++ {
		for left := 0; left < GridUnits; left++ {
			if !o.cells[top][left] {
				out = append(out, model.Position{Top: top, Left: left})
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
