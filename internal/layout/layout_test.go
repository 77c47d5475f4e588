package layout

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/numfind/internal/model"
)

func TestGenerateSeparatesTokens(t *testing.T) {
	for _, n := range []int{1, 3, 10, 50, 120} {
		gen := NewSeeded(int64(n))
		tokens, err := gen.Generate(n)
		if err != nil {
			t.Fatalf("generate %d: %v", n, err)
		}
		if len(tokens) != n {
			t.Fatalf("expected %d tokens, got %d", n, len(tokens))
		}
		seen := map[int]bool{}
		for _, tok := range tokens {
			if tok.Value < 1 || tok.Value > n {
				t.Fatalf("value %d out of range 1..%d", tok.Value, n)
			}
			if seen[tok.Value] {
				t.Fatalf("value %d appears twice", tok.Value)
			}
			seen[tok.Value] = true
			if tok.Top < 0 || tok.Top >= GridUnits || tok.Left < 0 || tok.Left >= GridUnits {
				t.Fatalf("position out of grid: %+v", tok.Position)
			}
		}
		for i := range tokens {
			for j := i + 1; j < len(tokens); j++ {
				if Overlaps(tokens[i].Position, tokens[j].Position) {
					t.Fatalf("tokens %d and %d overlap: %+v %+v", tokens[i].Value, tokens[j].Value, tokens[i].Position, tokens[j].Position)
				}
			}
		}
	}
}

func TestGenerateRejectsNonPositive(t *testing.T) {
	gen := NewSeeded(1)
	for _, n := range []int{0, -1, -100} {
		tokens, err := gen.Generate(n)
		if !errors.Is(err, ErrInvalidCount) {
			t.Fatalf("expected ErrInvalidCount for %d, got %v", n, err)
		}
		if tokens != nil {
			t.Fatalf("expected no tokens for %d, got %d", n, len(tokens))
		}
	}
}

func TestGenerateRejectsOverCapacity(t *testing.T) {
	gen := NewSeeded(1)
	if _, err := gen.Generate(Capacity + 1); !errors.Is(err, ErrTooMany) {
		t.Fatalf("expected ErrTooMany, got %v", err)
	}
}

func TestGenerateAtCapacityTerminates(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		tokens, err := NewSeeded(7).Generate(Capacity)
		if err == nil && len(tokens) != Capacity {
			err = errors.New("short layout without error")
		}
		if errors.Is(err, ErrSaturated) {
			err = nil
		}
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected result at capacity: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("generation at capacity did not terminate")
	}
}

func TestGenerateNearSaturationSucceeds(t *testing.T) {
	const n = 150
	for seed := int64(1); seed <= 5; seed++ {
		tokens, err := NewSeeded(seed).Generate(n)
		if err != nil {
			t.Fatalf("seed %d: expected a full layout, got %v", seed, err)
		}
		if len(tokens) != n {
			t.Fatalf("seed %d: expected %d tokens, got %d", seed, n, len(tokens))
		}
		for i := range tokens {
			for j := i + 1; j < len(tokens); j++ {
				if Overlaps(tokens[i].Position, tokens[j].Position) {
					t.Fatalf("seed %d: tokens %d and %d overlap", seed, tokens[i].Value, tokens[j].Value)
				}
			}
		}
	}
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	a, err := NewSeeded(42).Generate(20)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := NewSeeded(42).Generate(20)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("layouts differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		a, b model.Position
		want bool
	}{
		{model.Position{Top: 0, Left: 0}, model.Position{Top: 4, Left: 4}, true},
		{model.Position{Top: 0, Left: 0}, model.Position{Top: 5, Left: 0}, false},
		{model.Position{Top: 10, Left: 10}, model.Position{Top: 10, Left: 15}, false},
		{model.Position{Top: 10, Left: 10}, model.Position{Top: 6, Left: 14}, true},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a, tc.b); got != tc.want {
			t.Fatalf("Overlaps(%+v, %+v) = %v, expected %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestOccupancyFallbackFindsFreeCell(t *testing.T) {
	occ := &occupancy{}
	for top := 0; top < GridUnits; top += Tolerance {
		for left := 0; left < GridUnits; left += Tolerance {
			if top == 90 && left == 90 {
				continue
			}
			occ.mark(model.Position{Top: top, Left: left})
		}
	}
	free := occ.free()
	if len(free) == 0 {
		t.Fatalf("expected a free cell near the corner")
	}
	for _, pos := range free {
		if pos.Top < 90 || pos.Left < 90 {
			t.Fatalf("unexpected free cell %+v", pos)
		}
	}
	pos, ok := NewSeeded(3).place(occ)
	if !ok {
		t.Fatalf("expected fallback placement to succeed")
	}
	if occ.blocked(pos) {
		t.Fatalf("fallback returned blocked position %+v", pos)
	}
}
