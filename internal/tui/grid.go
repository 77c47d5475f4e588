package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/numfind/internal/game"
	"github.com/verte-zerg/numfind/internal/model"
)

type tokenKind int

const (
	tokenPending tokenKind = iota
	tokenClicked
	tokenMuted
)

type gridCell struct {
	r     rune
	owner int
	kind  tokenKind
}

// canvas is the painted grid. Cells with owner 0 are empty. Tokens that found
// no room are listed in hidden.
type canvas struct {
	width  int
	height int
	cells  [][]gridCell
	hidden []int
}

// cellFor maps percentage coordinates onto a width x height cell grid.
func cellFor(pos model.Position, width, height int) (col, row int) {
	return pos.Left * width / 100, pos.Top * height / 100
}

// paintGrid lays out the visible tokens in slice order. A label whose mapped
// cells are taken moves to the nearest free span, so every painted token keeps
// its own cells in the hit map.
func paintGrid(s game.Session, width, height int) canvas {
	c := canvas{width: width, height: height, cells: make([][]gridCell, height)}
	for row := range c.cells {
		c.cells[row] = make([]gridCell, width)
	}
	for _, tok := range s.Tokens() {
		label := strconv.Itoa(tok.Value)
		labelWidth := runewidth.StringWidth(label)
		col, row := cellFor(tok.Position, width, height)
		if over := col + labelWidth - width; over > 0 {
			col -= over
		}
		col = max(col, 0)
		row = min(max(row, 0), height-1)

		col, row, ok := c.slot(col, row, labelWidth)
		if !ok {
			c.hidden = append(c.hidden, tok.Value)
			continue
		}
		kind := tokenPending
		switch {
		case s.Clicked(tok.Value):
			kind = tokenClicked
		case s.Terminal():
			kind = tokenMuted
		}
		for i, r := range label {
			c.cells[row][col+i] = gridCell{r: r, owner: tok.Value, kind: kind}
		}
	}
	return c
}

// slot finds the free span of n cells closest to (col, row), searching rings
// of growing Chebyshev radius. Spans with a blank cell on both sides win over
// spans that touch a neighbouring label.
func (c canvas) slot(col, row, n int) (int, int, bool) {
	radius := max(c.width, c.height)
	for _, gap := range []bool{true, false} {
		for r := 0; r <= radius; r++ {
			for dr := -r; dr <= r; dr++ {
				for dc := -r; dc <= r; dc++ {
					if max(abs(dr), abs(dc)) != r {
						continue
					}
					if c.fits(col+dc, row+dr, n, gap) {
						return col + dc, row + dr, true
					}
				}
			}
		}
	}
	return 0, 0, false
}

func (c canvas) fits(col, row, n int, gap bool) bool {
	if row < 0 || row >= c.height || col < 0 || col+n > c.width {
		return false
	}
	for i := col; i < col+n; i++ {
		if c.cells[row][i].owner != 0 {
			return false
		}
	}
	if !gap {
		return true
	}
	return c.ownerAt(col-1, row) == 0 && c.ownerAt(col+n, row) == 0
}

func (c canvas) ownerAt(col, row int) int {
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return 0
	}
	return c.cells[row][col].owner
}

func (c canvas) render() string {
	lines := make([]string, 0, c.height)
	for _, row := range c.cells {
		var b strings.Builder
		for i := 0; i < len(row); {
			cell := row[i]
			if cell.owner == 0 {
				b.WriteByte(' ')
				i++
				continue
			}
			j := i
			var label strings.Builder
			for j < len(row) && row[j].owner == cell.owner {
				label.WriteRune(row[j].r)
				j++
			}
			b.WriteString(tokenStyle(cell.kind).Render(label.String()))
			i = j
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func tokenStyle(kind tokenKind) lipgloss.Style {
	switch kind {
	case tokenClicked:
		return clickedTokenStyle
	case tokenMuted:
		return mutedTokenStyle
	default:
		return pendingTokenStyle
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
