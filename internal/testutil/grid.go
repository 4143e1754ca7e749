// Package testutil provides deterministic helpers for engine tests.
package testutil

import (
	"fmt"
	"strings"

	"github.com/quarry-games/pentad/internal/board"
)

// TB is the subset of *testing.T that grid helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// ParseGrid builds a 2-D board from an ASCII diagram, failing the test
// on any syntax error. Each line is one row (axis 0); '.' is an empty
// cell and a digit places that player's stone. Blank lines and
// indentation are ignored and cells may be separated by spaces, so
// diagrams can sit inside raw string literals:
//
//	b := testutil.ParseGrid(t, `
//	    . . . .
//	    . 0 1 .
//	    . . . .
//	`)
func ParseGrid(t TB, diagram string) *board.Board {
	t.Helper()
	b, err := parseGrid(diagram)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return b
}

func parseGrid(diagram string) (*board.Board, error) {
	var rows [][]board.Player
	for _, line := range strings.Split(diagram, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var row []board.Player
		for _, r := range line {
			switch {
			case r == ' ':
			case r == '.':
				row = append(row, board.Empty)
			case r >= '0' && r <= '9':
				row = append(row, board.Player(r-'0'))
			default:
				return nil, fmt.Errorf("unexpected character %q in grid diagram", r)
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty grid diagram")
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("ragged grid diagram: row %d has %d cells, want %d", i, len(row), width)
		}
	}

	b, err := board.New([]int{len(rows), width})
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		for x, p := range row {
			if p == board.Empty {
				continue
			}
			if err := b.Set(board.Coord{y, x}, p); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}
