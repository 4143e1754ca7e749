package pattern

import (
	"fmt"
	"slices"
	"strings"

	"github.com/quarry-games/pentad/internal/board"
)

// Bindings maps alias letters (0-25) to the player each bound to during
// a match. Unbound letters hold board.Empty.
type Bindings [26]board.Player

// NewBindings returns a binding table with every letter unbound.
func NewBindings() Bindings {
	var b Bindings
	for i := range b {
		b[i] = board.Empty
	}
	return b
}

// Player returns the player bound to an uppercase letter, or
// board.Empty if the letter never bound.
func (b Bindings) Player(letter rune) board.Player {
	if letter < 'A' || letter > 'Z' {
		return board.Empty
	}
	return b[letter-'A']
}

// Match is one concrete instantiation of a pattern on the board.
// A match is uniquely keyed by (Orientation, Anchor) within one
// enumeration.
type Match struct {
	// Orientation indexes into Orientations(board.NumDims()).
	Orientation int
	// Anchor is the coordinate of the first pattern cell.
	Anchor board.Coord
	// Center is the pattern cell that coincides with the move.
	Center board.Coord
	// Cells holds the coordinate of every pattern cell, in pattern order.
	Cells []board.Coord
	// AliasBindings records the player bound to each uppercase letter.
	AliasBindings Bindings
}

// CellSetKey returns a canonical key for the set of cells the match
// covers, independent of traversal direction. Half-mode deduplication
// compares these keys across reverse orientations.
func (m *Match) CellSetKey() string {
	keys := make([]string, len(m.Cells))
	for i, c := range m.Cells {
		keys[i] = c.String()
	}
	// A pattern line visits distinct cells in a fixed step, so sorting
	// the rendered coordinates canonicalizes the set.
	slices.Sort(keys)
	return strings.Join(keys, ";")
}

// Matches enumerates every admissible match of the pattern that
// contains the move coordinate, in canonical order: orientations
// ascending, then candidate center index ascending. The move cell is
// read from the board like any other cell; callers decide whether the
// stone is already placed.
//
// The result is deduplicated on (orientation, anchor): within one
// orientation a pattern cannot match twice at the same anchor.
func (p *Pattern) Matches(b *board.Board, move board.Coord) []Match {
	if !b.InBounds(move) {
		return nil
	}

	vectors := Orientations(b.NumDims())
	length := len(p.preds)

	var matches []Match
	seen := map[string]struct{}{}

	for vi, v := range vectors {
		lo, hi := 0, length
		if p.center != NoCenter {
			lo, hi = p.center, p.center+1
		}
		for i := lo; i < hi; i++ {
			m, ok := p.matchAt(b, move, vi, v, i)
			if !ok {
				continue
			}
			key := fmt.Sprintf("%d|%s", vi, m.Anchor.String())
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			matches = append(matches, m)
		}
	}

	return matches
}

// matchAt attempts the single placement "move is pattern cell i" along
// orientation v.
func (p *Pattern) matchAt(b *board.Board, move board.Coord, vi int, v []int, i int) (Match, bool) {
	ndims := b.NumDims()
	cells := make([]board.Coord, len(p.preds))
	for k := range p.preds {
		c := make(board.Coord, ndims)
		for axis := 0; axis < ndims; axis++ {
			c[axis] = move[axis] + (k-i)*v[axis]
		}
		if !b.InBounds(c) {
			return Match{}, false
		}
		cells[k] = c
	}

	bindings := NewBindings()
	// Players a lowercase letter stood for before its uppercase bound;
	// the uppercase may not bind to any of them.
	var excluded [26][]board.Player

	for k, pred := range p.preds {
		tile := b.At(cells[k])
		switch pred.Kind {
		case PredAny:
		case PredEmpty:
			if tile != board.Empty {
				return Match{}, false
			}
		case PredStone:
			if tile == board.Empty {
				return Match{}, false
			}
		case PredSame:
			if tile == board.Empty {
				return Match{}, false
			}
			bound := bindings[pred.Letter]
			if bound != board.Empty {
				if tile != bound {
					return Match{}, false
				}
				continue
			}
			for _, ex := range excluded[pred.Letter] {
				if tile == ex {
					return Match{}, false
				}
			}
			bindings[pred.Letter] = tile
		case PredOpposite:
			if tile == board.Empty {
				return Match{}, false
			}
			bound := bindings[pred.Letter]
			if bound != board.Empty {
				if tile == bound {
					return Match{}, false
				}
				continue
			}
			excluded[pred.Letter] = append(excluded[pred.Letter], tile)
		}
	}

	return Match{
		Orientation:   vi,
		Anchor:        cells[0],
		Center:        cells[i],
		Cells:         cells,
		AliasBindings: bindings,
	}, true
}
