package cli

import (
	"fmt"
	"strings"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/engine"
	"github.com/quarry-games/pentad/internal/ir"
)

// stoneGlyphs renders the first players distinctly; later players fall
// back to digits.
var stoneGlyphs = []rune{'X', 'O', '^', '*'}

func glyph(p board.Player) rune {
	if int(p) < len(stoneGlyphs) {
		return stoneGlyphs[p]
	}
	return rune('0' + int(p)%10)
}

// renderBoard draws a 2-D board with row and column headers. Boards of
// other dimensionalities get a summary line instead of a picture.
func renderBoard(b *board.Board) string {
	dims := b.Dimensions()
	if len(dims) != 2 {
		return fmt.Sprintf("(%d-dimensional board, %v; no text rendering)\n", len(dims), dims)
	}

	var sb strings.Builder
	sb.WriteString("    ")
	for x := 0; x < dims[1]; x++ {
		fmt.Fprintf(&sb, "%2d", x%100)
	}
	sb.WriteByte('\n')
	for y := 0; y < dims[0]; y++ {
		fmt.Fprintf(&sb, "%3d ", y)
		for x := 0; x < dims[1]; x++ {
			p := b.At(board.Coord{y, x})
			if p == board.Empty {
				sb.WriteString(" .")
			} else {
				sb.WriteByte(' ')
				sb.WriteRune(glyph(p))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// renderScores lists the displayable scores of every player.
func renderScores(rs *ir.Ruleset, st *engine.State) string {
	var sb strings.Builder
	for _, spec := range rs.Scores {
		if spec.DisplayName == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s:", spec.DisplayName)
		for p := 0; p < st.NumPlayers(); p++ {
			fmt.Fprintf(&sb, " %c=%d", glyph(board.Player(p)), st.Score(board.Player(p), spec.Memo))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
