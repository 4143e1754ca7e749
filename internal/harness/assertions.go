package harness

import (
	"fmt"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/engine"
	"github.com/quarry-games/pentad/internal/ir"
)

// checkAssertions evaluates every assertion against the final state
// and returns the failures.
func checkAssertions(sc *Scenario, eng *engine.Engine, st *engine.State) []string {
	var failures []string
	fail := func(i int, format string, args ...any) {
		failures = append(failures, fmt.Sprintf("assertions[%d]: %s", i, fmt.Sprintf(format, args...)))
	}

	for i, a := range sc.Assertions {
		switch a.Type {
		case "score":
			got := st.Score(board.Player(a.Player), ir.QualifiedName(a.Memo))
			if got != a.Value {
				fail(i, "score %s for player %d: got %d, want %d", a.Memo, a.Player, got, a.Value)
			}

		case "cell":
			coord := board.Coord(a.At)
			if !st.Board().InBounds(coord) {
				fail(i, "cell %v out of bounds", a.At)
				continue
			}
			got := st.Board().At(coord)
			if a.Empty {
				if got != board.Empty {
					fail(i, "cell %v: got player %d, want empty", a.At, int(got))
				}
			} else if got != board.Player(a.Player) {
				fail(i, "cell %v: got %d, want player %d", a.At, int(got), a.Player)
			}

		case "winner":
			winner, ok := eng.Winner(st)
			if !ok {
				fail(i, "no winner, want player %d", a.Player)
			} else if winner != board.Player(a.Player) {
				fail(i, "winner is player %d, want %d", int(winner), a.Player)
			}

		case "no_winner":
			if winner, ok := eng.Winner(st); ok {
				fail(i, "unexpected winner: player %d", int(winner))
			}

		case "active_player":
			if got := int(st.ActivePlayer()); got != a.Player {
				fail(i, "active player is %d, want %d", got, a.Player)
			}

		default:
			fail(i, "unknown assertion type %q", a.Type)
		}
	}
	return failures
}
