package engine

import (
	"fmt"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/pattern"
)

// resolvePlayer maps a rule's player_index to a concrete player for a
// given match:
//
//	>= 0  owner of the stone at that pattern cell
//	-1    owner of the stone at the match center
//	-2    the active player
//
// An index >= 0 resolving to an empty cell is a datapack fault: the
// pattern did not in fact guarantee a stone at that position.
// PlayerIndexRemove is not handled here; board actions special-case it
// before resolving.
func resolvePlayer(st *State, m *pattern.Match, playerIndex int, feature ir.QualifiedName) (board.Player, error) {
	switch {
	case playerIndex == ir.PlayerIndexActive:
		return st.active, nil
	case playerIndex == ir.PlayerIndexCenter:
		return st.board.At(m.Center), nil
	case playerIndex >= 0:
		if playerIndex >= len(m.Cells) {
			return 0, newDatapackFault(
				fmt.Sprintf("player_index %d outside pattern of length %d", playerIndex, len(m.Cells)),
				string(feature))
		}
		p := st.board.At(m.Cells[playerIndex])
		if p == board.Empty {
			return 0, newDatapackFault(
				fmt.Sprintf("player_index %d refers to empty cell %s", playerIndex, m.Cells[playerIndex]),
				string(feature))
		}
		return p, nil
	default:
		return 0, newDatapackFault(
			fmt.Sprintf("invalid player_index %d", playerIndex), string(feature))
	}
}

// conditionsHold evaluates every condition of a rule or restriction
// against one match. All conditions must pass.
func conditionsHold(conds []ir.Condition, st *State, m *pattern.Match, move board.Coord, feature ir.QualifiedName) (bool, error) {
	for _, cond := range conds {
		ok, err := conditionHolds(cond, st, m, move, feature)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func conditionHolds(cond ir.Condition, st *State, m *pattern.Match, move board.Coord, feature ir.QualifiedName) (bool, error) {
	switch c := cond.(type) {
	case ir.ScoreCondition:
		player, err := resolvePlayer(st, m, c.PlayerIndex, feature)
		if err != nil {
			return false, err
		}
		s := st.Score(player, c.Memo)
		if c.Min != nil && s < *c.Min {
			return false, nil
		}
		if c.Max != nil && s > *c.Max {
			return false, nil
		}
		return true, nil

	case ir.CoordsCondition:
		for _, axis := range c.Axes {
			if axis < 0 || axis >= len(move) {
				return false, newDatapackFault(
					fmt.Sprintf("coords condition axis %d outside %d-dimensional board", axis, len(move)),
					string(feature))
			}
			ord := move[axis]
			if c.Min != nil && ord < *c.Min {
				return false, nil
			}
			if c.Max != nil && ord > *c.Max {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, newDatapackFault(fmt.Sprintf("unknown condition type %T", cond), string(feature))
	}
}
