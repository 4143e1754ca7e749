package engine

import (
	"fmt"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/pattern"
)

// applyRule runs one rule against the current board: enumerate matches
// around the move, filter by conditions, apply the multimatch policy,
// then execute actions in two phases. Returns whether any match was
// retained.
//
// The two-phase guarantee: within a single rule the board does not
// change between score-action computations, because every score action
// for every retained match runs before the first board action.
// Successive rules do see earlier rules' board mutations.
func applyRule(r *ir.Rule, st *State, move board.Coord) (bool, error) {
	if r.ActivePlayer != nil && board.Player(*r.ActivePlayer) != st.active {
		return false, nil
	}

	var retained []pattern.Match
	for _, m := range r.Pattern.Matches(st.board, move) {
		ok, err := conditionsHold(r.Conditions, st, &m, move, r.Name)
		if err != nil {
			return false, err
		}
		if ok {
			retained = append(retained, m)
		}
	}

	retained = applyMultimatch(r.Mode, retained, st.board.NumDims())
	if len(retained) == 0 {
		return false, nil
	}

	// Phase one: score actions, match-major order.
	for i := range retained {
		for _, action := range r.ScoreActions {
			if err := applyScoreAction(&action, st, &retained[i], r.Name); err != nil {
				return false, err
			}
		}
	}

	// Phase two: board actions, match-major order. A cell a match
	// recorded may no longer hold the stone the pattern saw if an
	// earlier board action of this same rule rewrote it.
	for i := range retained {
		for _, action := range r.BoardActions {
			if err := applyBoardAction(&action, st, &retained[i], r.Name); err != nil {
				return false, err
			}
		}
	}

	return true, nil
}

// applyMultimatch trims the retained matches per the rule's mode:
//
//	one   keep only the first match in enumeration order
//	half  drop a match whose cell set was already accepted in the
//	      reverse orientation
//	all   keep everything
func applyMultimatch(mode ir.MultimatchMode, matches []pattern.Match, ndims int) []pattern.Match {
	switch mode {
	case ir.MultimatchOne:
		if len(matches) > 1 {
			return matches[:1]
		}
		return matches

	case ir.MultimatchHalf:
		// accepted maps a cell-set key to the orientations already
		// accepted for that set.
		accepted := make(map[string]map[int]bool)
		kept := matches[:0]
		for i := range matches {
			m := matches[i]
			key := m.CellSetKey()
			if accepted[key][pattern.ReverseOrientation(ndims, m.Orientation)] {
				continue
			}
			if accepted[key] == nil {
				accepted[key] = make(map[int]bool)
			}
			accepted[key][m.Orientation] = true
			kept = append(kept, m)
		}
		return kept

	default:
		return matches
	}
}

// applyScoreAction resolves the target player and applies the operation
// to their score, clamped below at 0.
func applyScoreAction(a *ir.ScoreAction, st *State, m *pattern.Match, feature ir.QualifiedName) error {
	player, err := resolvePlayer(st, m, a.PlayerIndex, feature)
	if err != nil {
		return err
	}

	prev := st.Score(player, a.Memo)
	var next int64
	switch a.Op {
	case ir.ScoreOpSet:
		next = a.Value
	case ir.ScoreOpAdd:
		next = prev + a.Value
	case ir.ScoreOpMultiply:
		next = prev * a.Value
	default:
		return newDatapackFault(fmt.Sprintf("unknown score operation %v", a.Op), string(feature))
	}
	st.setScore(player, a.Memo, next)
	return nil
}

// applyBoardAction resolves a location and a player (or removal) and
// writes the cell, overwriting any stone already there.
func applyBoardAction(a *ir.BoardAction, st *State, m *pattern.Match, feature ir.QualifiedName) error {
	var loc board.Coord
	switch {
	case a.LocationIndex == ir.LocationIndexCenter:
		loc = m.Center
	case a.LocationIndex >= 0 && a.LocationIndex < len(m.Cells):
		loc = m.Cells[a.LocationIndex]
	default:
		return newDatapackFault(
			fmt.Sprintf("location_index %d outside pattern of length %d", a.LocationIndex, len(m.Cells)),
			string(feature))
	}

	var value board.Player
	if a.PlayerIndex == ir.PlayerIndexRemove {
		value = board.Empty
	} else {
		player, err := resolvePlayer(st, m, a.PlayerIndex, feature)
		if err != nil {
			return err
		}
		value = player
	}

	if err := st.board.Set(loc, value); err != nil {
		return newDatapackFault(err.Error(), string(feature))
	}
	return nil
}
