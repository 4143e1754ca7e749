package engine

import (
	"fmt"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
)

// restrictionHolds evaluates one restriction against the
// post-placement hypothetical state. A move is legal iff every
// top-level restriction holds.
func restrictionHolds(r ir.Restriction, st *State, move board.Coord) (bool, error) {
	switch r := r.(type) {
	case *ir.PatternRestriction:
		return patternRestrictionHolds(r, st, move)
	case *ir.DisjunctionRestriction:
		return disjunctionHolds(r, st, move)
	default:
		return false, newDatapackFault(fmt.Sprintf("unknown restriction type %T", r), "")
	}
}

// patternRestrictionHolds: the restriction holds iff at least one match
// also satisfies every condition; Negate inverts the answer. When
// ActivePlayer is set and differs from the current active player, the
// restriction holds trivially and blocks nothing.
func patternRestrictionHolds(r *ir.PatternRestriction, st *State, move board.Coord) (bool, error) {
	if r.ActivePlayer != nil && board.Player(*r.ActivePlayer) != st.active {
		return true, nil
	}

	matched := false
	for _, m := range r.Pattern.Matches(st.board, move) {
		ok, err := conditionsHold(r.Conditions, st, &m, move, r.Name)
		if err != nil {
			return false, err
		}
		if ok {
			matched = true
			break
		}
	}

	if r.Negate {
		return !matched, nil
	}
	return matched, nil
}

// disjunctionHolds evaluates inner groups lazily: the disjunction holds
// iff any conjunction has every sub-restriction holding.
func disjunctionHolds(r *ir.DisjunctionRestriction, st *State, move board.Coord) (bool, error) {
	for _, conjunction := range r.Conjunctions {
		all := true
		for _, sub := range conjunction {
			ok, err := restrictionHolds(sub, st, move)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}
