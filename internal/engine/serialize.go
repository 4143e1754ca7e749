package engine

import (
	"fmt"
	"slices"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
)

// Serialize converts a state to its save document. The document is
// self-contained: nested board arrays with -1 for empty cells, score
// arrays keyed by qualified memo, the active player (-1 when terminal),
// and the names of the loaded datapacks.
func (e *Engine) Serialize(st *State) *ir.SaveDoc {
	scores := make(map[string][]int64, len(st.scores))
	for memo, vals := range st.scores {
		scores[string(memo)] = slices.Clone(vals)
	}
	return &ir.SaveDoc{
		Board:        st.board.ToNested(),
		Scores:       scores,
		ActivePlayer: int(st.active),
		NumPlayers:   st.numPlayers,
		Datapacks:    slices.Clone(e.ruleset.Packs),
	}
}

// Deserialize reconstructs a state from a save document, validating it
// against the loaded ruleset. Deserialize(Serialize(s)) is the identity
// on every reachable state.
//
// Rejected: ragged or mis-shaped boards, score arrays whose length
// disagrees with the player count, memos the ruleset does not register,
// active players outside the valid range, and stones of players beyond
// the player count. Memos the ruleset registers but the document omits
// read as 0.
func (e *Engine) Deserialize(doc *ir.SaveDoc) (*State, error) {
	b, err := board.FromNested(doc.Board)
	if err != nil {
		return nil, &RuntimeError{Code: ErrCodeInvalidSave, Message: err.Error()}
	}
	if !slices.Equal(b.Dimensions(), e.ruleset.Dimensions) {
		return nil, &RuntimeError{
			Code:    ErrCodeInvalidSave,
			Message: fmt.Sprintf("board dimensions %v do not match ruleset dimensions %v", b.Dimensions(), e.ruleset.Dimensions),
		}
	}

	numPlayers := doc.NumPlayers
	if numPlayers == 0 {
		// Older saves omit num_players; infer from the score arrays,
		// falling back to two.
		numPlayers = 2
		for _, vals := range doc.Scores {
			numPlayers = len(vals)
			break
		}
	}
	if numPlayers < 1 {
		return nil, &RuntimeError{Code: ErrCodeInvalidSave, Message: fmt.Sprintf("invalid num_players %d", numPlayers)}
	}

	if doc.ActivePlayer < int(NoPlayer) || doc.ActivePlayer >= numPlayers {
		return nil, &RuntimeError{
			Code:    ErrCodeInvalidSave,
			Message: fmt.Sprintf("active_player %d outside [-1, %d)", doc.ActivePlayer, numPlayers),
		}
	}

	st := newState(b, e.ruleset.Memos(), numPlayers)
	st.active = board.Player(doc.ActivePlayer)

	for memo, vals := range doc.Scores {
		if !e.ruleset.HasScore(ir.QualifiedName(memo)) {
			return nil, &RuntimeError{
				Code:    ErrCodeInvalidSave,
				Message: fmt.Sprintf("save references unregistered score %q", memo),
			}
		}
		if len(vals) != numPlayers {
			return nil, &RuntimeError{
				Code:    ErrCodeInvalidSave,
				Message: fmt.Sprintf("score %q has %d values, want %d", memo, len(vals), numPlayers),
			}
		}
		for p, v := range vals {
			if v < 0 {
				return nil, &RuntimeError{
					Code:    ErrCodeInvalidSave,
					Message: fmt.Sprintf("score %q is negative for player %d", memo, p),
				}
			}
			st.setScore(board.Player(p), ir.QualifiedName(memo), v)
		}
	}

	if err := validateStones(b, numPlayers); err != nil {
		return nil, &RuntimeError{Code: ErrCodeInvalidSave, Message: err.Error()}
	}

	return st, nil
}

// validateStones walks the board and rejects stones of players the
// save's player count does not admit.
func validateStones(b *board.Board, numPlayers int) error {
	dims := b.Dimensions()
	coord := make(board.Coord, len(dims))
	for {
		if p := b.At(coord); p != board.Empty && int(p) >= numPlayers {
			return fmt.Errorf("cell %s holds stone of player %d, but num_players is %d", coord, int(p), numPlayers)
		}
		// Advance the coordinate odometer, innermost axis fastest.
		axis := len(dims) - 1
		for axis >= 0 {
			coord[axis]++
			if coord[axis] < dims[axis] {
				break
			}
			coord[axis] = 0
			axis--
		}
		if axis < 0 {
			return nil
		}
	}
}
