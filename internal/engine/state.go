package engine

import (
	"maps"
	"slices"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
)

// NoPlayer marks a terminal state's active player slot.
const NoPlayer board.Player = -1

// State is the mutable half of a game: the board, the per-player score
// store, and the active player. The ruleset it plays under lives on the
// Engine; states are owned by their caller and only mutated inside
// Apply, which works on a clone.
type State struct {
	board *board.Board
	// scores maps each registered memo to one value per player.
	scores     map[ir.QualifiedName][]int64
	numPlayers int
	// active is the player whose move is next, or NoPlayer when the
	// game is terminal.
	active board.Player
}

func newState(b *board.Board, memos []ir.QualifiedName, numPlayers int) *State {
	scores := make(map[ir.QualifiedName][]int64, len(memos))
	for _, memo := range memos {
		scores[memo] = make([]int64, numPlayers)
	}
	return &State{
		board:      b,
		scores:     scores,
		numPlayers: numPlayers,
		active:     0,
	}
}

// Board returns the playing board. External observers must treat it as
// read-only; all mutation happens inside Apply.
func (s *State) Board() *board.Board {
	return s.board
}

// NumPlayers returns the number of players in the game.
func (s *State) NumPlayers() int {
	return s.numPlayers
}

// ActivePlayer returns the player whose move is next, or NoPlayer when
// the game is terminal.
func (s *State) ActivePlayer() board.Player {
	return s.active
}

// Terminal reports whether the game has ended.
func (s *State) Terminal() bool {
	return s.active == NoPlayer
}

// Score returns a player's value for a memo. Unregistered memos read
// as 0.
func (s *State) Score(p board.Player, memo ir.QualifiedName) int64 {
	vals, ok := s.scores[memo]
	if !ok || int(p) < 0 || int(p) >= len(vals) {
		return 0
	}
	return vals[int(p)]
}

// setScore writes a player's value for a memo, clamping below at 0.
// Scores are non-negative by invariant.
func (s *State) setScore(p board.Player, memo ir.QualifiedName, value int64) {
	if value < 0 {
		value = 0
	}
	vals, ok := s.scores[memo]
	if !ok {
		vals = make([]int64, s.numPlayers)
		s.scores[memo] = vals
	}
	vals[int(p)] = value
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	scores := make(map[ir.QualifiedName][]int64, len(s.scores))
	for memo, vals := range s.scores {
		scores[memo] = slices.Clone(vals)
	}
	return &State{
		board:      s.board.Clone(),
		scores:     scores,
		numPlayers: s.numPlayers,
		active:     s.active,
	}
}

// Equal reports structural equality of two states: same board, same
// scores, same player count, same active player.
func (s *State) Equal(other *State) bool {
	return s.numPlayers == other.numPlayers &&
		s.active == other.active &&
		s.board.Equal(other.board) &&
		maps.EqualFunc(s.scores, other.scores, slices.Equal)
}
