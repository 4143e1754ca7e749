package engine

import (
	"fmt"
	"log/slog"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
)

// Engine applies moves under a loaded ruleset.
//
// The ruleset is immutable after load and may be freely shared
// read-only; the engine itself holds no game state. States are owned by
// the caller and flow through IsLegal and Apply.
//
// INVARIANTS:
//   - Apply never mutates its input state; it works on a clone
//   - Rules execute in ruleset order: priority bucket, then datapack
//     load order, then declaration order
//   - Within a turn: restrictions, then placement, then rules, then
//     the win check
type Engine struct {
	ruleset *ir.Ruleset
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's structured logger.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine for a loaded ruleset.
func New(ruleset *ir.Ruleset, opts ...Option) *Engine {
	e := &Engine{
		ruleset: ruleset,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ruleset returns the loaded ruleset the engine plays under.
func (e *Engine) Ruleset() *ir.Ruleset {
	return e.ruleset
}

// NewGame creates a fresh state: an empty board of the ruleset's
// dimensions, zeroed scores for every registered memo, player 0 to move.
func (e *Engine) NewGame(numPlayers int) (*State, error) {
	if numPlayers < 1 {
		return nil, fmt.Errorf("new game requires at least one player, got %d", numPlayers)
	}
	b, err := board.New(e.ruleset.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}
	return newState(b, e.ruleset.Memos(), numPlayers), nil
}

// IsLegal reports whether the active player may place at move. It is
// pure: two consecutive calls return the same answer and the state is
// never modified. A datapack fault during restriction evaluation is
// logged and reported as illegal.
func (e *Engine) IsLegal(st *State, move board.Coord) bool {
	err := e.checkLegal(st, move)
	if err != nil && IsDatapackFault(err) {
		e.logger.Warn("datapack fault during legality check",
			"move", move.String(), "error", err)
	}
	return err == nil
}

// checkLegal validates a move without applying it. The restriction pass
// evaluates the post-placement hypothetical: the stone is placed on a
// scratch clone before any restriction runs.
func (e *Engine) checkLegal(st *State, move board.Coord) error {
	if st.Terminal() {
		return newMoveError(ErrCodeGameOver, "game is over", move.String())
	}
	if !st.board.InBounds(move) {
		return newMoveError(ErrCodeOutOfBounds, "move is outside the board", move.String())
	}
	if st.board.At(move) != board.Empty {
		return newMoveError(ErrCodeOccupied, "cell already holds a stone", move.String())
	}

	hyp := st.Clone()
	if err := hyp.board.Set(move, hyp.active); err != nil {
		return newMoveError(ErrCodeOutOfBounds, err.Error(), move.String())
	}

	for _, r := range e.ruleset.Restrictions {
		holds, err := restrictionHolds(r, hyp, move)
		if err != nil {
			return err
		}
		if !holds {
			return &RuntimeError{
				Code:    ErrCodeRestricted,
				Message: "move rejected by restriction",
				Move:    move.String(),
				Feature: string(restrictionName(r)),
			}
		}
	}
	return nil
}

// Apply plays one turn: validate legality, place the stone, run every
// rule in ruleset order, check win thresholds, and advance the active
// player. Returns the post-turn state.
//
// Apply is atomic. On any error -- illegal move, out of bounds, or a
// datapack fault partway through the rule pass -- the input state is
// returned unchanged to the caller's hands: it was never mutated.
func (e *Engine) Apply(st *State, move board.Coord) (*State, error) {
	if err := e.checkLegal(st, move); err != nil {
		return nil, err
	}

	next := st.Clone()
	if err := next.board.Set(move, next.active); err != nil {
		return nil, newMoveError(ErrCodeOutOfBounds, err.Error(), move.String())
	}

	for i := range e.ruleset.Rules {
		rule := &e.ruleset.Rules[i]
		fired, err := applyRule(rule, next, move)
		if err != nil {
			return nil, err
		}
		if fired {
			e.logger.Debug("rule fired", "rule", string(rule.Name), "move", move.String())
		}
	}

	if winner, ok := e.winner(next); ok {
		e.logger.Info("game over", "winner", int(winner), "move", move.String())
		next.active = NoPlayer
	} else {
		next.active = (next.active + 1) % board.Player(next.numPlayers)
	}
	return next, nil
}

// Winner returns the winning player of a terminal state. The winner is
// the first player, in ascending id order, whose score strictly exceeds
// the threshold of any registered score spec, so ties break toward the
// lowest player id.
func (e *Engine) Winner(st *State) (board.Player, bool) {
	return e.winner(st)
}

func (e *Engine) winner(st *State) (board.Player, bool) {
	for p := 0; p < st.numPlayers; p++ {
		for _, spec := range e.ruleset.Scores {
			if spec.Threshold == nil {
				continue
			}
			if st.Score(board.Player(p), spec.Memo) > *spec.Threshold {
				return board.Player(p), true
			}
		}
	}
	return 0, false
}

func restrictionName(r ir.Restriction) ir.QualifiedName {
	switch r := r.(type) {
	case *ir.PatternRestriction:
		return r.Name
	case *ir.DisjunctionRestriction:
		return r.Name
	}
	return ""
}
