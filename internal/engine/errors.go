package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while applying a move.
//
// Two broad families exist:
//   - Move rejections: out of bounds, cell occupied, restricted, game
//     over. These are ordinary outcomes the UI reports to the player.
//   - Datapack faults: a rule or condition referenced a pattern cell
//     that does not hold what the datapack assumed (for example a score
//     condition whose player_index resolves to an empty cell). These
//     indicate a datapack bug surfaced at runtime.
//
// In every case the pre-call state is unchanged.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Move is the rendered coordinate of the offending move, when known.
	Move string

	// Feature is the qualified name of the rule or restriction involved,
	// when one is.
	Feature string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeOutOfBounds indicates the move coordinate is off the board.
	ErrCodeOutOfBounds RuntimeErrorCode = "OUT_OF_BOUNDS"

	// ErrCodeOccupied indicates the target cell already holds a stone.
	ErrCodeOccupied RuntimeErrorCode = "CELL_OCCUPIED"

	// ErrCodeRestricted indicates a top-level restriction rejected the move.
	ErrCodeRestricted RuntimeErrorCode = "RESTRICTED"

	// ErrCodeGameOver indicates the game is terminal and accepts no moves.
	ErrCodeGameOver RuntimeErrorCode = "GAME_OVER"

	// ErrCodeDatapackFault indicates a datapack authoring bug surfaced
	// during evaluation.
	ErrCodeDatapackFault RuntimeErrorCode = "DATAPACK_FAULT"

	// ErrCodeInvalidSave indicates a save document that does not fit the
	// loaded ruleset.
	ErrCodeInvalidSave RuntimeErrorCode = "INVALID_SAVE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case e.Move != "" && e.Feature != "":
		return fmt.Sprintf("%s: %s (move=%s, feature=%s)", e.Code, e.Message, e.Move, e.Feature)
	case e.Move != "":
		return fmt.Sprintf("%s: %s (move=%s)", e.Code, e.Message, e.Move)
	case e.Feature != "":
		return fmt.Sprintf("%s: %s (feature=%s)", e.Code, e.Message, e.Feature)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsRestrictedError reports whether the error is a restriction rejection.
// Uses errors.As to handle wrapped errors.
func IsRestrictedError(err error) bool {
	return hasCode(err, ErrCodeRestricted)
}

// IsDatapackFault reports whether the error is a datapack authoring bug
// surfaced at runtime. Uses errors.As to handle wrapped errors.
func IsDatapackFault(err error) bool {
	return hasCode(err, ErrCodeDatapackFault)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func newMoveError(code RuntimeErrorCode, message, move string) *RuntimeError {
	return &RuntimeError{Code: code, Message: message, Move: move}
}

func newDatapackFault(message, feature string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeDatapackFault, Message: message, Feature: feature}
}
