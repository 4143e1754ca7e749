// Package engine executes turns against a loaded ruleset.
//
// The engine is single-threaded and synchronous. A call to Apply runs
// the full turn pipeline to completion:
//
//	restrictions -> board placement -> rules -> win check
//
// and either returns the post-turn state or an error. Apply is
// transactional: it never mutates its input state, so on error the
// caller's state is untouched.
//
// Determinism is a first-class property. Given the same ruleset and the
// same move sequence, the sequence of board and score states is
// identical across runs: orientation enumeration, match order, and rule
// order are all fixed by the ruleset and the board, never by map
// iteration or wall-clock time.
package engine
