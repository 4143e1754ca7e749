// Package harness provides a conformance testing framework for the
// rule engine.
//
// Scenarios are YAML documents describing a game: the datapacks to
// load, stones to pre-place, the moves to play, and assertions over
// the final state. The harness loads the packs, drives the real engine
// move by move, and records a deterministic trace of every turn.
//
// Traces are compared against golden files, so any change to match
// enumeration order, rule ordering, or action semantics shows up as a
// golden diff. Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness
