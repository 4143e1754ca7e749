// Package ir defines the intermediate representation shared by the
// loader and the engine.
//
// Two layers live here:
//
//   - Document types: the parsed shape of a datapack JSON document and
//     of a save document, before resolution. These carry json tags and
//     field-level validation.
//   - Compiled types: the immutable merged ruleset the loader produces
//     (scores, restrictions, rules in final order) and that the engine
//     consumes. The ruleset never changes after a successful load.
//
// Conditions and restrictions are tagged unions over a finite variant
// set, represented as sealed interfaces with one struct per variant.
// Scores are int64 throughout; there is no floating-point scoring.
package ir
