// Package loader turns a set of datapack documents into an immutable
// merged ruleset.
//
// Loading proceeds in fixed phases:
//
//  1. Schema validation of raw documents (CUE) and structural
//     validation of parsed documents.
//  2. Dependency closure: every pack referenced by a dependency of an
//     included pack is included; a missing pack fails the load.
//  3. Deterministic topological sort over dependency and load_after
//     edges, ties broken by pack name, so any input order yields the
//     same merged ruleset.
//  4. Registration pass in sorted order: features whose qualified name
//     is owned by the declaring pack register; foreign-owned names
//     override an existing entry in place, or are silently skipped
//     when the owner never registered.
//  5. Reference validation: every memo used by a score condition or
//     score action must resolve to a registered score.
//
// The last pack in sorted order to declare board dimensions wins;
// without any declaration the board defaults to 19x19.
package loader
