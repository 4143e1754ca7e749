// Package pattern implements the line-pattern language of datapacks:
// compilation of pattern strings, orientation enumeration for
// N-dimensional boards, and match enumeration around a placed stone.
//
// A pattern is a 1-D string of cell predicates evaluated along a line
// of the board in some orientation:
//
//	.    any cell
//	-    empty cell
//	#    any stone
//	A-Z  alias letter, binds to a player
//	a-z  any player other than the matching uppercase letter's binding
//	[x]  marks predicate x as the pattern center
//
// The center, when present, must coincide with the move coordinate.
// Patterns without a center marker may center on any of their cells.
//
// Enumeration order is part of the engine's determinism contract:
// orientations ascend lexicographically, and within an orientation the
// candidate center index ascends. No (orientation, anchor) pair is ever
// reported twice.
package pattern
