// Package board implements the N-dimensional playing grid.
//
// A board is a dense array of cells, each either empty or holding a
// player id. Dimensions are fixed at construction. Only the "stop"
// topology is implemented: out-of-bounds coordinates are never valid
// and never wrap.
package board
