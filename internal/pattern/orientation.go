package pattern

import (
	"fmt"
	"sync"
)

// An orientation is a non-zero step vector in {-1,0,1}^N. The canonical
// list for a dimension count is ascending lexicographic order of the
// vector, so the most-negative-leading orientations come first. For 2-D
// the list has 8 entries, starting at (-1,-1) and ending at (1,1).
//
// The list for each dimension count is computed once and reused; match
// enumeration iterates it on every move.

type orientationSet struct {
	vectors [][]int
	// reverse[i] is the index of -vectors[i].
	reverse []int
}

var (
	orientMu    sync.Mutex
	orientCache = map[int]*orientationSet{}
)

// Orientations returns the canonical orientation list for a board with
// the given number of dimensions. The caller must not mutate the result.
func Orientations(ndims int) [][]int {
	return orientations(ndims).vectors
}

// ReverseOrientation returns the index of the orientation opposite to
// the one at idx, for the given dimension count.
func ReverseOrientation(ndims, idx int) int {
	return orientations(ndims).reverse[idx]
}

func orientations(ndims int) *orientationSet {
	if ndims <= 0 {
		panic(fmt.Sprintf("orientations: invalid dimension count %d", ndims))
	}

	orientMu.Lock()
	defer orientMu.Unlock()
	if set, ok := orientCache[ndims]; ok {
		return set
	}

	total := 1
	for i := 0; i < ndims; i++ {
		total *= 3
	}

	// Counting 0..3^N-1 with axis 0 as the most significant ternary
	// digit and digit values -1,0,1 yields ascending lexicographic
	// order. The zero vector sits exactly at the middle and is skipped;
	// the reverse of the vector at full position f is at total-1-f.
	set := &orientationSet{}
	mid := (total - 1) / 2
	fullToIdx := make([]int, total)
	for f := 0; f < total; f++ {
		if f == mid {
			fullToIdx[f] = -1
			continue
		}
		v := make([]int, ndims)
		rem := f
		for axis := ndims - 1; axis >= 0; axis-- {
			v[axis] = rem%3 - 1
			rem /= 3
		}
		fullToIdx[f] = len(set.vectors)
		set.vectors = append(set.vectors, v)
	}

	set.reverse = make([]int, len(set.vectors))
	for f := 0; f < total; f++ {
		if fullToIdx[f] < 0 {
			continue
		}
		set.reverse[fullToIdx[f]] = fullToIdx[total-1-f]
	}

	orientCache[ndims] = set
	return set
}
