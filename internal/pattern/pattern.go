package pattern

import (
	"fmt"
)

// PredicateKind discriminates the cell predicate variants.
type PredicateKind int

const (
	// PredAny matches any cell, occupied or not.
	PredAny PredicateKind = iota
	// PredEmpty matches an unoccupied cell.
	PredEmpty
	// PredStone matches any occupied cell.
	PredStone
	// PredSame matches a stone and binds (or checks) its alias letter.
	PredSame
	// PredOpposite matches a stone of any player other than the one
	// bound to the matching uppercase letter.
	PredOpposite
)

// Predicate is one compiled cell of a pattern. Letter is the 0-25 alias
// index for PredSame and PredOpposite, and unused otherwise.
type Predicate struct {
	Kind   PredicateKind
	Letter int
}

// NoCenter is the center index of patterns without a bracketed center:
// any cell may serve as the center.
const NoCenter = -1

// Pattern is a compiled pattern: a dense predicate sequence plus an
// optional fixed center index. Immutable after Compile.
type Pattern struct {
	src   string
	preds []Predicate
	// center is the index of the bracketed predicate, or NoCenter.
	center int
}

// Compile parses a pattern string.
//
// Rejected at compile time: the empty pattern, more than one center
// marker, a malformed center marker, characters outside the predicate
// alphabet, and any lowercase letter with no uppercase partner in the
// same pattern.
func Compile(s string) (*Pattern, error) {
	p := &Pattern{src: s, center: NoCenter}

	var upper, lower uint32
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '[' {
			if p.center != NoCenter {
				return nil, fmt.Errorf("invalid pattern %q: multiple centers", s)
			}
			if i+2 >= len(runes) || runes[i+2] != ']' {
				return nil, fmt.Errorf("invalid pattern %q: malformed center marker", s)
			}
			pred, err := compilePredicate(runes[i+1], s)
			if err != nil {
				return nil, err
			}
			p.center = len(p.preds)
			p.preds = append(p.preds, pred)
			markLetter(pred, &upper, &lower)
			i += 2
			continue
		}
		pred, err := compilePredicate(runes[i], s)
		if err != nil {
			return nil, err
		}
		p.preds = append(p.preds, pred)
		markLetter(pred, &upper, &lower)
	}

	if len(p.preds) == 0 {
		return nil, fmt.Errorf("invalid pattern %q: empty", s)
	}
	if unpaired := lower &^ upper; unpaired != 0 {
		for l := 0; l < 26; l++ {
			if unpaired&(1<<l) != 0 {
				return nil, fmt.Errorf("invalid pattern %q: lowercase %q has no uppercase partner", s, 'a'+rune(l))
			}
		}
	}

	return p, nil
}

func compilePredicate(r rune, src string) (Predicate, error) {
	switch {
	case r == '.':
		return Predicate{Kind: PredAny}, nil
	case r == '-':
		return Predicate{Kind: PredEmpty}, nil
	case r == '#':
		return Predicate{Kind: PredStone}, nil
	case r >= 'A' && r <= 'Z':
		return Predicate{Kind: PredSame, Letter: int(r - 'A')}, nil
	case r >= 'a' && r <= 'z':
		return Predicate{Kind: PredOpposite, Letter: int(r - 'a')}, nil
	default:
		return Predicate{}, fmt.Errorf("invalid pattern %q: unexpected character %q", src, r)
	}
}

func markLetter(pred Predicate, upper, lower *uint32) {
	switch pred.Kind {
	case PredSame:
		*upper |= 1 << pred.Letter
	case PredOpposite:
		*lower |= 1 << pred.Letter
	}
}

// Len returns the number of cells in the pattern.
func (p *Pattern) Len() int {
	return len(p.preds)
}

// CenterIndex returns the fixed center index and true, or NoCenter and
// false when any cell may serve as center.
func (p *Pattern) CenterIndex() (int, bool) {
	return p.center, p.center != NoCenter
}

// Predicates returns the compiled predicate sequence. The caller must
// not mutate the returned slice.
func (p *Pattern) Predicates() []Predicate {
	return p.preds
}

// String returns the source text the pattern was compiled from.
func (p *Pattern) String() string {
	return p.src
}
