package ir

import (
	"fmt"
	"strings"

	"github.com/quarry-games/pentad/internal/pattern"
)

// QualifiedName is an "owner.identifier" feature name, where owner is
// the datapack that first registered the feature.
type QualifiedName string

// Owner returns the datapack prefix of the qualified name, everything
// before the last dot.
func (q QualifiedName) Owner() string {
	idx := strings.LastIndex(string(q), ".")
	if idx < 0 {
		return ""
	}
	return string(q)[:idx]
}

// Feature returns the identifier part of the qualified name, everything
// after the last dot.
func (q QualifiedName) Feature() string {
	idx := strings.LastIndex(string(q), ".")
	if idx < 0 {
		return string(q)
	}
	return string(q)[idx+1:]
}

// Validate checks that the name is qualified: a non-empty owner and a
// non-empty identifier separated by at least one dot.
func (q QualifiedName) Validate() error {
	if q.Owner() == "" || q.Feature() == "" {
		return fmt.Errorf("unqualified name %q: want \"owner.identifier\"", string(q))
	}
	return nil
}

// Priority orders rules into seven buckets. Within a bucket, rules keep
// datapack load order, then declaration order.
type Priority int

const (
	PriorityEarliest Priority = iota
	PriorityEarlier
	PriorityEarly
	PriorityDefault
	PriorityLate
	PriorityLater
	PriorityLatest
)

var priorityNames = map[string]Priority{
	"earliest": PriorityEarliest,
	"earlier":  PriorityEarlier,
	"early":    PriorityEarly,
	"default":  PriorityDefault,
	"late":     PriorityLate,
	"later":    PriorityLater,
	"latest":   PriorityLatest,
}

// ParsePriority maps a priority keyword to its bucket.
// The empty string means "default".
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityDefault, nil
	}
	p, ok := priorityNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

func (p Priority) String() string {
	for name, val := range priorityNames {
		if val == p {
			return name
		}
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// MultimatchMode controls how many pattern matches a rule acts on.
type MultimatchMode int

const (
	// MultimatchOne keeps only the first match in enumeration order.
	MultimatchOne MultimatchMode = iota
	// MultimatchHalf drops a match whose cell set was already matched in
	// the reverse orientation.
	MultimatchHalf
	// MultimatchAll keeps every match.
	MultimatchAll
)

// ParseMultimatchMode maps a mode keyword. The empty string means "half",
// the datapack format default.
func ParseMultimatchMode(s string) (MultimatchMode, error) {
	switch s {
	case "one":
		return MultimatchOne, nil
	case "half", "":
		return MultimatchHalf, nil
	case "all":
		return MultimatchAll, nil
	default:
		return 0, fmt.Errorf("unknown multimatch mode %q", s)
	}
}

func (m MultimatchMode) String() string {
	switch m {
	case MultimatchOne:
		return "one"
	case MultimatchHalf:
		return "half"
	case MultimatchAll:
		return "all"
	}
	return fmt.Sprintf("multimatch(%d)", int(m))
}

// ScoreOp is the operation a ScoreAction applies to a score.
type ScoreOp int

const (
	ScoreOpSet ScoreOp = iota
	ScoreOpAdd
	ScoreOpMultiply
)

// ParseScoreOp maps an operation keyword.
func ParseScoreOp(s string) (ScoreOp, error) {
	switch s {
	case "set":
		return ScoreOpSet, nil
	case "add":
		return ScoreOpAdd, nil
	case "multiply":
		return ScoreOpMultiply, nil
	default:
		return 0, fmt.Errorf("unknown score operation %q", s)
	}
}

func (o ScoreOp) String() string {
	switch o {
	case ScoreOpSet:
		return "set"
	case ScoreOpAdd:
		return "add"
	case ScoreOpMultiply:
		return "multiply"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Rogue player-index values usable where a rule or condition names a
// player by pattern position.
const (
	// PlayerIndexCenter resolves to the owner of the stone at the match
	// center.
	PlayerIndexCenter = -1
	// PlayerIndexActive resolves to the active player.
	PlayerIndexActive = -2
	// PlayerIndexRemove is valid only in board actions: clear the cell.
	PlayerIndexRemove = -3
)

// LocationIndexCenter resolves a board-action location to the match
// center coordinate.
const LocationIndexCenter = -1

// ScoreSpec declares a score counter. Threshold, when present (zero
// included), ends the game for the first player whose score strictly
// exceeds it.
type ScoreSpec struct {
	Memo        QualifiedName
	DisplayName string
	Threshold   *int64
}

// Condition gates a pattern match. Sealed union of ScoreCondition and
// CoordsCondition.
type Condition interface {
	condition()
}

// ScoreCondition requires a player's score for a memo to lie within
// [Min, Max]. At least one bound is present.
type ScoreCondition struct {
	PlayerIndex int
	Memo        QualifiedName
	Min         *int64
	Max         *int64
}

func (ScoreCondition) condition() {}

// CoordsCondition requires the move coordinate to lie within [Min, Max]
// on every listed axis. Bounds are independently optional.
type CoordsCondition struct {
	Axes []int
	Min  *int
	Max  *int
}

func (CoordsCondition) condition() {}

// ScoreAction mutates a player's score for a memo.
type ScoreAction struct {
	PlayerIndex int
	Memo        QualifiedName
	Op          ScoreOp
	Value       int64
}

// BoardAction writes a player id (or clears a cell) at a match location.
type BoardAction struct {
	PlayerIndex   int
	LocationIndex int
}

// Rule is a compiled rule: when its pattern matches around the placed
// stone and its conditions hold, its actions run.
type Rule struct {
	Name         QualifiedName
	Priority     Priority
	Pattern      *pattern.Pattern
	Mode         MultimatchMode
	Conditions   []Condition
	ScoreActions []ScoreAction
	BoardActions []BoardAction
	// ActivePlayer, when set, limits the rule to turns of that player.
	ActivePlayer *int
}

// Restriction decides move legality. Sealed union of PatternRestriction
// and DisjunctionRestriction. Only top-level restrictions carry a
// qualified name; nested ones are anonymous and cannot be overridden.
type Restriction interface {
	restriction()
}

// PatternRestriction holds iff at least one condition-satisfying match
// exists; Negate inverts that. A set ActivePlayer that differs from the
// current active player makes the restriction hold trivially.
type PatternRestriction struct {
	Name         QualifiedName
	Pattern      *pattern.Pattern
	Conditions   []Condition
	ActivePlayer *int
	Negate       bool
}

func (*PatternRestriction) restriction() {}

// DisjunctionRestriction holds iff at least one conjunction has every
// sub-restriction holding (disjunctive normal form). Children may
// themselves be disjunctions.
type DisjunctionRestriction struct {
	Name         QualifiedName
	Conjunctions [][]Restriction
}

func (*DisjunctionRestriction) restriction() {}

// Ruleset is the immutable output of a load: every feature table fully
// resolved, rules in final execution order.
type Ruleset struct {
	// Packs is the topological load order of all included datapacks.
	Packs []string
	// DisplayName joins the display names of the explicitly requested
	// packs, in load order.
	DisplayName string
	// Dimensions is the board shape; the last pack to declare board
	// dimensions wins.
	Dimensions []int
	// Scores in registration order.
	Scores []ScoreSpec
	// Restrictions in registration order (top level only).
	Restrictions []Restriction
	// Rules sorted by priority bucket, then load order, then
	// declaration order.
	Rules []Rule
}

// Score looks up a ScoreSpec by memo.
func (rs *Ruleset) Score(memo QualifiedName) (ScoreSpec, bool) {
	for _, s := range rs.Scores {
		if s.Memo == memo {
			return s, true
		}
	}
	return ScoreSpec{}, false
}

// HasScore reports whether a memo is registered.
func (rs *Ruleset) HasScore(memo QualifiedName) bool {
	_, ok := rs.Score(memo)
	return ok
}

// Memos returns the registered memos in registration order.
func (rs *Ruleset) Memos() []QualifiedName {
	memos := make([]QualifiedName, len(rs.Scores))
	for i, s := range rs.Scores {
		memos[i] = s.Memo
	}
	return memos
}
