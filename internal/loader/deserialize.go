package loader

import (
	"fmt"

	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/pattern"
)

// Conversions from document form to compiled form. Memo references are
// not checked here; the resolver validates them against the final score
// table once every pack has registered.

func compileScore(doc *ir.ScoreDoc) ir.ScoreSpec {
	return ir.ScoreSpec{
		Memo:        ir.QualifiedName(doc.Name),
		DisplayName: doc.DisplayName,
		Threshold:   doc.Threshold,
	}
}

func compilePattern(src, pack string, feature string) (*pattern.Pattern, error) {
	p, err := pattern.Compile(src)
	if err != nil {
		return nil, &LoadError{
			Code:    ErrCodeBadPattern,
			Message: err.Error(),
			Pack:    pack,
			Feature: feature,
		}
	}
	return p, nil
}

func compileCondition(doc *ir.ConditionDoc) (ir.Condition, error) {
	switch doc.Type {
	case "score":
		return ir.ScoreCondition{
			PlayerIndex: doc.PlayerIndex,
			Memo:        ir.QualifiedName(doc.Memo),
			Min:         doc.Minimum,
			Max:         doc.Maximum,
		}, nil
	case "coords":
		var minimum, maximum *int
		if doc.Minimum != nil {
			v := int(*doc.Minimum)
			minimum = &v
		}
		if doc.Maximum != nil {
			v := int(*doc.Maximum)
			maximum = &v
		}
		return ir.CoordsCondition{Axes: doc.Axes, Min: minimum, Max: maximum}, nil
	default:
		return nil, fmt.Errorf("unknown condition type %q", doc.Type)
	}
}

func compileConditions(docs []ir.ConditionDoc) ([]ir.Condition, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	conds := make([]ir.Condition, len(docs))
	for i := range docs {
		c, err := compileCondition(&docs[i])
		if err != nil {
			return nil, err
		}
		conds[i] = c
	}
	return conds, nil
}

func compileRestriction(doc *ir.RestrictionDoc, pack string) (ir.Restriction, error) {
	switch doc.Type {
	case "pattern":
		p, err := compilePattern(doc.Pattern, pack, doc.Name)
		if err != nil {
			return nil, err
		}
		conds, err := compileConditions(doc.Conditions)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadDocument, Message: err.Error(), Pack: pack, Feature: doc.Name}
		}
		return &ir.PatternRestriction{
			Name:         ir.QualifiedName(doc.Name),
			Pattern:      p,
			Conditions:   conds,
			ActivePlayer: doc.ActivePlayer,
			Negate:       doc.Negate,
		}, nil

	case "disjunction":
		conjunctions := make([][]ir.Restriction, len(doc.Conjunctions))
		for i, conj := range doc.Conjunctions {
			group := make([]ir.Restriction, len(conj))
			for j := range conj {
				sub, err := compileRestriction(&conj[j], pack)
				if err != nil {
					return nil, err
				}
				group[j] = sub
			}
			conjunctions[i] = group
		}
		return &ir.DisjunctionRestriction{
			Name:         ir.QualifiedName(doc.Name),
			Conjunctions: conjunctions,
		}, nil

	default:
		return nil, &LoadError{
			Code:    ErrCodeBadDocument,
			Message: fmt.Sprintf("unknown restriction type %q", doc.Type),
			Pack:    pack,
			Feature: doc.Name,
		}
	}
}

func compileRule(doc *ir.RuleDoc, pack string) (ir.Rule, error) {
	p, err := compilePattern(doc.Pattern, pack, doc.Name)
	if err != nil {
		return ir.Rule{}, err
	}

	badDoc := func(err error) error {
		return &LoadError{Code: ErrCodeBadDocument, Message: err.Error(), Pack: pack, Feature: doc.Name}
	}

	priority, err := ir.ParsePriority(doc.Priority)
	if err != nil {
		return ir.Rule{}, badDoc(err)
	}
	mode, err := ir.ParseMultimatchMode(doc.MultimatchMode)
	if err != nil {
		return ir.Rule{}, badDoc(err)
	}
	conds, err := compileConditions(doc.Conditions)
	if err != nil {
		return ir.Rule{}, badDoc(err)
	}

	var scoreActions []ir.ScoreAction
	for i := range doc.ScoreActions {
		a := &doc.ScoreActions[i]
		op, err := ir.ParseScoreOp(a.Operation)
		if err != nil {
			return ir.Rule{}, badDoc(err)
		}
		if a.PlayerIndex >= p.Len() {
			return ir.Rule{}, badDoc(fmt.Errorf("score action player_index %d outside pattern of length %d", a.PlayerIndex, p.Len()))
		}
		scoreActions = append(scoreActions, ir.ScoreAction{
			PlayerIndex: a.PlayerIndex,
			Memo:        ir.QualifiedName(a.Memo),
			Op:          op,
			Value:       a.Value,
		})
	}

	var boardActions []ir.BoardAction
	for i := range doc.BoardActions {
		a := &doc.BoardActions[i]
		if a.PlayerIndex >= p.Len() || a.LocationIndex >= p.Len() {
			return ir.Rule{}, badDoc(fmt.Errorf("board action index outside pattern of length %d", p.Len()))
		}
		boardActions = append(boardActions, ir.BoardAction{
			PlayerIndex:   a.PlayerIndex,
			LocationIndex: a.LocationIndex,
		})
	}

	return ir.Rule{
		Name:         ir.QualifiedName(doc.Name),
		Priority:     priority,
		Pattern:      p,
		Mode:         mode,
		Conditions:   conds,
		ScoreActions: scoreActions,
		BoardActions: boardActions,
		ActivePlayer: doc.ActivePlayer,
	}, nil
}
