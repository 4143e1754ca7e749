package ir

import "fmt"

// ValidationError reports a structural problem in a datapack document,
// with the path of the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a datapack document against structural rules.
// Returns all errors (not fail-fast) so datapack authors see every
// problem in one pass. Cross-pack rules (overrides, memo resolution,
// pattern compilation) are the loader's job, not this one.
func (d *DatapackDoc) Validate() []ValidationError {
	var errs []ValidationError

	if d.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "datapack name is required"})
	}

	for i, s := range d.Scores {
		field := fmt.Sprintf("scores[%d]", i)
		if s.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "score name is required"})
		}
		if s.Threshold != nil && *s.Threshold < 0 {
			errs = append(errs, ValidationError{Field: field + ".threshold", Message: "threshold must be non-negative"})
		}
	}

	for i, r := range d.Restrictions {
		field := fmt.Sprintf("restrictions[%d]", i)
		if r.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "top-level restrictions require a qualified name"})
		}
		errs = append(errs, validateRestrictionDoc(&r, field, true)...)
	}

	for i, r := range d.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		if r.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "rule name is required"})
		}
		if r.Pattern == "" {
			errs = append(errs, ValidationError{Field: field + ".pattern", Message: "rule pattern is required"})
		}
		if r.Priority != "" {
			if _, err := ParsePriority(r.Priority); err != nil {
				errs = append(errs, ValidationError{Field: field + ".priority", Message: err.Error()})
			}
		}
		if r.MultimatchMode != "" {
			if _, err := ParseMultimatchMode(r.MultimatchMode); err != nil {
				errs = append(errs, ValidationError{Field: field + ".multimatch_mode", Message: err.Error()})
			}
		}
		for j, c := range r.Conditions {
			errs = append(errs, validateConditionDoc(&c, fmt.Sprintf("%s.conditions[%d]", field, j))...)
		}
		for j, a := range r.ScoreActions {
			af := fmt.Sprintf("%s.score_actions[%d]", field, j)
			if a.Memo == "" {
				errs = append(errs, ValidationError{Field: af + ".memo", Message: "score action memo is required"})
			}
			if _, err := ParseScoreOp(a.Operation); err != nil {
				errs = append(errs, ValidationError{Field: af + ".operation", Message: err.Error()})
			}
			if a.PlayerIndex < PlayerIndexActive {
				errs = append(errs, ValidationError{Field: af + ".player_index", Message: fmt.Sprintf("player_index %d below minimum %d", a.PlayerIndex, PlayerIndexActive)})
			}
		}
		for j, a := range r.BoardActions {
			af := fmt.Sprintf("%s.board_actions[%d]", field, j)
			if a.PlayerIndex < PlayerIndexRemove {
				errs = append(errs, ValidationError{Field: af + ".player_index", Message: fmt.Sprintf("player_index %d below minimum %d", a.PlayerIndex, PlayerIndexRemove)})
			}
			if a.LocationIndex < LocationIndexCenter {
				errs = append(errs, ValidationError{Field: af + ".location_index", Message: fmt.Sprintf("location_index %d below minimum %d", a.LocationIndex, LocationIndexCenter)})
			}
		}
	}

	if d.Board != nil {
		for i, ext := range d.Board.Dimensions {
			if ext <= 0 {
				errs = append(errs, ValidationError{Field: fmt.Sprintf("board.dimensions[%d]", i), Message: "board extents must be positive"})
			}
		}
		if d.Board.Topology != "" && d.Board.Topology != "stop" {
			errs = append(errs, ValidationError{Field: "board.topology", Message: fmt.Sprintf("topology %q is reserved; only \"stop\" is implemented", d.Board.Topology)})
		}
	}

	return errs
}

func validateRestrictionDoc(r *RestrictionDoc, field string, topLevel bool) []ValidationError {
	var errs []ValidationError

	switch r.Type {
	case "pattern":
		if r.Pattern == "" {
			errs = append(errs, ValidationError{Field: field + ".pattern", Message: "pattern restriction requires a pattern"})
		}
		for j, c := range r.Conditions {
			errs = append(errs, validateConditionDoc(&c, fmt.Sprintf("%s.conditions[%d]", field, j))...)
		}
	case "disjunction":
		if len(r.Conjunctions) == 0 {
			errs = append(errs, ValidationError{Field: field + ".conjunctions", Message: "disjunction requires at least one conjunction"})
		}
		for i, conj := range r.Conjunctions {
			for j, sub := range conj {
				subField := fmt.Sprintf("%s.conjunctions[%d][%d]", field, i, j)
				if sub.Name != "" {
					errs = append(errs, ValidationError{Field: subField + ".name", Message: "nested restrictions are anonymous"})
				}
				errs = append(errs, validateRestrictionDoc(&sub, subField, false)...)
			}
		}
	default:
		errs = append(errs, ValidationError{Field: field + ".type", Message: fmt.Sprintf("unknown restriction type %q", r.Type)})
	}

	return errs
}

func validateConditionDoc(c *ConditionDoc, field string) []ValidationError {
	var errs []ValidationError

	if c.Minimum == nil && c.Maximum == nil {
		errs = append(errs, ValidationError{Field: field, Message: "condition requires a minimum or a maximum"})
	}

	switch c.Type {
	case "score":
		if c.Memo == "" {
			errs = append(errs, ValidationError{Field: field + ".memo", Message: "score condition memo is required"})
		}
		if c.PlayerIndex < PlayerIndexActive {
			errs = append(errs, ValidationError{Field: field + ".player_index", Message: fmt.Sprintf("player_index %d below minimum %d", c.PlayerIndex, PlayerIndexActive)})
		}
	case "coords":
		if len(c.Axes) == 0 {
			errs = append(errs, ValidationError{Field: field + ".axes", Message: "coords condition requires at least one axis"})
		}
		for i, axis := range c.Axes {
			if axis < 0 {
				errs = append(errs, ValidationError{Field: fmt.Sprintf("%s.axes[%d]", field, i), Message: "axes must be non-negative"})
			}
		}
	default:
		errs = append(errs, ValidationError{Field: field + ".type", Message: fmt.Sprintf("unknown condition type %q", c.Type)})
	}

	return errs
}
