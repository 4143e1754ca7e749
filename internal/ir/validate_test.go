package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64ptr(v int64) *int64 { return &v }

func validDoc() *DatapackDoc {
	return &DatapackDoc{
		Name: "pente",
		Scores: []ScoreDoc{
			{Name: "pente.captures", Threshold: i64ptr(9)},
		},
		Restrictions: []RestrictionDoc{
			{Type: "pattern", Name: "pente.no-overline", Pattern: "XXXXXX", Negate: true},
		},
		Rules: []RuleDoc{
			{
				Name:    "pente.capture",
				Pattern: "[X]OOX",
				ScoreActions: []ScoreActionDoc{
					{PlayerIndex: -2, Memo: "pente.captures", Operation: "add", Value: 2},
				},
				BoardActions: []BoardActionDoc{
					{PlayerIndex: -3, LocationIndex: 1},
				},
			},
		},
		Board: &BoardDoc{Dimensions: []int{19, 19}, Topology: "stop"},
	}
}

func TestValidate_ValidDocument(t *testing.T) {
	assert.Empty(t, validDoc().Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	doc := &DatapackDoc{
		Scores: []ScoreDoc{{Threshold: i64ptr(-1)}},
		Rules:  []RuleDoc{{}},
	}
	errs := doc.Validate()
	// Missing pack name, missing score name, bad threshold, missing
	// rule name, missing rule pattern: all reported in one pass.
	assert.GreaterOrEqual(t, len(errs), 5)
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DatapackDoc)
		field  string
	}{
		{"unknown priority", func(d *DatapackDoc) { d.Rules[0].Priority = "soon" }, "rules[0].priority"},
		{"unknown multimatch", func(d *DatapackDoc) { d.Rules[0].MultimatchMode = "some" }, "rules[0].multimatch_mode"},
		{"unknown operation", func(d *DatapackDoc) { d.Rules[0].ScoreActions[0].Operation = "divide" }, "rules[0].score_actions[0].operation"},
		{"score player_index too low", func(d *DatapackDoc) { d.Rules[0].ScoreActions[0].PlayerIndex = -3 }, "rules[0].score_actions[0].player_index"},
		{"board player_index too low", func(d *DatapackDoc) { d.Rules[0].BoardActions[0].PlayerIndex = -4 }, "rules[0].board_actions[0].player_index"},
		{"location_index too low", func(d *DatapackDoc) { d.Rules[0].BoardActions[0].LocationIndex = -2 }, "rules[0].board_actions[0].location_index"},
		{"anonymous top-level restriction", func(d *DatapackDoc) { d.Restrictions[0].Name = "" }, "restrictions[0].name"},
		{"unknown restriction type", func(d *DatapackDoc) { d.Restrictions[0].Type = "maybe" }, "restrictions[0].type"},
		{"reserved topology", func(d *DatapackDoc) { d.Board.Topology = "loop" }, "board.topology"},
		{"bad dimension", func(d *DatapackDoc) { d.Board.Dimensions = []int{19, 0} }, "board.dimensions[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			errs := doc.Validate()
			require.NotEmpty(t, errs)
			fields := make([]string, len(errs))
			for i, e := range errs {
				fields[i] = e.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_Conditions(t *testing.T) {
	doc := validDoc()
	doc.Rules[0].Conditions = []ConditionDoc{
		{Type: "score", Memo: "pente.captures"},         // no bound
		{Type: "coords", Minimum: i64ptr(0)},            // no axes
		{Type: "weather", Minimum: i64ptr(0)},           // unknown type
		{Type: "coords", Axes: []int{-1}, Minimum: i64ptr(0)}, // negative axis
	}
	errs := doc.Validate()
	assert.Len(t, errs, 4)
}

func TestValidate_NestedRestrictions(t *testing.T) {
	doc := validDoc()
	doc.Restrictions = []RestrictionDoc{{
		Type: "disjunction",
		Name: "pente.dnf",
		Conjunctions: [][]RestrictionDoc{
			{
				{Type: "pattern", Pattern: "XX"},
				// Nested restrictions must stay anonymous.
				{Type: "pattern", Pattern: "XX", Name: "pente.sneaky"},
			},
		},
	}}
	errs := doc.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "restrictions[0].conjunctions[0][1].name", errs[0].Field)
}

func TestValidate_EmptyDisjunction(t *testing.T) {
	doc := validDoc()
	doc.Restrictions = []RestrictionDoc{{Type: "disjunction", Name: "pente.dnf"}}
	errs := doc.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "restrictions[0].conjunctions", errs[0].Field)
}
