package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/pattern"
)

// matchThrough returns the first match of pattern src around move.
func matchThrough(t *testing.T, st *State, src string, move board.Coord) *pattern.Match {
	t.Helper()
	p := mustPattern(t, src)
	matches := p.Matches(st.board, move)
	require.NotEmpty(t, matches, "pattern %s should match at %s", src, move)
	return &matches[0]
}

func conditionState(t *testing.T) *State {
	t.Helper()
	e := New(&ir.Ruleset{
		Packs:      []string{"t"},
		Dimensions: []int{3, 3},
		Scores:     []ir.ScoreSpec{{Memo: "t.s"}},
	})
	return stateWith(t, e, 2, map[*board.Coord]board.Player{
		{1, 1}: 0,
		{1, 2}: 1,
	})
}

func TestResolvePlayer(t *testing.T) {
	st := conditionState(t)
	m := matchThrough(t, st, "[X]O", board.Coord{1, 1})

	p, err := resolvePlayer(st, m, ir.PlayerIndexActive, "t.f")
	require.NoError(t, err)
	assert.Equal(t, board.Player(0), p)

	p, err = resolvePlayer(st, m, ir.PlayerIndexCenter, "t.f")
	require.NoError(t, err)
	assert.Equal(t, board.Player(0), p)

	p, err = resolvePlayer(st, m, 1, "t.f")
	require.NoError(t, err)
	assert.Equal(t, board.Player(1), p)
}

func TestResolvePlayer_EmptyCellIsDatapackFault(t *testing.T) {
	st := conditionState(t)
	m := matchThrough(t, st, "[X]-", board.Coord{1, 1})

	_, err := resolvePlayer(st, m, 1, "t.f")
	require.Error(t, err)
	assert.True(t, IsDatapackFault(err))
}

func TestResolvePlayer_IndexOutsidePattern(t *testing.T) {
	st := conditionState(t)
	m := matchThrough(t, st, "[X]", board.Coord{1, 1})

	_, err := resolvePlayer(st, m, 4, "t.f")
	require.Error(t, err)
	assert.True(t, IsDatapackFault(err))
}

func TestScoreCondition_Bounds(t *testing.T) {
	st := conditionState(t)
	st.setScore(0, "t.s", 5)
	m := matchThrough(t, st, "[X]", board.Coord{1, 1})

	tests := []struct {
		name string
		min  *int64
		max  *int64
		want bool
	}{
		{"within both", i64ptr(1), i64ptr(9), true},
		{"at min", i64ptr(5), nil, true},
		{"below min", i64ptr(6), nil, false},
		{"at max", nil, i64ptr(5), true},
		{"above max", nil, i64ptr(4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := ir.ScoreCondition{
				PlayerIndex: ir.PlayerIndexActive,
				Memo:        "t.s",
				Min:         tt.min,
				Max:         tt.max,
			}
			got, err := conditionHolds(cond, st, m, board.Coord{1, 1}, "t.f")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreCondition_UnsetScoreReadsZero(t *testing.T) {
	st := conditionState(t)
	m := matchThrough(t, st, "[X]", board.Coord{1, 1})

	cond := ir.ScoreCondition{PlayerIndex: ir.PlayerIndexActive, Memo: "t.s", Max: i64ptr(0)}
	got, err := conditionHolds(cond, st, m, board.Coord{1, 1}, "t.f")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCoordsCondition(t *testing.T) {
	st := conditionState(t)
	m := matchThrough(t, st, "[X]", board.Coord{1, 1})
	move := board.Coord{1, 2}

	tests := []struct {
		name string
		cond ir.CoordsCondition
		want bool
	}{
		{"inside on both axes", ir.CoordsCondition{Axes: []int{0, 1}, Min: intptr(0), Max: intptr(2)}, true},
		{"axis 1 above max", ir.CoordsCondition{Axes: []int{1}, Max: intptr(1)}, false},
		{"axis 0 within", ir.CoordsCondition{Axes: []int{0}, Max: intptr(1)}, true},
		{"below min", ir.CoordsCondition{Axes: []int{0}, Min: intptr(2)}, false},
		{"min only", ir.CoordsCondition{Axes: []int{1}, Min: intptr(2)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conditionHolds(tt.cond, st, m, move, "t.f")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordsCondition_BadAxis(t *testing.T) {
	st := conditionState(t)
	m := matchThrough(t, st, "[X]", board.Coord{1, 1})

	cond := ir.CoordsCondition{Axes: []int{5}, Min: intptr(0)}
	_, err := conditionHolds(cond, st, m, board.Coord{1, 1}, "t.f")
	require.Error(t, err)
	assert.True(t, IsDatapackFault(err))
}

func TestConditionsHold_AllMustPass(t *testing.T) {
	st := conditionState(t)
	m := matchThrough(t, st, "[X]", board.Coord{1, 1})
	move := board.Coord{1, 1}

	pass := ir.CoordsCondition{Axes: []int{0}, Max: intptr(2)}
	fail := ir.CoordsCondition{Axes: []int{0}, Min: intptr(2)}

	got, err := conditionsHold([]ir.Condition{pass, fail}, st, m, move, "t.f")
	require.NoError(t, err)
	assert.False(t, got)

	got, err = conditionsHold([]ir.Condition{pass, pass}, st, m, move, "t.f")
	require.NoError(t, err)
	assert.True(t, got)
}
