package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/pattern"
)

func mustPattern(t *testing.T, src string) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Compile(src)
	require.NoError(t, err)
	return p
}

func i64ptr(v int64) *int64 { return &v }
func intptr(v int) *int     { return &v }

// penteRuleset builds the Pente baseline: pair capture plus
// five-in-a-row and capture-count wins.
func penteRuleset(t *testing.T, dims []int) *ir.Ruleset {
	t.Helper()
	return &ir.Ruleset{
		Packs:      []string{"pente"},
		Dimensions: dims,
		Scores: []ir.ScoreSpec{
			{Memo: "pente.wins", DisplayName: "Wins", Threshold: i64ptr(0)},
			{Memo: "pente.captures", DisplayName: "Captured stones", Threshold: i64ptr(9)},
		},
		Rules: []ir.Rule{
			{
				Name:     "pente.capture",
				Priority: ir.PriorityDefault,
				Pattern:  mustPattern(t, "[X]xxX"),
				Mode:     ir.MultimatchAll,
				ScoreActions: []ir.ScoreAction{
					{PlayerIndex: ir.PlayerIndexActive, Memo: "pente.captures", Op: ir.ScoreOpAdd, Value: 2},
				},
				BoardActions: []ir.BoardAction{
					{PlayerIndex: ir.PlayerIndexRemove, LocationIndex: 1},
					{PlayerIndex: ir.PlayerIndexRemove, LocationIndex: 2},
				},
			},
			{
				Name:     "pente.win",
				Priority: ir.PriorityDefault,
				Pattern:  mustPattern(t, "XXXXX"),
				Mode:     ir.MultimatchHalf,
				ScoreActions: []ir.ScoreAction{
					{PlayerIndex: ir.PlayerIndexActive, Memo: "pente.wins", Op: ir.ScoreOpAdd, Value: 1},
				},
			},
		},
	}
}

// bareRuleset has no rules or restrictions: placement only.
func bareRuleset(dims []int) *ir.Ruleset {
	return &ir.Ruleset{Packs: []string{"bare"}, Dimensions: dims}
}

// stateWith places stones on a fresh game state.
func stateWith(t *testing.T, e *Engine, numPlayers int, stones map[*board.Coord]board.Player) *State {
	t.Helper()
	st, err := e.NewGame(numPlayers)
	require.NoError(t, err)
	for c, p := range stones {
		require.NoError(t, st.board.Set(*c, p))
	}
	return st
}

func TestNewGame(t *testing.T) {
	e := New(penteRuleset(t, []int{7, 7}))
	st, err := e.NewGame(2)
	require.NoError(t, err)

	assert.Equal(t, []int{7, 7}, st.Board().Dimensions())
	assert.Equal(t, board.Player(0), st.ActivePlayer())
	assert.Equal(t, 2, st.NumPlayers())
	assert.False(t, st.Terminal())
	assert.Zero(t, st.Score(0, "pente.captures"))
}

func TestNewGame_InvalidPlayers(t *testing.T) {
	e := New(bareRuleset([]int{3, 3}))
	_, err := e.NewGame(0)
	assert.Error(t, err)
}

func TestApply_PlacesStoneAndAdvances(t *testing.T) {
	e := New(bareRuleset([]int{3, 3}))
	st, err := e.NewGame(2)
	require.NoError(t, err)

	next, err := e.Apply(st, board.Coord{1, 1})
	require.NoError(t, err)

	assert.Equal(t, board.Player(0), next.Board().At(board.Coord{1, 1}))
	assert.Equal(t, board.Player(1), next.ActivePlayer())
	// The input state is untouched.
	assert.Equal(t, board.Empty, st.Board().At(board.Coord{1, 1}))
	assert.Equal(t, board.Player(0), st.ActivePlayer())
}

func TestApply_TurnOrderWraps(t *testing.T) {
	e := New(bareRuleset([]int{3, 3}))
	st, err := e.NewGame(3)
	require.NoError(t, err)

	moves := []board.Coord{{0, 0}, {0, 1}, {0, 2}, {1, 0}}
	for _, m := range moves {
		st, err = e.Apply(st, m)
		require.NoError(t, err)
	}
	assert.Equal(t, board.Player(1), st.ActivePlayer())
	assert.Equal(t, board.Player(0), st.Board().At(board.Coord{1, 0}))
}

func TestApply_Rejections(t *testing.T) {
	e := New(bareRuleset([]int{3, 3}))
	st, err := e.NewGame(2)
	require.NoError(t, err)
	st, err = e.Apply(st, board.Coord{0, 0})
	require.NoError(t, err)

	tests := []struct {
		name string
		move board.Coord
		code RuntimeErrorCode
	}{
		{"occupied", board.Coord{0, 0}, ErrCodeOccupied},
		{"out of bounds", board.Coord{3, 0}, ErrCodeOutOfBounds},
		{"negative ordinate", board.Coord{0, -1}, ErrCodeOutOfBounds},
		{"wrong arity", board.Coord{0}, ErrCodeOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Apply(st, tt.move)
			var re *RuntimeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.code, re.Code)
			assert.False(t, e.IsLegal(st, tt.move))
		})
	}
}

func TestApply_TerminalStateRejectsMoves(t *testing.T) {
	e := New(bareRuleset([]int{3, 3}))
	st, err := e.NewGame(2)
	require.NoError(t, err)
	st.active = NoPlayer

	_, err = e.Apply(st, board.Coord{0, 0})
	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeGameOver, re.Code)
}

func TestApply_FiveInARowWin(t *testing.T) {
	e := New(penteRuleset(t, []int{7, 7}))
	st, err := e.NewGame(2)
	require.NoError(t, err)

	// Players alternate; player 0 builds a horizontal five on row 0.
	moves := []board.Coord{
		{0, 0}, {6, 0},
		{0, 1}, {6, 1},
		{0, 2}, {6, 2},
		{0, 3}, {6, 3},
		{0, 4}, // completes XXXXX
	}
	for _, m := range moves {
		st, err = e.Apply(st, m)
		require.NoError(t, err)
	}

	assert.True(t, st.Terminal())
	assert.Equal(t, NoPlayer, st.ActivePlayer())
	winner, ok := e.Winner(st)
	require.True(t, ok)
	assert.Equal(t, board.Player(0), winner)
	// Half mode: one increment for the line, not one per direction.
	assert.Equal(t, int64(1), st.Score(0, "pente.wins"))
}

func TestApply_PenteCapture(t *testing.T) {
	e := New(penteRuleset(t, []int{7, 7}))
	st := stateWith(t, e, 2, map[*board.Coord]board.Player{
		{0, 1}: 1,
		{0, 2}: 1,
		{0, 3}: 0,
	})

	// Player 0 places at the open end of .OOX, matching [X]xxX.
	next, err := e.Apply(st, board.Coord{0, 0})
	require.NoError(t, err)

	assert.Equal(t, board.Empty, next.Board().At(board.Coord{0, 1}))
	assert.Equal(t, board.Empty, next.Board().At(board.Coord{0, 2}))
	assert.Equal(t, board.Player(0), next.Board().At(board.Coord{0, 0}))
	assert.Equal(t, board.Player(0), next.Board().At(board.Coord{0, 3}))
	assert.Equal(t, int64(2), next.Score(0, "pente.captures"))
	assert.Equal(t, int64(0), next.Score(1, "pente.captures"))
}

func TestApply_CaptureCountWin(t *testing.T) {
	e := New(penteRuleset(t, []int{7, 7}))
	st := stateWith(t, e, 2, map[*board.Coord]board.Player{
		{0, 1}: 1,
		{0, 2}: 1,
		{0, 3}: 0,
	})
	st.setScore(0, "pente.captures", 8)

	next, err := e.Apply(st, board.Coord{0, 0})
	require.NoError(t, err)

	// 8 + 2 = 10 strictly exceeds the threshold of 9.
	assert.Equal(t, int64(10), next.Score(0, "pente.captures"))
	winner, ok := e.Winner(next)
	require.True(t, ok)
	assert.Equal(t, board.Player(0), winner)
	assert.True(t, next.Terminal())
}

func TestApply_Atomicity(t *testing.T) {
	// A score condition with player_index pointing at an empty pattern
	// cell is a datapack fault; the whole turn must roll back.
	rs := &ir.Ruleset{
		Packs:      []string{"broken"},
		Dimensions: []int{3, 3},
		Scores:     []ir.ScoreSpec{{Memo: "broken.s"}},
		Rules: []ir.Rule{{
			Name:    "broken.rule",
			Pattern: mustPattern(t, "[X]-"),
			Mode:    ir.MultimatchAll,
			Conditions: []ir.Condition{
				ir.ScoreCondition{PlayerIndex: 1, Memo: "broken.s", Min: i64ptr(0)},
			},
			ScoreActions: []ir.ScoreAction{
				{PlayerIndex: ir.PlayerIndexActive, Memo: "broken.s", Op: ir.ScoreOpAdd, Value: 1},
			},
		}},
	}
	e := New(rs)
	st, err := e.NewGame(2)
	require.NoError(t, err)
	snapshot := st.Clone()

	_, err = e.Apply(st, board.Coord{1, 1})
	require.Error(t, err)
	assert.True(t, IsDatapackFault(err))
	assert.True(t, st.Equal(snapshot), "failed apply must leave the state unchanged")
}

func TestApply_MultimatchHalfVsAll(t *testing.T) {
	build := func(mode ir.MultimatchMode) *ir.Ruleset {
		return &ir.Ruleset{
			Packs:      []string{"t"},
			Dimensions: []int{3, 3},
			Scores:     []ir.ScoreSpec{{Memo: "t.hits"}},
			Rules: []ir.Rule{{
				Name:    "t.palindrome",
				Pattern: mustPattern(t, "X[.]X"),
				Mode:    mode,
				ScoreActions: []ir.ScoreAction{
					{PlayerIndex: ir.PlayerIndexActive, Memo: "t.hits", Op: ir.ScoreOpAdd, Value: 1},
				},
			}},
		}
	}

	for _, tt := range []struct {
		mode ir.MultimatchMode
		want int64
	}{
		{ir.MultimatchHalf, 1},
		{ir.MultimatchAll, 2},
		{ir.MultimatchOne, 1},
	} {
		t.Run(tt.mode.String(), func(t *testing.T) {
			e := New(build(tt.mode))
			st := stateWith(t, e, 2, map[*board.Coord]board.Player{
				{1, 0}: 0,
				{1, 2}: 0,
			})

			next, err := e.Apply(st, board.Coord{1, 1})
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.Score(0, "t.hits"))
		})
	}
}

func TestApply_ActivePlayerGatesRules(t *testing.T) {
	rs := &ir.Ruleset{
		Packs:      []string{"t"},
		Dimensions: []int{3, 3},
		Scores:     []ir.ScoreSpec{{Memo: "t.marks"}},
		Rules: []ir.Rule{{
			Name:         "t.second-player-only",
			Pattern:      mustPattern(t, "[#]"),
			Mode:         ir.MultimatchOne,
			ActivePlayer: intptr(1),
			ScoreActions: []ir.ScoreAction{
				{PlayerIndex: ir.PlayerIndexActive, Memo: "t.marks", Op: ir.ScoreOpAdd, Value: 1},
			},
		}},
	}
	e := New(rs)
	st, err := e.NewGame(2)
	require.NoError(t, err)

	st, err = e.Apply(st, board.Coord{0, 0}) // player 0: rule skipped
	require.NoError(t, err)
	assert.Zero(t, st.Score(0, "t.marks"))
	assert.Zero(t, st.Score(1, "t.marks"))

	st, err = e.Apply(st, board.Coord{0, 1}) // player 1: rule fires
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Score(1, "t.marks"))
}

func TestApply_RulesSeeEarlierBoardMutations(t *testing.T) {
	// The first rule removes the flanked stone; the second, later in
	// ruleset order, sees the emptied cell.
	rs := &ir.Ruleset{
		Packs:      []string{"t"},
		Dimensions: []int{1, 3},
		Scores:     []ir.ScoreSpec{{Memo: "t.after"}},
		Rules: []ir.Rule{
			{
				Name:    "t.remove",
				Pattern: mustPattern(t, "[X]O"),
				Mode:    ir.MultimatchAll,
				BoardActions: []ir.BoardAction{
					{PlayerIndex: ir.PlayerIndexRemove, LocationIndex: 1},
				},
			},
			{
				Name:    "t.count-empty",
				Pattern: mustPattern(t, "[X]-"),
				Mode:    ir.MultimatchAll,
				ScoreActions: []ir.ScoreAction{
					{PlayerIndex: ir.PlayerIndexActive, Memo: "t.after", Op: ir.ScoreOpAdd, Value: 1},
				},
			},
		},
	}
	e := New(rs)
	st := stateWith(t, e, 2, map[*board.Coord]board.Player{
		{0, 2}: 1,
	})

	next, err := e.Apply(st, board.Coord{0, 1})
	require.NoError(t, err)
	assert.Equal(t, board.Empty, next.Board().At(board.Coord{0, 2}))
	// Both neighbors of the move are empty once t.remove has run.
	assert.Equal(t, int64(2), next.Score(0, "t.after"))
}

func TestWinner_TieBreaksToLowestPlayer(t *testing.T) {
	e := New(penteRuleset(t, []int{7, 7}))
	st, err := e.NewGame(2)
	require.NoError(t, err)
	st.setScore(1, "pente.wins", 5)
	st.setScore(0, "pente.wins", 1)

	winner, ok := e.Winner(st)
	require.True(t, ok)
	assert.Equal(t, board.Player(0), winner)
}

func TestWinner_NoThresholdExceeded(t *testing.T) {
	e := New(penteRuleset(t, []int{7, 7}))
	st, err := e.NewGame(2)
	require.NoError(t, err)
	st.setScore(0, "pente.captures", 9) // equal, not strictly greater

	_, ok := e.Winner(st)
	assert.False(t, ok)
}

func TestIsLegal_Pure(t *testing.T) {
	e := New(penteRuleset(t, []int{7, 7}))
	st, err := e.NewGame(2)
	require.NoError(t, err)
	snapshot := st.Clone()

	move := board.Coord{3, 3}
	first := e.IsLegal(st, move)
	second := e.IsLegal(st, move)
	assert.Equal(t, first, second)
	assert.True(t, first)
	assert.True(t, st.Equal(snapshot), "IsLegal must not mutate the state")
}
