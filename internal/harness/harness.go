package harness

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/engine"
	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/loader"
)

// TraceEvent records one turn of a scenario run. Scores are rendered
// as space-separated per-player values so traces stay stable and
// readable in golden files.
type TraceEvent struct {
	Type   string            `json:"type"` // "move" | "rejected"
	Player int               `json:"player"`
	Move   string            `json:"move"`
	Code   string            `json:"code,omitempty"`
	Scores map[string]string `json:"scores,omitempty"`
}

// TraceSnapshot is the full deterministic trace of a scenario run,
// compared against golden files.
type TraceSnapshot struct {
	Scenario     string       `json:"scenario"`
	Trace        []TraceEvent `json:"trace"`
	Winner       *int         `json:"winner,omitempty"`
	ActivePlayer int          `json:"active_player"`
}

// Result reports a scenario run: the final state, the trace, and any
// assertion failures.
type Result struct {
	Scenario *Scenario
	State    *engine.State
	Engine   *engine.Engine
	Trace    TraceSnapshot
	Failures []string
}

// Passed reports whether every move expectation and assertion held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes a scenario against the real engine: load the packs,
// pre-place setup stones, play every move, then evaluate assertions.
func Run(sc *Scenario) (*Result, error) {
	docs, err := loader.BuiltinDocs()
	if err != nil {
		return nil, err
	}
	for i, raw := range sc.Documents {
		doc, err := loader.ParseDocument([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("scenario %s: documents[%d]: %w", sc.Name, i, err)
		}
		replaced := false
		for j, existing := range docs {
			if existing.Name == doc.Name {
				docs[j] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			docs = append(docs, doc)
		}
	}

	rs, err := loader.Load(docs, sc.Packs...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	eng := engine.New(rs)

	st, err := eng.NewGame(sc.Players)
	if err != nil {
		return nil, err
	}
	for _, stone := range sc.Setup {
		if err := st.Board().Set(board.Coord(stone.At), board.Player(stone.Player)); err != nil {
			return nil, fmt.Errorf("scenario %s: setup stone at %v: %w", sc.Name, stone.At, err)
		}
	}

	result := &Result{
		Scenario: sc,
		Engine:   eng,
		Trace:    TraceSnapshot{Scenario: sc.Name},
	}

	for i, step := range sc.Moves {
		move := board.Coord(step.At)
		player := int(st.ActivePlayer())
		next, err := eng.Apply(st, move)
		if err != nil {
			event := TraceEvent{
				Type:   "rejected",
				Player: player,
				Move:   move.String(),
				Code:   errorCode(err),
			}
			result.Trace.Trace = append(result.Trace.Trace, event)
			if !step.Illegal {
				result.Failures = append(result.Failures,
					fmt.Sprintf("moves[%d] at %s: unexpected rejection: %v", i, move, err))
			}
			continue
		}
		if step.Illegal {
			result.Failures = append(result.Failures,
				fmt.Sprintf("moves[%d] at %s: expected rejection, move was accepted", i, move))
		}
		st = next
		result.Trace.Trace = append(result.Trace.Trace, TraceEvent{
			Type:   "move",
			Player: player,
			Move:   move.String(),
			Scores: renderScores(rs, st),
		})
	}

	result.State = st
	result.Trace.ActivePlayer = int(st.ActivePlayer())
	if winner, ok := eng.Winner(st); ok && st.Terminal() {
		w := int(winner)
		result.Trace.Winner = &w
	}

	result.Failures = append(result.Failures, checkAssertions(sc, eng, st)...)
	return result, nil
}

func errorCode(err error) string {
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return "ERROR"
}

func renderScores(rs *ir.Ruleset, st *engine.State) map[string]string {
	scores := make(map[string]string, len(rs.Scores))
	for _, spec := range rs.Scores {
		vals := make([]string, st.NumPlayers())
		for p := 0; p < st.NumPlayers(); p++ {
			vals[p] = strconv.FormatInt(st.Score(board.Player(p), spec.Memo), 10)
		}
		scores[string(spec.Memo)] = strings.Join(vals, " ")
	}
	return scores
}
