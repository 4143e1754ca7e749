package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-games/pentad/internal/board"
	"github.com/quarry-games/pentad/internal/engine"
	"github.com/quarry-games/pentad/internal/store"
)

// NewPlayCommand creates the interactive hotseat command.
//
// Moves are entered as coordinates ("3 4"); other inputs:
//
//	scores        print the score table
//	save <name>   store the game and print its id
//	quit          leave the game
func NewPlayCommand(opts *RootOptions) *cobra.Command {
	var resume string
	var players int

	cmd := &cobra.Command{
		Use:   "play [pack...]",
		Short: "Play a hotseat game with the given datapacks",
		Long: "Loads the named datapacks (default: pente) and runs a hotseat game\n" +
			"on the terminal. Dependencies are pulled in automatically.",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := gatherPacks(opts.PackDir)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = []string{"pente"}
			}
			rs, err := loadRuleset(docs, names)
			if err != nil {
				return err
			}
			eng := engine.New(rs)

			st, err := startState(eng, opts, resume, players)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Playing %s\n", rs.DisplayName)
			return playLoop(cmd, opts, eng, st)
		},
	}

	cmd.Flags().StringVar(&resume, "resume", "", "resume a saved game by id")
	cmd.Flags().IntVar(&players, "players", 2, "number of players")
	return cmd
}

func startState(eng *engine.Engine, opts *RootOptions, resume string, players int) (*engine.State, error) {
	if resume == "" {
		return eng.NewGame(players)
	}
	s, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	doc, err := s.LoadGame(resume)
	if err != nil {
		return nil, err
	}
	return eng.Deserialize(doc)
}

func playLoop(cmd *cobra.Command, opts *RootOptions, eng *engine.Engine, st *engine.State) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, renderBoard(st.Board()))
		if st.Terminal() {
			if winner, ok := eng.Winner(st); ok {
				fmt.Fprintf(out, "Player %c wins!\n", glyph(winner))
			} else {
				fmt.Fprintln(out, "Game over.")
			}
			fmt.Fprint(out, renderScores(eng.Ruleset(), st))
			return nil
		}

		fmt.Fprintf(out, "Player %c to move> ", glyph(st.ActivePlayer()))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "scores":
			fmt.Fprint(out, renderScores(eng.Ruleset(), st))
		case "save":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: save <name>")
				continue
			}
			if err := saveGame(opts, eng, st, strings.Join(fields[1:], " "), out); err != nil {
				fmt.Fprintf(out, "save failed: %v\n", err)
			}
		default:
			next, err := applyInput(eng, st, fields)
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			st = next
		}
	}
}

func applyInput(eng *engine.Engine, st *engine.State, fields []string) (*engine.State, error) {
	ndims := st.Board().NumDims()
	if len(fields) != ndims {
		return nil, fmt.Errorf("enter %d coordinates, e.g. %q", ndims, exampleMove(ndims))
	}
	move := make(board.Coord, ndims)
	for i, f := range fields {
		ord, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("not a coordinate: %q", f)
		}
		move[i] = ord
	}
	return eng.Apply(st, move)
}

func exampleMove(ndims int) string {
	parts := make([]string, ndims)
	for i := range parts {
		parts[i] = strconv.Itoa(i + 3)
	}
	return strings.Join(parts, " ")
}

func saveGame(opts *RootOptions, eng *engine.Engine, st *engine.State, name string, out io.Writer) error {
	if err := ensureParentDir(opts.DBPath); err != nil {
		return err
	}
	s, err := store.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()
	id, err := s.SaveGame(name, eng.Serialize(st))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved as %s\n", id)
	return nil
}
