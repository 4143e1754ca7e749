package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-games/pentad/internal/loader"
)

// NewValidateCommand creates the datapack validation command. Every
// JSON file in the directory is checked against the schema; if all
// parse, a full merged load (together with the built-in packs) is
// attempted so cross-pack errors surface too: missing dependencies,
// cycles, duplicate registrations, unresolved memos.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate a directory of datapack JSON files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			out := cmd.OutOrStdout()

			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}
			var names []string
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
					names = append(names, entry.Name())
				}
			}
			slices.Sort(names)
			if len(names) == 0 {
				return fmt.Errorf("no datapack JSON files in %s", dir)
			}

			failures := 0
			for _, name := range names {
				raw, err := os.ReadFile(filepath.Join(dir, name))
				if err != nil {
					return err
				}
				doc, err := loader.ParseDocument(raw)
				if err != nil {
					failures++
					fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%s)\n", name, doc.Name)
			}

			if failures == 0 {
				docs, err := gatherPacks(dir)
				if err != nil {
					return err
				}
				if _, err := loader.Load(docs); err != nil {
					failures++
					fmt.Fprintf(out, "FAIL merged load: %v\n", err)
				} else {
					fmt.Fprintln(out, "ok   merged load")
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d validation failure(s)", failures)
			}
			return nil
		},
	}
}
