// Package cli implements the pentad command tree.
package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	// PackDir is an extra directory of datapack JSON files, merged with
	// the built-in packs.
	PackDir string
	// DBPath is the saved-games database location.
	DBPath string
}

// NewRootCommand creates the root command for the pentad CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pentad",
		Short: "pentad - datapack-driven Pente engine",
		Long: "A rule engine for Pente and its variants. Games are declared in JSON\n" +
			"datapacks composing rules, restrictions, and score counters.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.PackDir, "packs", "", "directory of additional datapack JSON files")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", defaultDBPath(), "saved games database path")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSavesCommand(opts))

	return cmd
}

// defaultDBPath places the saves database under the XDG data directory.
func defaultDBPath() string {
	return filepath.Join(xdg.DataHome, "pentad", "saves.db")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

// ensureParentDir creates the directory that will hold path.
func ensureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
