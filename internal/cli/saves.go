package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/store"
)

// NewSavesCommand creates the saved-games command tree.
func NewSavesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "Manage saved games",
	}
	cmd.AddCommand(newSavesListCommand(opts))
	cmd.AddCommand(newSavesShowCommand(opts))
	cmd.AddCommand(newSavesDeleteCommand(opts))
	return cmd
}

func withStore(opts *RootOptions, fn func(s *store.Store) error) error {
	s, err := store.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newSavesListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *store.Store) error {
				infos, err := s.List()
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no saved games")
					return nil
				}
				for _, info := range infos {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s  %s  [%s]\n",
						info.ID, info.Name, info.CreatedAt, strings.Join(info.Datapacks, ", "))
				}
				return nil
			})
		},
	}
}

func newSavesShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a save document as canonical JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *store.Store) error {
				doc, err := s.LoadGame(args[0])
				if err != nil {
					return err
				}
				raw, err := ir.MarshalCanonical(doc)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return nil
			})
		},
	}
}

func newSavesDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *store.Store) error {
				if err := s.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}
