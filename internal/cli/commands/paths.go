package commands

import (
	"path/filepath"

	"stackhand/internal/operations"

	"github.com/spf13/cobra"
)

// PathCommands creates the external scan path management commands
func PathCommands(ops *operations.StackOperations) []*cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the paths scanned for stacks",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ops.ListExternalPaths(cmd.Context())
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fprintf(cmd.OutOrStdout(), "No external paths configured\n")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			fprintf(w, "PATH\tSOURCE\n")
			for _, p := range paths {
				fprintf(w, "%s\t%s\n", p.Path, p.Source)
			}
			return w.Flush()
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a path to scan for stacks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			added, err := ops.AddExternalPath(cmd.Context(), abs)
			if err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Added %s\n", added)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove <path>",
		Short:   "Stop scanning a path",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if err := ops.RemoveExternalPath(cmd.Context(), abs); err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Removed %s\n", abs)
			return nil
		},
	}

	return []*cobra.Command{listCmd, addCmd, removeCmd}
}
