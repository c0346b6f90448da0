package commands

import (
	"stackhand/internal/operations"

	"github.com/spf13/cobra"
)

// FileCommands creates the host file browsing commands
func FileCommands(ops *operations.StackOperations) []*cobra.Command {
	// stackhand ls [path]
	lsCmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory, directories first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			listing, err := ops.ListDirectory(path)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), listing)
			}

			w := newTable(cmd.OutOrStdout())
			for _, e := range listing.Entries {
				fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.Mode, e.Kind, e.Size, e.ModTime.Format("2006-01-02 15:04"), e.Name)
			}
			return w.Flush()
		},
	}
	lsCmd.Flags().Bool("json", false, "Print the listing as JSON")

	// stackhand cat <path>
	catCmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := ops.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(content.Content))
			return err
		},
	}

	return []*cobra.Command{lsCmd, catCmd}
}
