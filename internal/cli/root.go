package cli

import (
	"stackhand/internal/logger"

	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stackhand",
		Short: "Discover, adopt and relocate docker compose stacks",
		Long: `stackhand finds docker compose stack directories on disk, records them
in an inventory, and moves a stack's files to a new location while keeping
its record in sync. It can run as an HTTP API or be driven from the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				logger.SetLevel(level)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to showing help if no subcommand
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}
