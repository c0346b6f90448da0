package cli

import (
	"context"

	"stackhand/internal/cli/commands"
	"stackhand/internal/operations"

	"github.com/spf13/cobra"
)

// Manager handles CLI operations
type Manager struct {
	ops     *operations.StackOperations
	serve   commands.ServeFunc
	host    string
	port    int
	rootCmd *cobra.Command
}

// New creates a new CLI manager. serve backs the server command and may be
// nil, in which case the command is not registered.
func New(ops *operations.StackOperations, serve commands.ServeFunc, host string, port int) *Manager {
	m := &Manager{
		ops:     ops,
		serve:   serve,
		host:    host,
		port:    port,
		rootCmd: createRootCommand(),
	}
	m.setupCommands()
	return m
}

// Root returns the root command
func (m *Manager) Root() *cobra.Command {
	return m.rootCmd
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

// setupCommands sets up all CLI commands
func (m *Manager) setupCommands() {
	if m.serve != nil {
		m.rootCmd.AddCommand(commands.ServerCommand(m.serve, m.host, m.port))
	}

	for _, cmd := range commands.StackCommands(m.ops) {
		m.rootCmd.AddCommand(cmd)
	}
	for _, cmd := range commands.FileCommands(m.ops) {
		m.rootCmd.AddCommand(cmd)
	}

	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "Manage the paths scanned for stacks",
	}
	for _, cmd := range commands.PathCommands(m.ops) {
		pathsCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(pathsCmd)
}
