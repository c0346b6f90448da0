package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// ServeFunc runs the HTTP API until ctx is cancelled
type ServeFunc func(ctx context.Context, host string, port int) error

// ServerCommand creates the server command
func ServerCommand(serve ServeFunc, defaultHost string, defaultPort int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the stackhand HTTP API",
		Long: `Run the stackhand HTTP API in the foreground. TLS is enabled when
tls_cert_file and tls_key_file are set in config.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			return serve(cmd.Context(), host, port)
		},
	}
	cmd.Flags().String("host", defaultHost, "Address to listen on")
	cmd.Flags().IntP("port", "p", defaultPort, "Port to run the server on")
	return cmd
}
