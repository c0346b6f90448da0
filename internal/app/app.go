package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"stackhand/internal/cli"
	"stackhand/internal/config"
	"stackhand/internal/constants"
	"stackhand/internal/container"
	"stackhand/internal/db"
	"stackhand/internal/logger"
	"stackhand/internal/operations"
	"stackhand/internal/server"
)

// ConfigPathEnv overrides the location of config.toml
const ConfigPathEnv = "STACKHAND_CONFIG"

// App represents the main application
type App struct {
	Config  *config.GlobalConfig
	DB      *db.DB
	Runtime *container.DockerRuntime
	Ops     *operations.StackOperations
	Server  *server.Server
	CLI     *cli.Manager

	// Stdout receives command output; nil uses os.Stdout
	Stdout io.Writer
}

// New creates a new application instance
func New() *App {
	return &App{}
}

// Run starts the application
func (a *App) Run(args []string) error {
	return a.RunWithContext(context.Background(), args)
}

// RunWithContext wires the components together and executes the command
// named by args. The server command blocks until ctx is cancelled.
func (a *App) RunWithContext(ctx context.Context, args []string) error {
	if err := a.init(); err != nil {
		return err
	}
	defer a.Close()

	a.CLI = cli.New(a.Ops, a.serve, a.Config.Server.Host, a.Config.Server.Port)
	if a.Stdout != nil {
		a.CLI.Root().SetOut(a.Stdout)
	}

	// Show help if no arguments provided
	if len(args) == 0 {
		return a.CLI.ExecuteWithContext(ctx, []string{"--help"})
	}
	return a.CLI.ExecuteWithContext(ctx, args)
}

// init loads the configuration and opens the inventory. The container
// runtime client is created lazily on first use.
func (a *App) init() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.ValidateGlobalConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.Config = cfg
	logger.SetLevel(cfg.Server.LogLevel)

	if err := os.MkdirAll(cfg.StacksDir(), constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create stacks directory: %w", err)
	}

	database, err := db.Open(db.DefaultConfig(cfg.Storage.DatabasePath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = database

	a.Runtime = container.NewDockerRuntime(cfg.Runtime.DockerHost)
	a.Ops = operations.NewStackOperations(
		cfg,
		db.NewStackRepository(database),
		db.NewExternalPathRepository(database),
		a.Runtime,
	)

	logger.WithFields(logger.Fields{
		"stacks_path": cfg.StacksDir(),
		"database":    cfg.Storage.DatabasePath,
	}).Debug("Application initialised")
	return nil
}

// serve runs the HTTP API
func (a *App) serve(ctx context.Context, host string, port int) error {
	serverConfig := server.ConfigFromGlobal(a.Config)
	serverConfig.Host = host
	serverConfig.Port = port

	a.Server = server.New(serverConfig, a.Ops, a.DB, a.Runtime, server.NewTokenAuthorizer(a.Config.Server.APIToken))

	logger.WithFields(logger.Fields{
		"host":      host,
		"port":      port,
		"auth":      a.Config.Server.APIToken != "",
		"operation": "server_start",
	}).Info("Starting stackhand server")
	return a.Server.Start(ctx)
}

// Close releases the database
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	return err
}

func loadConfig() (*config.GlobalConfig, error) {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return config.LoadGlobalConfigFrom(path)
	}
	return config.LoadGlobalConfig()
}
