package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stackhand/internal/config"
	"stackhand/internal/constants"
	"stackhand/internal/db"
	"stackhand/internal/logger"
	"stackhand/internal/operations"
	"stackhand/internal/pem"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Version is reported by /health
var Version = "dev"

// Config holds the server configuration
type Config struct {
	// Server settings
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	// TLS is enabled when both files are set
	TLSCertFile string `toml:"tls_cert_file"`
	TLSKeyFile  string `toml:"tls_key_file"`

	// CORS settings
	AllowOrigins []string `toml:"allow_origins"`
	AllowHeaders []string `toml:"allow_headers"`

	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            constants.DefaultServerHost,
		Port:            constants.DefaultServerPort,
		ReadTimeout:     constants.DefaultServerReadTimeout,
		WriteTimeout:    constants.DefaultServerWriteTimeout,
		ShutdownTimeout: constants.DefaultServerShutdownTimeout,
		AllowOrigins:    []string{"*"},
		AllowHeaders:    []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		LogLevel:        "info",
	}
}

// ConfigFromGlobal derives the server configuration from config.toml values
func ConfigFromGlobal(g *config.GlobalConfig) *Config {
	cfg := DefaultConfig()
	if g == nil {
		return cfg
	}
	if g.Server.Host != "" {
		cfg.Host = g.Server.Host
	}
	if g.Server.Port != 0 {
		cfg.Port = g.Server.Port
	}
	if g.Server.LogLevel != "" {
		cfg.LogLevel = g.Server.LogLevel
	}
	cfg.TLSCertFile = g.Server.TLSCertFile
	cfg.TLSKeyFile = g.Server.TLSKeyFile
	return cfg
}

// HealthChecker reports whether the container runtime can be reached
type HealthChecker interface {
	IsAvailable(ctx context.Context) bool
}

// Server represents the main HTTP server
type Server struct {
	config     *Config
	echo       *echo.Echo
	ops        *operations.StackOperations
	db         *db.DB
	runtime    HealthChecker
	authorizer Authorizer
	startTime  time.Time
	routed     bool
}

// New creates a new server instance. database and runtime are only used by
// /health and may be nil.
func New(cfg *Config, ops *operations.StackOperations, database *db.DB, runtime HealthChecker, authorizer Authorizer) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if authorizer == nil {
		authorizer = NewTokenAuthorizer("")
	}

	if cfg.LogLevel != "" {
		logger.SetLevel(cfg.LogLevel)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	return &Server{
		config:     cfg,
		echo:       e,
		ops:        ops,
		db:         database,
		runtime:    runtime,
		authorizer: authorizer,
		startTime:  time.Now(),
	}
}

// Echo returns the Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	s.setup()
	return s.echo
}

func (s *Server) setup() {
	if s.routed {
		return
	}
	s.routed = true
	s.setupMiddleware()
	s.setupRoutes()
}

// Start starts the server and blocks until ctx is cancelled, a signal is
// received or the listener fails
func (s *Server) Start(ctx context.Context) error {
	s.setup()

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	useTLS := s.config.TLSCertFile != "" && s.config.TLSKeyFile != ""
	if useTLS {
		cert, err := pem.LoadKeyPair(s.config.TLSCertFile, s.config.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load TLS key pair: %w", err)
		}
		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	logger.WithFields(logger.Fields{"addr": addr, "tls": useTLS}).Info("Starting server")

	errChan := make(chan error, 1)
	go func() {
		var err error
		if useTLS {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(logger.RequestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.BodyLimit(constants.MaxRequestBodySize))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowOrigins,
		AllowHeaders: s.config.AllowHeaders,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
}
