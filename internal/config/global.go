// Package config loads the stackhand global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stackhand/internal/constants"
	"stackhand/internal/errors"
	"stackhand/internal/xdg"

	"github.com/pelletier/go-toml/v2"
)

// GlobalConfig represents the global stackhand configuration
type GlobalConfig struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Scan    ScanConfig    `toml:"scan"`
	Runtime RuntimeConfig `toml:"runtime"`
}

type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	LogLevel    string `toml:"log_level"`
	APIToken    string `toml:"api_token"`     // Enables auth when non-empty
	TLSCertFile string `toml:"tls_cert_file"` // PEM certificate, optional
	TLSKeyFile  string `toml:"tls_key_file"`  // PEM key, optional
}

type StorageConfig struct {
	StacksPath   string `toml:"stacks_path" json:"stacks_path"` // Default location for new stacks
	DatabasePath string `toml:"database_path" json:"database_path"`
}

type ScanConfig struct {
	ExternalPaths []string `toml:"external_paths"` // Roots scanned by the legacy "scan all" mode
}

type RuntimeConfig struct {
	DockerHost string `toml:"docker_host"` // Empty uses DOCKER_HOST / the platform default
}

// DefaultGlobalConfig returns the default global configuration
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Server: ServerConfig{
			Host:     constants.DefaultServerHost,
			Port:     constants.DefaultServerPort,
			LogLevel: "info",
		},
	}
}

// ConfigPath returns the location of config.toml
func ConfigPath() (string, error) {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadGlobalConfig loads the global configuration from the XDG config directory.
// A missing file yields the defaults.
func LoadGlobalConfig() (*GlobalConfig, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadGlobalConfigFrom(configPath)
}

// LoadGlobalConfigFrom loads the configuration stored at path.
func LoadGlobalConfigFrom(path string) (*GlobalConfig, error) {
	config := DefaultGlobalConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, errors.ConfigParseError(fmt.Errorf("%s: %w", path, err))
		}
	}

	if err := applyDefaults(config); err != nil {
		return nil, err
	}
	if err := expandPaths(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveGlobalConfig saves the global configuration to the XDG config directory
func SaveGlobalConfig(config *GlobalConfig) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return config.Save(configPath)
}

// Save saves the global configuration to the specified path
func (g *GlobalConfig) Save(path string) error {
	data, err := toml.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, data, constants.FilePermissions)
}

// ValidateGlobalConfig validates the global configuration
func ValidateGlobalConfig(config *GlobalConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", config.Server.Port)
	}
	if (config.Server.TLSCertFile == "") != (config.Server.TLSKeyFile == "") {
		return fmt.Errorf("tls_cert_file and tls_key_file must be set together")
	}

	if config.Storage.StacksPath == "" {
		return fmt.Errorf("stacks path cannot be empty")
	}
	if !filepath.IsAbs(config.Storage.StacksPath) {
		return fmt.Errorf("stacks path must be absolute: %s", config.Storage.StacksPath)
	}
	if config.Storage.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	for _, p := range config.Scan.ExternalPaths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("external scan path must be absolute: %s", p)
		}
	}

	return nil
}

// StacksDir returns the base directory new stacks are created in.
func (g *GlobalConfig) StacksDir() string {
	return g.Storage.StacksPath
}

func applyDefaults(config *GlobalConfig) error {
	defaults := DefaultGlobalConfig()
	if config.Server.Host == "" {
		config.Server.Host = defaults.Server.Host
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}

	if config.Storage.StacksPath != "" && config.Storage.DatabasePath != "" {
		return nil
	}

	dataDir, err := xdg.DataDir()
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if config.Storage.StacksPath == "" {
		config.Storage.StacksPath = filepath.Join(dataDir, "stacks")
	}
	if config.Storage.DatabasePath == "" {
		config.Storage.DatabasePath = filepath.Join(dataDir, "stackhand.db")
	}
	return nil
}

// expandPaths expands tilde paths in the configuration
func expandPaths(config *GlobalConfig) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expand := func(p string) string {
		if p == "~" {
			return homeDir
		}
		if strings.HasPrefix(p, "~/") {
			return filepath.Join(homeDir, p[2:])
		}
		return p
	}

	config.Storage.StacksPath = expand(config.Storage.StacksPath)
	config.Storage.DatabasePath = expand(config.Storage.DatabasePath)
	config.Server.TLSCertFile = expand(config.Server.TLSCertFile)
	config.Server.TLSKeyFile = expand(config.Server.TLSKeyFile)
	for i, p := range config.Scan.ExternalPaths {
		config.Scan.ExternalPaths[i] = expand(p)
	}

	return nil
}
