// Package config handles node configuration.
//
// Settings are layered: built-in defaults, then the <datadir>/pdamint.conf
// file, then PDAMINT_* environment variables, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultProgramID is the program id the node serves when none is set.
const DefaultProgramID = "3Pqo8cxfmpL7NjVYNbQzMFkCTjuXxTSkPqJLjhDfuogX"

// Config holds node runtime configuration.
type Config struct {
	// Core
	DataDir   string `conf:"datadir"`
	ProgramID string `conf:"program.id"`

	// Program behaviour
	Program ProgramConfig

	// Ledger storage and faucet
	Ledger LedgerConfig

	// RPC server
	RPC RPCConfig

	// Logging
	Log LogConfig
}

// ProgramConfig holds mint program settings.
type ProgramConfig struct {
	// RequireOwner rejects mint_tokens from anyone but the holding
	// account's owner.
	RequireOwner bool `conf:"program.require_owner"`
}

// LedgerConfig holds ledger settings.
type LedgerConfig struct {
	InMemory  bool   `conf:"ledger.memory"`     // Keep state in memory only (lost on exit).
	Faucet    bool   `conf:"ledger.faucet"`     // Serve ledger_airdrop.
	FaucetMax uint64 `conf:"ledger.faucet_max"` // Max lamports per airdrop.
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.pdamint
//	macOS:   ~/Library/Application Support/PDAMint
//	Windows: %APPDATA%\PDAMint
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pdamint"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "PDAMint")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "PDAMint")
		}
		return filepath.Join(home, "AppData", "Roaming", "PDAMint")
	default:
		return filepath.Join(home, ".pdamint")
	}
}

// LedgerDir returns the ledger database directory.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.DataDir, "ledger")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "pdamint.conf")
}
