package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable the node reads.
const EnvPrefix = "PDAMINT_"

// envOverrides mirrors the settings that can come from the environment.
// Nil fields were not set and leave the config untouched.
type envOverrides struct {
	DataDir      *string  `env:"DATADIR"`
	ProgramID    *string  `env:"PROGRAM_ID"`
	RequireOwner *bool    `env:"REQUIRE_OWNER"`
	InMemory     *bool    `env:"LEDGER_MEMORY"`
	Faucet       *bool    `env:"FAUCET"`
	FaucetMax    *uint64  `env:"FAUCET_MAX"`
	RPCEnabled   *bool    `env:"RPC_ENABLED"`
	RPCAddr      *string  `env:"RPC_ADDR"`
	RPCPort      *int     `env:"RPC_PORT"`
	RPCAllowed   []string `env:"RPC_ALLOWED" envSeparator:","`
	RPCCORS      []string `env:"RPC_CORS" envSeparator:","`
	LogLevel     *string  `env:"LOG_LEVEL"`
	LogFile      *string  `env:"LOG_FILE"`
	LogJSON      *bool    `env:"LOG_JSON"`
}

// parseEnv reads PDAMINT_* variables from environ, or from the process
// environment when environ is nil.
func parseEnv(environ map[string]string) (envOverrides, error) {
	var o envOverrides
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return o, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// ApplyEnv applies PDAMINT_* environment variables to cfg.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	o, err := parseEnv(environ)
	if err != nil {
		return err
	}

	if o.DataDir != nil {
		cfg.DataDir = *o.DataDir
	}
	if o.ProgramID != nil {
		cfg.ProgramID = *o.ProgramID
	}
	if o.RequireOwner != nil {
		cfg.Program.RequireOwner = *o.RequireOwner
	}
	if o.InMemory != nil {
		cfg.Ledger.InMemory = *o.InMemory
	}
	if o.Faucet != nil {
		cfg.Ledger.Faucet = *o.Faucet
	}
	if o.FaucetMax != nil {
		cfg.Ledger.FaucetMax = *o.FaucetMax
	}
	if o.RPCEnabled != nil {
		cfg.RPC.Enabled = *o.RPCEnabled
	}
	if o.RPCAddr != nil {
		cfg.RPC.Addr = *o.RPCAddr
	}
	if o.RPCPort != nil {
		cfg.RPC.Port = *o.RPCPort
	}
	if o.RPCAllowed != nil {
		cfg.RPC.AllowedIPs = o.RPCAllowed
	}
	if o.RPCCORS != nil {
		cfg.RPC.CORSOrigins = o.RPCCORS
	}
	if o.LogLevel != nil {
		cfg.Log.Level = *o.LogLevel
	}
	if o.LogFile != nil {
		cfg.Log.File = *o.LogFile
	}
	if o.LogJSON != nil {
		cfg.Log.JSON = *o.LogJSON
	}
	return nil
}
