package config

import (
	"fmt"

	klog "github.com/Klingon-tech/pda-mint/internal/log"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" && !cfg.Ledger.InMemory {
		return fmt.Errorf("datadir is required unless ledger.memory is set")
	}

	id, err := types.ParseAddress(cfg.ProgramID)
	if err != nil {
		return fmt.Errorf("program.id: %w", err)
	}
	if id.IsZero() {
		return fmt.Errorf("program.id must not be the zero address")
	}

	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	if cfg.Ledger.Faucet && cfg.Ledger.FaucetMax == 0 {
		return fmt.Errorf("ledger.faucet_max must be positive when the faucet is enabled")
	}
	if cfg.Log.Level != "" && !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

// ProgramAddress returns the parsed program id. Call after Validate.
func (c *Config) ProgramAddress() (types.Address, error) {
	return types.ParseAddress(c.ProgramID)
}
