package config

// DefaultFaucetMax caps a single airdrop: 1 SOL worth of lamports.
const DefaultFaucetMax uint64 = 1_000_000_000

// Default returns the default node configuration.
func Default() *Config {
	return &Config{
		DataDir:   DefaultDataDir(),
		ProgramID: DefaultProgramID,
		Ledger: LedgerConfig{
			Faucet:    false,
			FaucetMax: DefaultFaucetMax,
		},
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8899,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
