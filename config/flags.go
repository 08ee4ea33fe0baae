package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version is the node version string.
const Version = "0.1.0"

// ErrHelp is returned by ParseFlags when help was requested.
var ErrHelp = errors.New("help requested")

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	DataDir   string
	Config    string
	ProgramID string

	// Program
	RequireOwner bool

	// Ledger
	Memory    bool
	Faucet    bool
	FaucetMax uint64

	// RPC
	RPC        bool
	RPCAddr    string
	RPCPort    int
	RPCAllowed string
	RPCCORS    string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetRequireOwner bool
	SetMemory       bool
	SetFaucet       bool
	SetRPC          bool
	SetLogJSON      bool
}

// ParseFlags parses command-line flags from args (without the program name).
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("pdamintd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")
	fs.StringVar(&f.ProgramID, "program-id", "", "Base58 program id")

	// Program
	fs.BoolVar(&f.RequireOwner, "require-owner", false, "Only the account owner may mint")

	// Ledger
	fs.BoolVar(&f.Memory, "memory", false, "Keep ledger state in memory only")
	fs.BoolVar(&f.Faucet, "faucet", false, "Serve ledger_airdrop")
	fs.Uint64Var(&f.FaucetMax, "faucet-max", 0, "Max lamports per airdrop")

	// RPC
	fs.BoolVar(&f.RPC, "rpc", true, "Enable RPC server")
	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "RPC listen address")
	fs.IntVar(&f.RPCPort, "rpc-port", 0, "RPC listen port")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Allowed IPs for RPC")
	fs.StringVar(&f.RPCCORS, "rpc-cors", "", "Allowed CORS origins for RPC (comma-separated)")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return f, ErrHelp
		}
		return nil, err
	}

	f.SetRequireOwner = isFlagSet(fs, "require-owner")
	f.SetMemory = isFlagSet(fs, "memory")
	f.SetFaucet = isFlagSet(fs, "faucet")
	f.SetRPC = isFlagSet(fs, "rpc")
	f.SetLogJSON = isFlagSet(fs, "log-json")

	f.Args = fs.Args()

	// Detect unparsed flags caused by positional arguments stopping the parser.
	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %q was not parsed (positional argument stopped parsing)", arg)
		}
	}

	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.ProgramID != "" {
		cfg.ProgramID = f.ProgramID
	}

	// Program
	if f.SetRequireOwner {
		cfg.Program.RequireOwner = f.RequireOwner
	}

	// Ledger
	if f.SetMemory {
		cfg.Ledger.InMemory = f.Memory
	}
	if f.SetFaucet {
		cfg.Ledger.Faucet = f.Faucet
	}
	if f.FaucetMax != 0 {
		cfg.Ledger.FaucetMax = f.FaucetMax
	}

	// RPC
	if f.SetRPC {
		cfg.RPC.Enabled = f.RPC
	}
	if f.RPCAddr != "" {
		cfg.RPC.Addr = f.RPCAddr
	}
	if f.RPCPort != 0 {
		cfg.RPC.Port = f.RPCPort
	}
	if f.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = parseStringList(f.RPCAllowed)
	}
	if f.RPCCORS != "" {
		cfg.RPC.CORSOrigins = parseStringList(f.RPCCORS)
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// PrintUsage writes the daemon help text to w.
func PrintUsage(w io.Writer) {
	usage := `PDA Mint - a keyless mint authority and its token ledger

Usage:
  pdamintd [options]
  pdamintd --help

Commands:
  --help, -h      Show this help message
  --version, -v   Show version information

Core Options:
  --datadir       Data directory (default: ~/.pdamint)
  --config, -c    Config file path (default: <datadir>/pdamint.conf)
  --program-id    Base58 program id (default: ` + DefaultProgramID + `)

Program Options:
  --require-owner Only the holding account's owner may mint

Ledger Options:
  --memory        Keep ledger state in memory only (lost on exit)
  --faucet        Serve ledger_airdrop (development only)
  --faucet-max    Max lamports per airdrop (default: 1000000000)

RPC Options:
  --rpc           Enable RPC server (default: true)
  --rpc-addr      RPC listen address (default: 127.0.0.1)
  --rpc-port      RPC port (default: 8899)
  --rpc-allowed   Allowed IPs for RPC (comma-separated)
  --rpc-cors      Allowed CORS origins for RPC (comma-separated)

Logging Options:
  --log-level     Log level: trace, debug, info, warn, error (default: info)
  --log-file      Log file path (default: stdout)
  --log-json      Output logs as JSON

Environment:
  Every option can also be set as PDAMINT_<NAME>, e.g. PDAMINT_RPC_PORT,
  PDAMINT_PROGRAM_ID, PDAMINT_FAUCET. Flags win over the environment,
  which wins over the config file.

Examples:
  # Start a node with a development faucet
  pdamintd --faucet

  # Serve a different program with the strict owner rule
  pdamintd --program-id=<base58> --require-owner
`
	fmt.Fprint(w, usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. PDAMINT_* environment variables
// 5. Command-line flags
func Load() (*Config, *Flags, error) {
	flags, err := ParseFlags(os.Args[1:])
	if errors.Is(err, ErrHelp) || (err == nil && flags.Help) {
		PrintUsage(os.Stdout)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		PrintUsage(os.Stderr)
		os.Exit(1)
	}
	if flags.Version {
		fmt.Println("pdamintd version " + Version)
		os.Exit(0)
	}

	cfg, err := LoadWith(flags, nil)
	if err != nil {
		return nil, nil, err
	}
	return cfg, flags, nil
}

// LoadWith builds the config from already parsed flags and an environment
// map (nil means the process environment).
func LoadWith(flags *Flags, environ map[string]string) (*Config, error) {
	cfg := Default()

	// The data directory decides where the config file lives, so resolve it
	// from env and flags before reading the file.
	env, err := parseEnv(environ)
	if err != nil {
		return nil, err
	}
	if env.DataDir != nil {
		cfg.DataDir = *env.DataDir
	}
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Auto-create data directories and default config on first start.
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	if err := ApplyEnv(cfg, environ); err != nil {
		return nil, err
	}

	// Apply flags (highest precedence)
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. This is idempotent; safe to call on
// every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.LedgerDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// Create default config if it doesn't exist.
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
