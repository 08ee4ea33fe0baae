// Package node wires the ledger, the mint program, and the RPC server into
// a runnable node that can be embedded in any binary.
package node

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Klingon-tech/pda-mint/config"
	"github.com/Klingon-tech/pda-mint/internal/ledger"
	klog "github.com/Klingon-tech/pda-mint/internal/log"
	"github.com/Klingon-tech/pda-mint/internal/program"
	"github.com/Klingon-tech/pda-mint/internal/rpc"
	"github.com/Klingon-tech/pda-mint/internal/storage"
	"github.com/rs/zerolog"
)

// ledgerPrefix namespaces ledger records inside the node database.
var ledgerPrefix = []byte("ledger/")

// ErrNoRPC is returned by RPCAddr when the RPC server is disabled.
var ErrNoRPC = errors.New("rpc server disabled")

// Node is a fully-initialized pdamint node.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	// Core
	db      storage.BatchDB
	ledger  *ledger.Service
	program *program.Program

	// RPC
	rpcServer *rpc.Server
}

// New creates and initializes a new Node. It performs all setup steps
// (logger, storage, ledger, program, RPC) but does NOT bind the RPC
// listener. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Init logger ──────────────────────────────────────────────
	logFile, err := resolveLogFile(cfg)
	if err != nil {
		return nil, err
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	programID, err := cfg.ProgramAddress()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("program_id", programID.String()).
		Bool("require_owner", cfg.Program.RequireOwner).
		Bool("in_memory", cfg.Ledger.InMemory).
		Msg("Starting PDA mint node")

	// ── 2. Open storage ─────────────────────────────────────────────
	db, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Ledger.InMemory {
		logger.Warn().Msg("Ledger is in memory; state is lost on shutdown")
	} else {
		logger.Info().Str("path", cfg.LedgerDir()).Msg("Database opened")
	}

	// ── 3. Ledger ───────────────────────────────────────────────────
	svc := ledger.New(storage.NewPrefixDB(db, ledgerPrefix))

	// ── 4. Program ──────────────────────────────────────────────────
	prog, err := program.New(programID, svc, program.WithOwnerCheck(cfg.Program.RequireOwner))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create program: %w", err)
	}
	info, err := prog.Info()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("derive program addresses: %w", err)
	}
	logger.Info().
		Str("mint", info.Mint.String()).
		Uint8("bump", info.Bump).
		Str("token_account", info.TokenAccount.String()).
		Msg("Program addresses derived")

	n := &Node{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		ledger:  svc,
		program: prog,
	}

	// ── 5. RPC ──────────────────────────────────────────────────────
	if cfg.RPC.Enabled {
		addr := net.JoinHostPort(cfg.RPC.Addr, strconv.Itoa(cfg.RPC.Port))
		n.rpcServer = rpc.New(addr, prog, svc, cfg.RPC)
		if cfg.Ledger.Faucet {
			n.rpcServer.EnableFaucet(cfg.Ledger.FaucetMax)
			logger.Warn().Uint64("max", cfg.Ledger.FaucetMax).Msg("Faucet enabled")
		}
	}

	return n, nil
}

// openStorage opens the node database: Badger under the data dir, or an
// in-memory store when the ledger is configured as ephemeral.
func openStorage(cfg *config.Config) (storage.BatchDB, error) {
	if cfg.Ledger.InMemory {
		return storage.NewMemory(), nil
	}
	db, err := storage.NewBadger(cfg.LedgerDir())
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.LedgerDir(), err)
	}
	return db, nil
}

// resolveLogFile picks the log file path, creating its directory.
// An in-memory node without an explicit file logs to the console only.
func resolveLogFile(cfg *config.Config) (string, error) {
	if cfg.Log.File != "" {
		path := expandHome(cfg.Log.File)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("creating log dir: %w", err)
		}
		return path, nil
	}
	if cfg.DataDir == "" {
		return "", nil
	}
	logsDir := cfg.LogsDir()
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return "", fmt.Errorf("creating logs dir: %w", err)
	}
	return filepath.Join(logsDir, "pdamint.log"), nil
}

// Start binds the RPC listener.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return fmt.Errorf("start RPC: %w", err)
		}
		n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server started")
	}

	commitment, err := n.ledger.Commitment()
	if err != nil {
		return fmt.Errorf("ledger commitment: %w", err)
	}
	n.logger.Info().
		Str("commitment", commitment.String()).
		Bool("rpc", n.rpcServer != nil).
		Msg("Node started successfully")

	return nil
}

// Stop performs graceful shutdown in reverse order.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		if err := n.rpcServer.Stop(); err != nil {
			n.logger.Warn().Err(err).Msg("RPC shutdown")
		}
	}
	if n.db != nil {
		if err := n.db.Close(); err != nil {
			n.logger.Warn().Err(err).Msg("Database close")
		}
	}

	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() (string, error) {
	if n.rpcServer == nil {
		return "", ErrNoRPC
	}
	return n.rpcServer.Addr(), nil
}

// Program returns the mint program hosted by this node.
func (n *Node) Program() *program.Program {
	return n.program
}

// Ledger returns the node's ledger service.
func (n *Node) Ledger() *ledger.Service {
	return n.ledger
}
