package node

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Klingon-tech/pda-mint/config"
	"github.com/Klingon-tech/pda-mint/internal/ledger"
	"github.com/Klingon-tech/pda-mint/internal/program"
	"github.com/Klingon-tech/pda-mint/internal/rpcclient"
	"github.com/Klingon-tech/pda-mint/pkg/crypto"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Log.Level = "error"
	cfg.RPC.Port = 0
	return cfg
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct {
		input, want string
	}{
		{"~/foo/bar", filepath.Join(home, "foo/bar")},
		{"~/.pdamint/logs/pdamint.log", filepath.Join(home, ".pdamint/logs/pdamint.log")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveLogFile(t *testing.T) {
	cfg := testConfig(t)

	path, err := resolveLogFile(cfg)
	if err != nil {
		t.Fatalf("resolveLogFile: %v", err)
	}
	if path != filepath.Join(cfg.DataDir, "logs", "pdamint.log") {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(cfg.LogsDir()); err != nil {
		t.Errorf("logs dir not created: %v", err)
	}

	cfg.Log.File = filepath.Join(t.TempDir(), "nested", "node.log")
	path, err = resolveLogFile(cfg)
	if err != nil {
		t.Fatalf("resolveLogFile: %v", err)
	}
	if path != cfg.Log.File {
		t.Errorf("path = %q, want %q", path, cfg.Log.File)
	}

	cfg.Log.File = ""
	cfg.DataDir = ""
	path, err = resolveLogFile(cfg)
	if err != nil || path != "" {
		t.Errorf("console-only = (%q, %v), want empty", path, err)
	}
}

func TestNode_InvalidProgramID(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProgramID = "not-an-address"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for invalid program id")
	}
}

func TestNode_StartStop_RPC(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ledger.InMemory = true
	cfg.Ledger.Faucet = true

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := n.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer n.Stop()

	addr, err := n.RPCAddr()
	if err != nil {
		t.Fatalf("RPCAddr: %v", err)
	}
	client := rpcclient.New("http://" + addr + "/")

	info, err := client.ProgramInfo(context.Background())
	if err != nil {
		t.Fatalf("program_getInfo: %v", err)
	}
	want, _ := n.Program().MintAddress()
	if info.Mint != want {
		t.Errorf("mint = %s, want %s", info.Mint, want)
	}
	if !info.Faucet || info.FaucetMax != config.DefaultFaucetMax {
		t.Errorf("faucet = %v/%d", info.Faucet, info.FaucetMax)
	}
}

func TestNode_RPCDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ledger.InMemory = true
	cfg.RPC.Enabled = false

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := n.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer n.Stop()

	if _, err := n.RPCAddr(); err != ErrNoRPC {
		t.Errorf("RPCAddr err = %v, want ErrNoRPC", err)
	}
}

func TestNode_OwnerCheckWired(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ledger.InMemory = true
	cfg.RPC.Enabled = false
	cfg.Program.RequireOwner = true

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer n.Stop()

	info, err := n.Program().Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if !info.RequireOwner {
		t.Error("owner check should be enabled")
	}
}

// Ledger state survives a restart on Badger.
func TestNode_Persistence(t *testing.T) {
	cfg := testConfig(t)
	cfg.RPC.Enabled = false
	ctx := context.Background()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	inv := program.Invocation{Caller: key.Address()}

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := n.Ledger().Airdrop(ctx, key.Address(), ledger.MintRent+ledger.AccountRent); err != nil {
		t.Fatalf("Airdrop: %v", err)
	}
	if _, err := n.Program().CreateMint(ctx, inv); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}
	if _, err := n.Program().CreateTokenAccount(ctx, inv); err != nil {
		t.Fatalf("CreateTokenAccount: %v", err)
	}
	if _, err := n.Program().MintTokens(ctx, inv, 7); err != nil {
		t.Fatalf("MintTokens: %v", err)
	}
	before, err := n.Ledger().Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	n.Stop()

	n, err = New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer n.Stop()

	after, err := n.Ledger().Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}
	if before != after {
		t.Errorf("commitment changed across restart: %s != %s", before, after)
	}

	mintAddr, _ := n.Program().MintAddress()
	m, err := n.Ledger().Mint(mintAddr)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if m.Supply != 7 {
		t.Errorf("supply = %d, want 7", m.Supply)
	}

	// A second create must see the persisted slot.
	if _, err := n.Program().CreateMint(ctx, inv); err == nil {
		t.Error("expected AlreadyExists after restart")
	}
}
