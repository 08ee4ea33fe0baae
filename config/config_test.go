package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.ProgramID != DefaultProgramID {
		t.Errorf("ProgramID = %q", cfg.ProgramID)
	}
	if cfg.Ledger.Faucet {
		t.Error("faucet should be off by default")
	}
	if cfg.Program.RequireOwner {
		t.Error("owner check should be off by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdamint.conf")
	content := `# comment
program.id = "3Pqo8cxfmpL7NjVYNbQzMFkCTjuXxTSkPqJLjhDfuogX"
program.require_owner = yes
ledger.faucet = on
ledger.faucet_max = 500
rpc.port = 9000
rpc.allowed = 127.0.0.1, 10.0.0.1
log.level = debug
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if !cfg.Program.RequireOwner {
		t.Error("require_owner should be set")
	}
	if !cfg.Ledger.Faucet || cfg.Ledger.FaucetMax != 500 {
		t.Errorf("faucet = %v/%d", cfg.Ledger.Faucet, cfg.Ledger.FaucetMax)
	}
	if cfg.RPC.Port != 9000 {
		t.Errorf("rpc.port = %d", cfg.RPC.Port)
	}
	if len(cfg.RPC.AllowedIPs) != 2 || cfg.RPC.AllowedIPs[1] != "10.0.0.1" {
		t.Errorf("rpc.allowed = %v", cfg.RPC.AllowedIPs)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected no values, got %v", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	os.WriteFile(path, []byte("just words\n"), 0644)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for line without '='")
	}
}

func TestApplyFileConfig_BadNumber(t *testing.T) {
	cfg := Default()
	err := ApplyFileConfig(cfg, map[string]string{"ledger.faucet_max": "lots"})
	if err == nil {
		t.Error("expected error for non-numeric faucet_max")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	environ := map[string]string{
		"PDAMINT_REQUIRE_OWNER": "true",
		"PDAMINT_FAUCET":        "true",
		"PDAMINT_FAUCET_MAX":    "42",
		"PDAMINT_RPC_PORT":      "7000",
		"PDAMINT_RPC_CORS":      "http://a,http://b",
		"PDAMINT_LOG_JSON":      "true",
		"OTHER_RPC_PORT":        "1",
	}
	if err := ApplyEnv(cfg, environ); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if !cfg.Program.RequireOwner || !cfg.Ledger.Faucet || cfg.Ledger.FaucetMax != 42 {
		t.Errorf("program/ledger = %+v %+v", cfg.Program, cfg.Ledger)
	}
	if cfg.RPC.Port != 7000 {
		t.Errorf("rpc port = %d", cfg.RPC.Port)
	}
	if len(cfg.RPC.CORSOrigins) != 2 {
		t.Errorf("cors = %v", cfg.RPC.CORSOrigins)
	}
	if !cfg.Log.JSON {
		t.Error("log json should be set")
	}
	// Unset variables leave defaults alone.
	if cfg.RPC.Addr != "127.0.0.1" || cfg.Log.Level != "info" {
		t.Errorf("defaults changed: %q %q", cfg.RPC.Addr, cfg.Log.Level)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	err := ApplyEnv(Default(), map[string]string{"PDAMINT_RPC_PORT": "port"})
	if err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--datadir", "/tmp/x", "--faucet", "--rpc=false", "--faucet-max=9", "--require-owner"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg := Default()
	ApplyFlags(cfg, f)

	if cfg.DataDir != "/tmp/x" {
		t.Errorf("datadir = %q", cfg.DataDir)
	}
	if !cfg.Ledger.Faucet || cfg.Ledger.FaucetMax != 9 {
		t.Errorf("ledger = %+v", cfg.Ledger)
	}
	if cfg.RPC.Enabled {
		t.Error("--rpc=false should disable RPC")
	}
	if !cfg.Program.RequireOwner {
		t.Error("--require-owner should be applied")
	}
}

func TestParseFlags_UnsetBoolsKeepConfig(t *testing.T) {
	f, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg := Default()
	cfg.Ledger.Faucet = true
	ApplyFlags(cfg, f)
	if !cfg.Ledger.Faucet {
		t.Error("unset --faucet should not override the file")
	}
	if !cfg.RPC.Enabled {
		t.Error("unset --rpc should not override the default")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := ParseFlags([]string{"--help"}); !errors.Is(err, ErrHelp) {
		t.Errorf("--help: got %v", err)
	}
	if _, err := ParseFlags([]string{"--no-such-flag"}); err == nil {
		t.Error("unknown flag should fail")
	}
	if _, err := ParseFlags([]string{"--faucet", "extra", "--memory"}); err == nil {
		t.Error("flag after positional argument should fail")
	}
}

func TestLoadWith_Precedence(t *testing.T) {
	dir := t.TempDir()
	conf := "rpc.port = 9100\nrpc.addr = 0.0.0.0\nlog.level = warn\n"
	if err := os.WriteFile(filepath.Join(dir, "pdamint.conf"), []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}

	flags, err := ParseFlags([]string{"--datadir", dir, "--rpc-port", "9300"})
	if err != nil {
		t.Fatal(err)
	}
	environ := map[string]string{
		"PDAMINT_RPC_PORT":  "9200",
		"PDAMINT_LOG_LEVEL": "error",
	}

	cfg, err := LoadWith(flags, environ)
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.RPC.Port != 9300 {
		t.Errorf("flag should win: port = %d", cfg.RPC.Port)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("env should beat file: level = %q", cfg.Log.Level)
	}
	if cfg.RPC.Addr != "0.0.0.0" {
		t.Errorf("file should beat default: addr = %q", cfg.RPC.Addr)
	}
	if _, err := os.Stat(cfg.LedgerDir()); err != nil {
		t.Errorf("ledger dir should exist: %v", err)
	}
}

func TestLoadWith_WritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	flags, _ := ParseFlags([]string{"--datadir", dir})
	cfg, err := LoadWith(flags, map[string]string{})
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Fatalf("default config should be written: %v", err)
	}
	if cfg.ProgramID != DefaultProgramID {
		t.Errorf("default file should keep the default program: %q", cfg.ProgramID)
	}
}

func TestLoadWith_DataDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	flags, _ := ParseFlags(nil)
	cfg, err := LoadWith(flags, map[string]string{"PDAMINT_DATADIR": dir})
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.ConfigFile() != filepath.Join(dir, "pdamint.conf") {
		t.Errorf("config file = %q", cfg.ConfigFile())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nil-like program", func(c *Config) { c.ProgramID = "" }},
		{"bad base58", func(c *Config) { c.ProgramID = "0OIl" }},
		{"short program", func(c *Config) { c.ProgramID = "abc" }},
		{"zero program", func(c *Config) { c.ProgramID = "11111111111111111111111111111111" }},
		{"port range", func(c *Config) { c.RPC.Port = 70000 }},
		{"faucet cap", func(c *Config) { c.Ledger.Faucet = true; c.Ledger.FaucetMax = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"no datadir", func(c *Config) { c.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("nil config should fail")
	}

	cfg := Default()
	cfg.DataDir = ""
	cfg.Ledger.InMemory = true
	if err := Validate(cfg); err != nil {
		t.Errorf("in-memory ledger needs no datadir: %v", err)
	}
}

func TestProgramAddress(t *testing.T) {
	addr, err := Default().ProgramAddress()
	if err != nil {
		t.Fatal(err)
	}
	if addr.String() != DefaultProgramID {
		t.Errorf("ProgramAddress = %s", addr)
	}
}
