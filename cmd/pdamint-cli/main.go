// pdamint-cli is a command-line client for interacting with a pdamintd node.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Klingon-tech/pda-mint/config"
	"github.com/Klingon-tech/pda-mint/internal/program"
	"github.com/Klingon-tech/pda-mint/internal/rpc"
	"github.com/Klingon-tech/pda-mint/internal/rpcclient"
	"github.com/Klingon-tech/pda-mint/pkg/crypto"
	"github.com/Klingon-tech/pda-mint/pkg/tx"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// defaultKeypairPath returns <datadir>/id.json.
func defaultKeypairPath(dataDir string) string {
	return filepath.Join(dataDir, "id.json")
}

// globals holds the flags that appear before the subcommand.
type globals struct {
	rpcURL  string
	keypair string
	timeout time.Duration
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	g := globals{
		rpcURL:  "http://127.0.0.1:8899",
		keypair: defaultKeypairPath(config.DefaultDataDir()),
		timeout: 10 * time.Second,
	}

	// Scan for --rpc, --keypair, and --datadir before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			g.rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			g.rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--keypair" && len(args) > 1:
			g.keypair = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--keypair="):
			g.keypair = args[0][len("--keypair="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			g.keypair = defaultKeypairPath(args[1])
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			g.keypair = defaultKeypairPath(args[0][len("--datadir="):])
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	client := rpcclient.NewWithTimeout(g.rpcURL, g.timeout)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "keygen":
		cmdKeygen(cmdArgs, g)
	case "address":
		cmdAddress(g)
	case "info":
		cmdInfo(client)
	case "status":
		cmdStatus(client)
	case "airdrop":
		cmdAirdrop(client, cmdArgs, g)
	case "balance":
		cmdBalance(client, cmdArgs, g)
	case "create-mint":
		cmdCreateMint(client, cmdArgs, g)
	case "create-token-account":
		cmdCreateTokenAccount(client, cmdArgs, g)
	case "mint":
		cmdMint(client, cmdArgs, g)
	case "mint-info":
		cmdMintInfo(client)
	case "account":
		cmdAccount(client, cmdArgs)
	case "commitment":
		cmdCommitment(client)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: pdamint-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8899)
  --keypair <path>    Signing keypair file (default: <datadir>/id.json)
  --datadir <path>    Data directory holding id.json (default: ~/.pdamint)

Commands:
  keygen [--out <path>]           Generate a new keypair file
  address                         Show the keypair's address
  info                            Show program id and derived addresses
  status                          Show program info and ledger commitment
  airdrop <lamports> [address]    Request lamports from the node faucet
  balance [address]               Show lamport balance

  create-mint [--nonce <n>]       Bind the program's mint at its PDA
  create-token-account [--nonce <n>]
                                  Create the program's token account, owned by you
  mint <amount> [--nonce <n>]     Mint tokens into the program's token account
                                  (amount in whole tokens, up to 6 decimals)

  mint-info                       Show the program mint
  account [address]               Show a holding account (default: program's)
  commitment                      Show the ledger state commitment
`)
}

// ── keys ────────────────────────────────────────────────────────────────

func cmdKeygen(args []string, g globals) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	out := fs.String("out", g.keypair, "Output keypair file")
	fs.Parse(args)

	if err := os.MkdirAll(filepath.Dir(*out), 0700); err != nil {
		fatal("create directory: %v", err)
	}

	kp, err := crypto.GenerateKey()
	if err != nil {
		fatal("generate key: %v", err)
	}
	defer kp.Zero()

	if err := crypto.SaveKeypairFile(*out, kp); err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Wrote keypair to %s\n", *out)
	fmt.Printf("Address: %s\n", kp.Address())
}

func cmdAddress(g globals) {
	kp := loadKeypair(g)
	defer kp.Zero()
	fmt.Println(kp.Address())
}

func loadKeypair(g globals) *crypto.Keypair {
	kp, err := crypto.LoadKeypairFile(g.keypair)
	if err != nil {
		fatal("%v (run 'pdamint-cli keygen' first)", err)
	}
	return kp
}

// ── info / status ───────────────────────────────────────────────────────

func cmdInfo(client *rpcclient.Client) {
	info, err := client.ProgramInfo(context.Background())
	if err != nil {
		fatal("program_getInfo: %v", err)
	}
	printInfo(info)
}

func printInfo(info *rpc.ProgramInfoResult) {
	fmt.Printf("Program:        %s\n", info.ProgramID)
	fmt.Printf("Mint authority: %s (bump %d)\n", info.Authority, info.Bump)
	fmt.Printf("Mint:           %s\n", info.Mint)
	fmt.Printf("Token account:  %s (bump %d)\n", info.TokenAccount, info.TokenBump)
	fmt.Printf("Owner check:    %v\n", info.RequireOwner)
	if info.Faucet {
		fmt.Printf("Faucet:         up to %s SOL\n", formatLamports(info.FaucetMax))
	} else {
		fmt.Printf("Faucet:         disabled\n")
	}
}

func cmdStatus(client *rpcclient.Client) {
	ctx := context.Background()
	info, err := client.ProgramInfo(ctx)
	if err != nil {
		fatal("program_getInfo: %v", err)
	}
	printInfo(info)

	commitment, err := client.Commitment(ctx)
	if err != nil {
		fatal("ledger_getCommitment: %v", err)
	}
	fmt.Printf("Commitment:     %s\n", commitment)

	m, err := client.Mint(ctx, info.Mint)
	switch {
	case err == nil:
		fmt.Printf("Supply:         %s\n", formatTokens(m.Supply))
	case rpcclient.IsCode(err, rpc.CodeNotFound):
		fmt.Printf("Supply:         (mint not created)\n")
	default:
		fatal("ledger_getMint: %v", err)
	}
}

// ── lamports ────────────────────────────────────────────────────────────

func cmdAirdrop(client *rpcclient.Client, args []string, g globals) {
	if len(args) < 1 {
		fatal("Usage: pdamint-cli airdrop <lamports> [address]")
	}
	lamports, err := parseLamports(args[0])
	if err != nil {
		fatal("invalid amount: %v", err)
	}
	addr := addressArg(args[1:], g)

	balance, err := client.Airdrop(context.Background(), addr, lamports)
	if err != nil {
		fatal("ledger_airdrop: %v", err)
	}
	fmt.Printf("Airdropped %s SOL to %s\n", formatLamports(lamports), addr)
	fmt.Printf("Balance:   %s SOL\n", formatLamports(balance))
}

func cmdBalance(client *rpcclient.Client, args []string, g globals) {
	addr := addressArg(args, g)
	balance, err := client.Balance(context.Background(), addr)
	if err != nil {
		fatal("ledger_getBalance: %v", err)
	}
	fmt.Printf("Address: %s\n", addr)
	fmt.Printf("Balance: %s SOL (%d lamports)\n", formatLamports(balance), balance)
}

// addressArg parses args[0] as an address, or falls back to the keypair's.
func addressArg(args []string, g globals) types.Address {
	if len(args) > 0 {
		addr, err := types.ParseAddress(args[0])
		if err != nil {
			fatal("invalid address: %v", err)
		}
		return addr
	}
	kp := loadKeypair(g)
	defer kp.Zero()
	return kp.Address()
}

// ── program calls ───────────────────────────────────────────────────────

func cmdCreateMint(client *rpcclient.Client, args []string, g globals) {
	nonce := parseNonce("create-mint", args)
	t := buildTx(g, nonce, program.Instruction{Name: program.InstrCreateMint})

	res, err := client.CreateMint(context.Background(), t)
	if err != nil {
		fatal("program_createMint: %v", explain(err))
	}
	fmt.Printf("Mint created!\n")
	fmt.Printf("  Tx Hash:    %s\n", res.TxHash)
	fmt.Printf("  Invocation: %s\n", res.InvocationID)
	fmt.Printf("  Mint:       %s\n", res.Address)
}

func cmdCreateTokenAccount(client *rpcclient.Client, args []string, g globals) {
	nonce := parseNonce("create-token-account", args)
	t := buildTx(g, nonce, program.Instruction{Name: program.InstrCreateTokenAccount})

	res, err := client.CreateTokenAccount(context.Background(), t)
	if err != nil {
		fatal("program_createTokenAccount: %v", explain(err))
	}
	fmt.Printf("Token account created!\n")
	fmt.Printf("  Tx Hash:    %s\n", res.TxHash)
	fmt.Printf("  Invocation: %s\n", res.InvocationID)
	fmt.Printf("  Account:    %s\n", res.Address)
	fmt.Printf("  Owner:      %s\n", t.Caller)
}

func cmdMint(client *rpcclient.Client, args []string, g globals) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fatal("Usage: pdamint-cli mint <amount> [--nonce <n>]")
	}
	amount, err := parseTokens(args[0])
	if err != nil {
		fatal("invalid amount: %v", err)
	}
	nonce := parseNonce("mint", args[1:])
	t := buildTx(g, nonce, program.Instruction{Name: program.InstrMintTokens, Amount: amount})

	res, err := client.MintTokens(context.Background(), t)
	if err != nil {
		fatal("program_mintTokens: %v", explain(err))
	}
	fmt.Printf("Minted %s tokens\n", formatTokens(amount))
	fmt.Printf("  Tx Hash:    %s\n", res.TxHash)
	fmt.Printf("  Invocation: %s\n", res.InvocationID)
	fmt.Printf("  Account:    %s\n", res.Address)
}

// parseNonce reads --nonce, defaulting to the current time in nanoseconds
// so repeated commands produce distinct transactions.
func parseNonce(name string, args []string) uint64 {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	nonce := fs.Uint64("nonce", uint64(time.Now().UnixNano()), "Transaction nonce")
	fs.Parse(args)
	return *nonce
}

func buildTx(g globals, nonce uint64, in program.Instruction) *tx.Transaction {
	data, err := program.EncodeInstruction(in)
	if err != nil {
		fatal("encode instruction: %v", err)
	}

	kp := loadKeypair(g)
	defer kp.Zero()

	b := tx.NewBuilder(kp.Address()).SetNonce(nonce).SetData(data)
	if err := b.Sign(kp); err != nil {
		fatal("sign: %v", err)
	}
	return b.Build()
}

// explain adds a hint to the program errors a user can act on.
func explain(err error) error {
	var rpcErr *rpcclient.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}
	switch rpcErr.Code {
	case rpc.CodeAlreadyExists:
		return fmt.Errorf("%w (already created; see 'pdamint-cli status')", err)
	case rpc.CodePrecondition:
		return fmt.Errorf("%w (run create-mint and create-token-account first)", err)
	case rpc.CodeResourceExhausted:
		return fmt.Errorf("%w (fund the keypair with 'pdamint-cli airdrop')", err)
	}
	return err
}

// ── ledger reads ────────────────────────────────────────────────────────

func cmdMintInfo(client *rpcclient.Client) {
	ctx := context.Background()
	info, err := client.ProgramInfo(ctx)
	if err != nil {
		fatal("program_getInfo: %v", err)
	}
	m, err := client.Mint(ctx, info.Mint)
	if err != nil {
		fatal("ledger_getMint: %v", err)
	}
	fmt.Printf("Mint:             %s\n", m.Address)
	fmt.Printf("Decimals:         %d\n", m.Decimals)
	fmt.Printf("Supply:           %s (%d base units)\n", formatTokens(m.Supply), m.Supply)
	fmt.Printf("Mint authority:   %s\n", m.MintAuthority)
	fmt.Printf("Freeze authority: %s\n", m.FreezeAuthority)
}

func cmdAccount(client *rpcclient.Client, args []string) {
	ctx := context.Background()
	var addr types.Address
	if len(args) > 0 {
		var err error
		addr, err = types.ParseAddress(args[0])
		if err != nil {
			fatal("invalid address: %v", err)
		}
	} else {
		info, err := client.ProgramInfo(ctx)
		if err != nil {
			fatal("program_getInfo: %v", err)
		}
		addr = info.TokenAccount
	}

	a, err := client.Account(ctx, addr)
	if err != nil {
		fatal("ledger_getAccount: %v", err)
	}
	fmt.Printf("Account:   %s\n", a.Address)
	fmt.Printf("Mint:      %s\n", a.Mint)
	fmt.Printf("Owner:     %s\n", a.Owner)
	fmt.Printf("Authority: %s\n", a.Authority)
	fmt.Printf("Amount:    %s (%d base units)\n", formatTokens(a.Amount), a.Amount)
}

func cmdCommitment(client *rpcclient.Client) {
	commitment, err := client.Commitment(context.Background())
	if err != nil {
		fatal("ledger_getCommitment: %v", err)
	}
	fmt.Println(commitment)
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
