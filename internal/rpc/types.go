package rpc

import (
	"github.com/Klingon-tech/pda-mint/internal/program"
	"github.com/Klingon-tech/pda-mint/pkg/tx"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000

	// Program and ledger failures.
	CodeAlreadyExists     = -32001 // Slot already initialized.
	CodePrecondition      = -32002 // A resource the call depends on is missing or mismatched.
	CodeUnauthorized      = -32003 // Proof, signature, or ownership check failed.
	CodeResourceExhausted = -32004 // Insufficient funding or numeric overflow.
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// AddressParam is used by the ledger_get* endpoints.
type AddressParam struct {
	Address string `json:"address"`
}

// TxSubmitParam is used by tx_submit and the program_* entry points.
type TxSubmitParam struct {
	Transaction *tx.Transaction `json:"transaction"`
}

// AirdropParam is used by ledger_airdrop.
type AirdropParam struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
}

// ── Result types ────────────────────────────────────────────────────────

// ProgramInfoResult is returned by program_getInfo.
type ProgramInfoResult struct {
	program.Info
	Faucet    bool   `json:"faucet"`
	FaucetMax uint64 `json:"faucet_max,omitempty"`
}

// TxSubmitResult is returned by tx_submit and the program_* entry points.
type TxSubmitResult struct {
	TxHash       string `json:"tx_hash"`
	InvocationID string `json:"invocation_id"`
	Instruction  string `json:"instruction"`
	Address      string `json:"address"`
	Amount       uint64 `json:"amount,omitempty"`
}

// MintResult is returned by ledger_getMint.
type MintResult struct {
	Address         string `json:"address"`
	Decimals        uint8  `json:"decimals"`
	Supply          uint64 `json:"supply"`
	MintAuthority   string `json:"mint_authority"`
	FreezeAuthority string `json:"freeze_authority"`
}

// AccountResult is returned by ledger_getAccount.
type AccountResult struct {
	Address   string `json:"address"`
	Mint      string `json:"mint"`
	Owner     string `json:"owner"`
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
}

// BalanceResult is returned by ledger_getBalance and ledger_airdrop.
type BalanceResult struct {
	Address  string `json:"address"`
	Lamports uint64 `json:"lamports"`
}

// CommitmentResult is returned by ledger_getCommitment.
type CommitmentResult struct {
	Commitment string `json:"commitment"`
}
