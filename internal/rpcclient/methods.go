package rpcclient

import (
	"context"

	"github.com/Klingon-tech/pda-mint/internal/rpc"
	"github.com/Klingon-tech/pda-mint/pkg/tx"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// ProgramInfo returns the node's program id and derived addresses.
func (c *Client) ProgramInfo(ctx context.Context) (*rpc.ProgramInfoResult, error) {
	var result rpc.ProgramInfoResult
	if err := c.CallContext(ctx, "program_getInfo", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Submit sends a signed transaction through tx_submit.
func (c *Client) Submit(ctx context.Context, t *tx.Transaction) (*rpc.TxSubmitResult, error) {
	return c.submit(ctx, "tx_submit", t)
}

// CreateMint sends a transaction that must carry create_mint.
func (c *Client) CreateMint(ctx context.Context, t *tx.Transaction) (*rpc.TxSubmitResult, error) {
	return c.submit(ctx, "program_createMint", t)
}

// CreateTokenAccount sends a transaction that must carry create_token_account.
func (c *Client) CreateTokenAccount(ctx context.Context, t *tx.Transaction) (*rpc.TxSubmitResult, error) {
	return c.submit(ctx, "program_createTokenAccount", t)
}

// MintTokens sends a transaction that must carry mint_tokens.
func (c *Client) MintTokens(ctx context.Context, t *tx.Transaction) (*rpc.TxSubmitResult, error) {
	return c.submit(ctx, "program_mintTokens", t)
}

func (c *Client) submit(ctx context.Context, method string, t *tx.Transaction) (*rpc.TxSubmitResult, error) {
	var result rpc.TxSubmitResult
	if err := c.CallContext(ctx, method, rpc.TxSubmitParam{Transaction: t}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Mint fetches the mint record at addr.
func (c *Client) Mint(ctx context.Context, addr types.Address) (*rpc.MintResult, error) {
	var result rpc.MintResult
	if err := c.CallContext(ctx, "ledger_getMint", rpc.AddressParam{Address: addr.String()}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Account fetches the holding account at addr.
func (c *Client) Account(ctx context.Context, addr types.Address) (*rpc.AccountResult, error) {
	var result rpc.AccountResult
	if err := c.CallContext(ctx, "ledger_getAccount", rpc.AddressParam{Address: addr.String()}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Balance returns the lamports held by addr.
func (c *Client) Balance(ctx context.Context, addr types.Address) (uint64, error) {
	var result rpc.BalanceResult
	if err := c.CallContext(ctx, "ledger_getBalance", rpc.AddressParam{Address: addr.String()}, &result); err != nil {
		return 0, err
	}
	return result.Lamports, nil
}

// Airdrop credits addr from the node faucet and returns the new balance.
func (c *Client) Airdrop(ctx context.Context, addr types.Address, lamports uint64) (uint64, error) {
	var result rpc.BalanceResult
	params := rpc.AirdropParam{Address: addr.String(), Lamports: lamports}
	if err := c.CallContext(ctx, "ledger_airdrop", params, &result); err != nil {
		return 0, err
	}
	return result.Lamports, nil
}

// Commitment returns the ledger state commitment as hex.
func (c *Client) Commitment(ctx context.Context) (string, error) {
	var result rpc.CommitmentResult
	if err := c.CallContext(ctx, "ledger_getCommitment", nil, &result); err != nil {
		return "", err
	}
	return result.Commitment, nil
}
