package program

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/pda-mint/internal/ledger"
)

// Instruction names.
const (
	InstrCreateMint         = "create_mint"
	InstrCreateTokenAccount = "create_token_account"
	InstrMintTokens         = "mint_tokens"
)

// CreateMint creates the program's mint at the authority's address, paid
// for by the invocation's funder. Both mint and freeze authority are the
// derived authority. A second call fails with ledger.ErrAlreadyExists.
func (p *Program) CreateMint(ctx context.Context, inv Invocation) (Result, error) {
	id, logger, err := p.begin(inv, InstrCreateMint)
	if err != nil {
		return Result{}, err
	}

	auth, err := p.Authority()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", InstrCreateMint, err)
	}

	addr, m, err := p.ledger.CreateMint(ctx, ledger.CreateMintRequest{
		Funder:          inv.funder(),
		Slot:            auth.Proof(),
		Decimals:        Decimals,
		MintAuthority:   auth.Address,
		FreezeAuthority: auth.Address,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Create mint failed")
		return Result{}, fmt.Errorf("%s: %w", InstrCreateMint, err)
	}

	logger.Info().Str("mint", addr.String()).Uint8("bump", auth.Bump).Msg("Mint bound to authority")
	return Result{
		InvocationID: id,
		Instruction:  InstrCreateMint,
		Address:      addr,
		Mint:         m,
	}, nil
}

// CreateTokenAccount creates the program's holding account for the mint,
// owned by the caller. The mint must already exist.
func (p *Program) CreateTokenAccount(ctx context.Context, inv Invocation) (Result, error) {
	id, logger, err := p.begin(inv, InstrCreateTokenAccount)
	if err != nil {
		return Result{}, err
	}

	auth, err := p.Authority()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", InstrCreateTokenAccount, err)
	}
	slot, err := p.tokenSlot()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", InstrCreateTokenAccount, err)
	}

	addr, acct, err := p.ledger.CreateHoldingAccount(ctx, ledger.CreateAccountRequest{
		Funder:    inv.funder(),
		Slot:      slot.Proof(),
		Mint:      auth.Address,
		Owner:     inv.Caller,
		Authority: inv.Caller,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Create token account failed")
		return Result{}, fmt.Errorf("%s: %w", InstrCreateTokenAccount, err)
	}

	logger.Info().Str("account", addr.String()).Str("mint", auth.Address.String()).Msg("Token account bound to mint")
	return Result{
		InvocationID: id,
		Instruction:  InstrCreateTokenAccount,
		Address:      addr,
		Account:      acct,
	}, nil
}
