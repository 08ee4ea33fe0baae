package program

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/pda-mint/internal/ledger"
)

// MintTokens mints amount into the program's holding account. The program
// re-derives its authority and hands the derivation proof to the ledger in
// place of a signature; the caller only names the invocation.
func (p *Program) MintTokens(ctx context.Context, inv Invocation, amount uint64) (Result, error) {
	id, logger, err := p.begin(inv, InstrMintTokens)
	if err != nil {
		return Result{}, err
	}

	auth, err := p.Authority()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", InstrMintTokens, err)
	}
	slot, err := p.tokenSlot()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", InstrMintTokens, err)
	}

	acct, err := p.ledger.HoldingAccount(slot.Address)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", InstrMintTokens, err)
	}
	if acct.Mint != auth.Address {
		return Result{}, fmt.Errorf("%s: %w: account %s is for %s",
			InstrMintTokens, ledger.ErrMintMismatch, slot.Address, acct.Mint)
	}
	if p.requireOwner && acct.Owner != inv.Caller {
		return Result{}, fmt.Errorf("%s: %w: owner is %s", InstrMintTokens, ErrOwnerMismatch, acct.Owner)
	}

	err = p.ledger.IncreaseSupply(ctx, ledger.IncreaseSupplyRequest{
		Mint:      auth.Address,
		Account:   slot.Address,
		Amount:    amount,
		Authority: auth.Proof(),
	})
	if err != nil {
		logger.Warn().Err(err).Uint64("amount", amount).Msg("Mint failed")
		return Result{}, fmt.Errorf("%s: %w", InstrMintTokens, err)
	}

	logger.Info().
		Uint64("amount", amount).
		Str("account", slot.Address.String()).
		Str("owner", acct.Owner.String()).
		Msg("Tokens minted")
	return Result{
		InvocationID: id,
		Instruction:  InstrMintTokens,
		Address:      slot.Address,
		Amount:       amount,
	}, nil
}
