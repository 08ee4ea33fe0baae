package ledger

import (
	"context"
	"fmt"
	"math"

	"github.com/Klingon-tech/pda-mint/internal/authority"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// Client is a ledger handle scoped to one calling program.
type Client struct {
	svc       *Service
	programID types.Address
}

// ProgramID returns the program the client acts for.
func (c *Client) ProgramID() types.Address {
	return c.programID
}

// Mint returns the mint stored at addr.
func (c *Client) Mint(addr types.Address) (*Mint, error) {
	return c.svc.Mint(addr)
}

// HoldingAccount returns the holding account stored at addr.
func (c *Client) HoldingAccount(addr types.Address) (*HoldingAccount, error) {
	return c.svc.HoldingAccount(addr)
}

// CreateMintRequest creates a mint at the slot the Slot proof derives.
type CreateMintRequest struct {
	Funder          types.Address
	Slot            authority.Proof
	Decimals        uint8
	MintAuthority   types.Address
	FreezeAuthority types.Address
}

// CreateAccountRequest creates a holding account at the slot the Slot
// proof derives.
type CreateAccountRequest struct {
	Funder    types.Address
	Slot      authority.Proof
	Mint      types.Address
	Owner     types.Address
	Authority types.Address
}

// IncreaseSupplyRequest mints Amount into Account. Authority must re-derive
// the mint's recorded mint authority.
type IncreaseSupplyRequest struct {
	Mint      types.Address
	Account   types.Address
	Amount    uint64
	Authority authority.Proof
}

// slotAddress checks that proof was derived under the client's program and
// returns the address it stands for.
func (c *Client) slotAddress(proof authority.Proof) (types.Address, error) {
	if proof.ProgramID != c.programID {
		return types.Address{}, fmt.Errorf("%w: proof names program %s, caller is %s",
			ErrAuthorizationMismatch, proof.ProgramID, c.programID)
	}
	addr, err := proof.Address()
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrAuthorizationMismatch, err)
	}
	return addr, nil
}

// CreateMint creates a mint, charging MintRent to the funder.
func (c *Client) CreateMint(ctx context.Context, req CreateMintRequest) (types.Address, *Mint, error) {
	if err := ctx.Err(); err != nil {
		return types.Address{}, nil, err
	}
	if req.MintAuthority.IsZero() {
		return types.Address{}, nil, fmt.Errorf("%w: mint authority required", ErrInvalidRequest)
	}
	slot, err := c.slotAddress(req.Slot)
	if err != nil {
		return types.Address{}, nil, err
	}

	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()

	tx := c.svc.begin()
	taken, err := tx.occupied(slot)
	if err != nil {
		return types.Address{}, nil, err
	}
	if taken {
		return types.Address{}, nil, fmt.Errorf("%w: %s", ErrAlreadyExists, slot)
	}
	if err := tx.chargeRent(req.Funder, slot, MintRent); err != nil {
		return types.Address{}, nil, err
	}

	m := Mint{
		Decimals:        req.Decimals,
		MintAuthority:   req.MintAuthority,
		FreezeAuthority: req.FreezeAuthority,
	}
	if err := tx.putMint(slot, m); err != nil {
		return types.Address{}, nil, err
	}
	if err := tx.commit(); err != nil {
		return types.Address{}, nil, err
	}

	c.svc.logger.Info().
		Str("mint", slot.String()).
		Str("funder", req.Funder.String()).
		Uint8("decimals", m.Decimals).
		Msg("Mint created")
	return slot, &m, nil
}

// CreateHoldingAccount creates a zero-balance account for req.Mint,
// charging AccountRent to the funder. The mint must already exist.
func (c *Client) CreateHoldingAccount(ctx context.Context, req CreateAccountRequest) (types.Address, *HoldingAccount, error) {
	if err := ctx.Err(); err != nil {
		return types.Address{}, nil, err
	}
	if req.Owner.IsZero() {
		return types.Address{}, nil, fmt.Errorf("%w: owner required", ErrInvalidRequest)
	}
	slot, err := c.slotAddress(req.Slot)
	if err != nil {
		return types.Address{}, nil, err
	}

	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()

	tx := c.svc.begin()
	if _, err := tx.mint(req.Mint); err != nil {
		return types.Address{}, nil, err
	}
	taken, err := tx.occupied(slot)
	if err != nil {
		return types.Address{}, nil, err
	}
	if taken {
		return types.Address{}, nil, fmt.Errorf("%w: %s", ErrAlreadyExists, slot)
	}
	if err := tx.chargeRent(req.Funder, slot, AccountRent); err != nil {
		return types.Address{}, nil, err
	}

	a := HoldingAccount{
		Mint:      req.Mint,
		Owner:     req.Owner,
		Authority: req.Authority,
	}
	if a.Authority.IsZero() {
		a.Authority = req.Owner
	}
	if err := tx.putAccount(slot, a); err != nil {
		return types.Address{}, nil, err
	}
	if err := tx.commit(); err != nil {
		return types.Address{}, nil, err
	}

	c.svc.logger.Info().
		Str("account", slot.String()).
		Str("mint", req.Mint.String()).
		Str("owner", req.Owner.String()).
		Msg("Holding account created")
	return slot, &a, nil
}

// IncreaseSupply credits req.Amount to the account and the mint supply.
func (c *Client) IncreaseSupply(ctx context.Context, req IncreaseSupplyRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Authority.ProgramID != c.programID {
		return fmt.Errorf("%w: proof names program %s, caller is %s",
			ErrAuthorizationMismatch, req.Authority.ProgramID, c.programID)
	}

	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()

	tx := c.svc.begin()
	m, err := tx.mint(req.Mint)
	if err != nil {
		return err
	}
	acct, err := tx.account(req.Account)
	if err != nil {
		return err
	}
	if acct.Mint != req.Mint {
		return fmt.Errorf("%w: account %s is for %s", ErrMintMismatch, req.Account, acct.Mint)
	}
	if err := req.Authority.Verify(m.MintAuthority); err != nil {
		return err
	}
	if m.Supply > math.MaxUint64-req.Amount {
		return fmt.Errorf("%w: supply %d + %d", ErrOverflow, m.Supply, req.Amount)
	}
	if acct.Amount > math.MaxUint64-req.Amount {
		return fmt.Errorf("%w: balance %d + %d", ErrOverflow, acct.Amount, req.Amount)
	}

	m.Supply += req.Amount
	acct.Amount += req.Amount
	if err := tx.putMint(req.Mint, *m); err != nil {
		return err
	}
	if err := tx.putAccount(req.Account, *acct); err != nil {
		return err
	}
	if err := tx.commit(); err != nil {
		return err
	}

	c.svc.logger.Debug().
		Str("mint", req.Mint.String()).
		Str("account", req.Account.String()).
		Uint64("amount", req.Amount).
		Uint64("supply", m.Supply).
		Msg("Supply increased")
	return nil
}
