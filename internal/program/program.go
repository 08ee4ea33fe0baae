// Package program is the mint program: it binds the derived authority to a
// mint and a holding account, and mints into that account by presenting the
// authority's derivation proof to the ledger.
package program

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/pda-mint/internal/authority"
	"github.com/Klingon-tech/pda-mint/internal/ledger"
	klog "github.com/Klingon-tech/pda-mint/internal/log"
	"github.com/Klingon-tech/pda-mint/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Decimals of the mint the program creates.
const Decimals uint8 = 6

// Program errors.
var (
	ErrOwnerMismatch = errors.New("caller does not own the holding account")
	ErrNoCaller      = errors.New("invocation has no caller")
	ErrZeroProgramID = errors.New("program id is zero")
	ErrNilLedger     = errors.New("ledger service is nil")
)

// Invocation identifies who is calling the program and who pays for any
// account it creates. A zero Funder means the caller pays.
type Invocation struct {
	Caller types.Address `json:"caller"`
	Funder types.Address `json:"funder"`
}

func (inv Invocation) funder() types.Address {
	if inv.Funder.IsZero() {
		return inv.Caller
	}
	return inv.Funder
}

// Result describes a completed invocation.
type Result struct {
	InvocationID string                 `json:"invocation_id"`
	Instruction  string                 `json:"instruction"`
	Address      types.Address          `json:"address"`
	Mint         *ledger.Mint           `json:"mint,omitempty"`
	Account      *ledger.HoldingAccount `json:"account,omitempty"`
	Amount       uint64                 `json:"amount,omitempty"`
}

// Info describes the program's derived addresses.
type Info struct {
	ProgramID    types.Address `json:"program_id"`
	Authority    types.Address `json:"authority"`
	Bump         uint8         `json:"bump"`
	Mint         types.Address `json:"mint"`
	TokenAccount types.Address `json:"token_account"`
	TokenBump    uint8         `json:"token_bump"`
	RequireOwner bool          `json:"require_owner"`
}

// Option configures a Program.
type Option func(*Program)

// WithOwnerCheck makes MintTokens reject callers other than the holding
// account's owner. Off by default: any caller may mint.
func WithOwnerCheck(on bool) Option {
	return func(p *Program) { p.requireOwner = on }
}

// WithLogger overrides the program logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Program) { p.logger = l }
}

// Program is one deployed instance of the mint program.
type Program struct {
	id           types.Address
	ledger       *ledger.Client
	requireOwner bool
	logger       zerolog.Logger
}

// New creates the program identified by id on top of svc. It derives both
// slots once so that a program id with no viable bump fails here rather than
// on the first call.
func New(id types.Address, svc *ledger.Service, opts ...Option) (*Program, error) {
	if id.IsZero() {
		return nil, ErrZeroProgramID
	}
	if svc == nil {
		return nil, ErrNilLedger
	}
	p := &Program{
		id:     id,
		ledger: svc.Client(id),
		logger: klog.Program,
	}
	for _, opt := range opts {
		opt(p)
	}
	if _, err := p.Info(); err != nil {
		return nil, err
	}
	return p, nil
}

// ID returns the program id.
func (p *Program) ID() types.Address {
	return p.id
}

// Authority derives the program's mint authority.
func (p *Program) Authority() (authority.Authority, error) {
	return authority.Derive(p.id)
}

// MintAddress returns the address of the program's mint.
func (p *Program) MintAddress() (types.Address, error) {
	a, err := p.Authority()
	if err != nil {
		return types.Address{}, err
	}
	return a.Address, nil
}

// TokenAccountAddress returns the address of the program's holding account.
func (p *Program) TokenAccountAddress() (types.Address, error) {
	a, err := p.tokenSlot()
	if err != nil {
		return types.Address{}, err
	}
	return a.Address, nil
}

func (p *Program) tokenSlot() (authority.Authority, error) {
	return authority.DeriveSlot(p.id, authority.TokenAccountLabel)
}

// Info returns the program's derived addresses.
func (p *Program) Info() (Info, error) {
	auth, err := p.Authority()
	if err != nil {
		return Info{}, err
	}
	token, err := p.tokenSlot()
	if err != nil {
		return Info{}, err
	}
	return Info{
		ProgramID:    p.id,
		Authority:    auth.Address,
		Bump:         auth.Bump,
		Mint:         auth.Address,
		TokenAccount: token.Address,
		TokenBump:    token.Bump,
		RequireOwner: p.requireOwner,
	}, nil
}

// begin starts an invocation: it validates the caller and returns an
// invocation id and a logger tagged with it.
func (p *Program) begin(inv Invocation, instruction string) (string, zerolog.Logger, error) {
	if inv.Caller.IsZero() {
		return "", p.logger, fmt.Errorf("%s: %w", instruction, ErrNoCaller)
	}
	id := uuid.NewString()
	logger := p.logger.With().
		Str("invocation", id).
		Str("instruction", instruction).
		Str("caller", inv.Caller.String()).
		Logger()
	return id, logger, nil
}
