package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/Klingon-tech/pda-mint/internal/ledger"
	"github.com/Klingon-tech/pda-mint/internal/program"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// ErrDuplicateTx is returned when a transaction was already executed.
var ErrDuplicateTx = errors.New("transaction already submitted")

func (s *Server) handleProgramGetInfo(_ *Request) (interface{}, *Error) {
	info, err := s.program.Info()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &ProgramInfoResult{
		Info:      info,
		Faucet:    s.faucetMax > 0,
		FaucetMax: s.faucetMax,
	}, nil
}

// handleProgramCall verifies a signed transaction and runs its instruction.
// A non-empty expect restricts which instruction the transaction may carry.
func (s *Server) handleProgramCall(ctx context.Context, req *Request, expect string) (interface{}, *Error) {
	var params TxSubmitParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	t := params.Transaction
	if t == nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "transaction is required"}
	}
	if err := t.Check(); err != nil {
		return nil, toError(err)
	}

	if expect != "" {
		in, err := program.DecodeInstruction(t.Data)
		if err != nil {
			return nil, toError(err)
		}
		if in.Name != expect {
			return nil, &Error{
				Code:    CodeInvalidParams,
				Message: fmt.Sprintf("transaction carries %s, %s expects %s", in.Name, req.Method, expect),
			}
		}
	}

	hash := t.Hash()
	if !s.reserve(hash) {
		return nil, toError(fmt.Errorf("%w: %s", ErrDuplicateTx, hash))
	}

	inv := program.Invocation{Caller: t.Caller, Funder: t.PayingAccount()}
	res, err := s.program.Dispatch(ctx, inv, t.Data)
	if err != nil {
		s.release(hash)
		s.logger.Debug().Err(err).Str("tx", hash.String()).Msg("Transaction rejected")
		return nil, toError(err)
	}

	return &TxSubmitResult{
		TxHash:       hash.String(),
		InvocationID: res.InvocationID,
		Instruction:  res.Instruction,
		Address:      res.Address.String(),
		Amount:       res.Amount,
	}, nil
}

// reserve marks hash as executed. It reports false if it already was.
func (s *Server) reserve(hash types.Hash) bool {
	found, _ := s.seen.ContainsOrAdd(hash, struct{}{})
	return !found
}

// release forgets a reservation whose transaction failed, so it can be
// retried.
func (s *Server) release(hash types.Hash) {
	s.seen.Remove(hash)
}

func (s *Server) handleLedgerGetMint(req *Request) (interface{}, *Error) {
	addr, rpcErr := parseAddressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	m, err := s.ledger.Mint(addr)
	if errors.Is(err, ledger.ErrMintNotFound) {
		return nil, &Error{Code: CodeNotFound, Message: err.Error()}
	}
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &MintResult{
		Address:         addr.String(),
		Decimals:        m.Decimals,
		Supply:          m.Supply,
		MintAuthority:   m.MintAuthority.String(),
		FreezeAuthority: m.FreezeAuthority.String(),
	}, nil
}

func (s *Server) handleLedgerGetAccount(req *Request) (interface{}, *Error) {
	addr, rpcErr := parseAddressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	a, err := s.ledger.HoldingAccount(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, &Error{Code: CodeNotFound, Message: err.Error()}
	}
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &AccountResult{
		Address:   addr.String(),
		Mint:      a.Mint.String(),
		Owner:     a.Owner.String(),
		Authority: a.Authority.String(),
		Amount:    a.Amount,
	}, nil
}

func (s *Server) handleLedgerGetBalance(req *Request) (interface{}, *Error) {
	addr, rpcErr := parseAddressParam(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	lamports, err := s.ledger.Lamports(addr)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &BalanceResult{Address: addr.String(), Lamports: lamports}, nil
}

func (s *Server) handleLedgerGetCommitment(_ *Request) (interface{}, *Error) {
	h, err := s.ledger.Commitment()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return &CommitmentResult{Commitment: h.String()}, nil
}

func (s *Server) handleLedgerAirdrop(ctx context.Context, req *Request) (interface{}, *Error) {
	if s.faucetMax == 0 {
		return nil, &Error{Code: CodeInvalidRequest, Message: "faucet is disabled on this node"}
	}
	var params AirdropParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := types.ParseAddress(params.Address)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address: %v", err)}
	}
	if params.Lamports == 0 || params.Lamports > s.faucetMax {
		return nil, &Error{
			Code:    CodeInvalidParams,
			Message: fmt.Sprintf("lamports must be in [1, %d]", s.faucetMax),
		}
	}

	balance, err := s.ledger.Airdrop(ctx, addr, params.Lamports)
	if err != nil {
		return nil, toError(err)
	}
	s.logger.Info().Str("address", addr.String()).Uint64("lamports", params.Lamports).Msg("Airdrop")
	return &BalanceResult{Address: addr.String(), Lamports: balance}, nil
}
