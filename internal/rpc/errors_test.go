package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Klingon-tech/pda-mint/internal/ledger"
	"github.com/Klingon-tech/pda-mint/internal/program"
	"github.com/Klingon-tech/pda-mint/pkg/tx"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ledger.ErrAlreadyExists, CodeAlreadyExists},
		{ErrDuplicateTx, CodeAlreadyExists},
		{ledger.ErrMintNotFound, CodePrecondition},
		{ledger.ErrAccountNotFound, CodePrecondition},
		{ledger.ErrMintMismatch, CodePrecondition},
		{ledger.ErrAuthorizationMismatch, CodeUnauthorized},
		{program.ErrOwnerMismatch, CodeUnauthorized},
		{tx.ErrBadSignature, CodeUnauthorized},
		{tx.ErrFunderNotSigner, CodeUnauthorized},
		{ledger.ErrFundingFailed, CodeResourceExhausted},
		{ledger.ErrOverflow, CodeResourceExhausted},
		{program.ErrUnknownInstruction, CodeInvalidParams},
		{tx.ErrNoData, CodeInvalidParams},
		{errors.New("disk on fire"), CodeInternalError},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("mint_tokens: %w", tt.err)
		if got := errorCode(wrapped); got != tt.want {
			t.Errorf("errorCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestToError_KeepsMessage(t *testing.T) {
	err := fmt.Errorf("create_mint: %w: slot X", ledger.ErrAlreadyExists)
	rpcErr := toError(err)
	if rpcErr.Message != err.Error() {
		t.Errorf("message = %q, want %q", rpcErr.Message, err.Error())
	}
}

func TestReplaySet_Bounded(t *testing.T) {
	s := &Server{seen: newSeenSet(2)}
	h1, h2, h3 := types.Hash{1}, types.Hash{2}, types.Hash{3}

	if !s.reserve(h1) || !s.reserve(h2) {
		t.Fatal("fresh hashes should reserve")
	}
	if s.reserve(h1) {
		t.Fatal("h1 reserved twice")
	}

	// A third hash evicts the oldest.
	if !s.reserve(h3) {
		t.Fatal("h3 should reserve")
	}
	if got := s.seen.Len(); got != 2 {
		t.Errorf("replay set size = %d, want 2", got)
	}
	if s.seen.Contains(h1) {
		t.Error("h1 should have been evicted")
	}

	s.release(h2)
	if !s.reserve(h2) {
		t.Error("released hash should reserve again")
	}
}
