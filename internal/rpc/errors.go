package rpc

import (
	"errors"

	"github.com/Klingon-tech/pda-mint/internal/ledger"
	"github.com/Klingon-tech/pda-mint/internal/program"
	"github.com/Klingon-tech/pda-mint/pkg/tx"
)

// errorCode classifies a program, ledger, or transaction error. The first
// matching rule wins.
func errorCode(err error) int {
	switch {
	case errors.Is(err, ledger.ErrAlreadyExists),
		errors.Is(err, ErrDuplicateTx):
		return CodeAlreadyExists

	case errors.Is(err, ledger.ErrMintNotFound),
		errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrMintMismatch):
		return CodePrecondition

	case errors.Is(err, ledger.ErrAuthorizationMismatch),
		errors.Is(err, program.ErrOwnerMismatch),
		errors.Is(err, tx.ErrMissingSignature),
		errors.Is(err, tx.ErrBadSignature),
		errors.Is(err, tx.ErrFunderNotSigner):
		return CodeUnauthorized

	case errors.Is(err, ledger.ErrFundingFailed),
		errors.Is(err, ledger.ErrOverflow):
		return CodeResourceExhausted

	case errors.Is(err, program.ErrUnknownInstruction),
		errors.Is(err, program.ErrInvalidInstructionData),
		errors.Is(err, program.ErrNoCaller),
		errors.Is(err, ledger.ErrInvalidRequest),
		errors.Is(err, tx.ErrNoCaller),
		errors.Is(err, tx.ErrNoData),
		errors.Is(err, tx.ErrDataTooLarge):
		return CodeInvalidParams

	default:
		return CodeInternalError
	}
}

// toError wraps err for the wire, keeping its message verbatim.
func toError(err error) *Error {
	return &Error{Code: errorCode(err), Message: err.Error()}
}
