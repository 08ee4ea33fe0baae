package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/pda-mint/pkg/crypto"
)

// Validation errors.
var (
	ErrNoCaller         = errors.New("transaction has no caller")
	ErrNoData           = errors.New("transaction has no instruction data")
	ErrDataTooLarge     = errors.New("instruction data too large")
	ErrMissingSignature = errors.New("transaction missing signature")
	ErrBadSignature     = errors.New("invalid signature")
	ErrFunderNotSigner  = errors.New("funder did not sign the transaction")
)

// Validate checks transaction structure. It does not verify the signature.
func (tx *Transaction) Validate() error {
	if tx.Caller.IsZero() {
		return ErrNoCaller
	}
	if len(tx.Data) == 0 {
		return ErrNoData
	}
	if len(tx.Data) > MaxDataSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrDataTooLarge, len(tx.Data), MaxDataSize)
	}
	// Only the caller signs, so only the caller can be charged.
	if !tx.Funder.IsZero() && tx.Funder != tx.Caller {
		return fmt.Errorf("%w: funder %s, caller %s", ErrFunderNotSigner, tx.Funder, tx.Caller)
	}
	if len(tx.Signature) == 0 {
		return ErrMissingSignature
	}
	return nil
}

// VerifySignature checks that the caller signed this transaction.
func (tx *Transaction) VerifySignature() error {
	if len(tx.Signature) == 0 {
		return ErrMissingSignature
	}
	hash := tx.Hash()
	if !crypto.VerifySignature(tx.Caller, hash[:], tx.Signature) {
		return ErrBadSignature
	}
	return nil
}

// Check runs Validate and VerifySignature.
func (tx *Transaction) Check() error {
	if err := tx.Validate(); err != nil {
		return err
	}
	return tx.VerifySignature()
}
