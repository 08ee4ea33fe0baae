package tx

import (
	"fmt"

	"github.com/Klingon-tech/pda-mint/pkg/crypto"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// Builder constructs transactions incrementally.
type Builder struct {
	tx *Transaction
}

// NewBuilder creates a builder for a transaction sent by caller.
func NewBuilder(caller types.Address) *Builder {
	return &Builder{
		tx: &Transaction{Caller: caller},
	}
}

// SetFunder sets the paying account.
func (b *Builder) SetFunder(funder types.Address) *Builder {
	b.tx.Funder = funder
	return b
}

// SetNonce sets the nonce. Two otherwise identical transactions need
// distinct nonces to have distinct IDs.
func (b *Builder) SetNonce(nonce uint64) *Builder {
	b.tx.Nonce = nonce
	return b
}

// SetData sets the encoded instruction.
func (b *Builder) SetData(data []byte) *Builder {
	b.tx.Data = append([]byte(nil), data...)
	return b
}

// Sign signs the transaction. The signer must be the caller.
func (b *Builder) Sign(signer crypto.Signer) error {
	if signer.Address() != b.tx.Caller {
		return fmt.Errorf("sign tx: signer %s is not caller %s", signer.Address(), b.tx.Caller)
	}
	hash := b.tx.Hash()
	sig, err := signer.Sign(hash[:])
	if err != nil {
		return fmt.Errorf("sign tx: %w", err)
	}
	b.tx.Signature = sig
	return nil
}

// Build returns the constructed transaction.
// Does NOT validate; call tx.Validate() separately.
func (b *Builder) Build() *Transaction {
	return b.tx
}
