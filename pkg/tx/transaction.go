// Package tx defines the signed transaction that carries a program
// instruction from a caller to the node.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/Klingon-tech/pda-mint/pkg/crypto"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// MaxDataSize bounds the instruction payload of one transaction.
const MaxDataSize = 1024

// Transaction is one program instruction signed by its caller.
// A zero Funder means the caller pays for any account the instruction
// creates.
type Transaction struct {
	Caller    types.Address `json:"caller"`
	Funder    types.Address `json:"funder"`
	Nonce     uint64        `json:"nonce"`
	Data      []byte        `json:"data"`
	Signature []byte        `json:"signature"`
}

// txJSON is the JSON representation of Transaction with hex-encoded byte fields.
type txJSON struct {
	Caller    types.Address `json:"caller"`
	Funder    types.Address `json:"funder"`
	Nonce     uint64        `json:"nonce"`
	Data      string        `json:"data"`
	Signature *string       `json:"signature"`
}

// MarshalJSON encodes the transaction with hex-encoded data and signature.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	j := txJSON{
		Caller: tx.Caller,
		Funder: tx.Funder,
		Nonce:  tx.Nonce,
		Data:   hex.EncodeToString(tx.Data),
	}
	if tx.Signature != nil {
		s := hex.EncodeToString(tx.Signature)
		j.Signature = &s
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a transaction with hex-encoded data and signature.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var j txJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	payload, err := hex.DecodeString(j.Data)
	if err != nil {
		return err
	}
	tx.Caller = j.Caller
	tx.Funder = j.Funder
	tx.Nonce = j.Nonce
	tx.Data = payload
	tx.Signature = nil
	if j.Signature != nil {
		b, err := hex.DecodeString(*j.Signature)
		if err != nil {
			return err
		}
		tx.Signature = b
	}
	return nil
}

// PayingAccount returns the account charged for created resources.
func (tx *Transaction) PayingAccount() types.Address {
	if tx.Funder.IsZero() {
		return tx.Caller
	}
	return tx.Funder
}

// Hash computes the transaction ID (BLAKE3 hash of the signing data).
// The signature is excluded.
func (tx *Transaction) Hash() types.Hash {
	return crypto.Hash(tx.SigningBytes())
}

// SigningBytes returns the canonical byte representation used for signing.
// Format: caller(32) | funder(32) | nonce(8) | data
func (tx *Transaction) SigningBytes() []byte {
	buf := make([]byte, 0, 2*types.AddressSize+8+len(tx.Data))
	buf = append(buf, tx.Caller[:]...)
	buf = append(buf, tx.Funder[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Nonce)
	buf = append(buf, tx.Data...)
	return buf
}
