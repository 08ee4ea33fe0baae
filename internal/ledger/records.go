package ledger

import (
	"fmt"

	"github.com/Klingon-tech/pda-mint/pkg/types"
	"github.com/near/borsh-go"
)

// Rent charged to the funder when a resource is created, in lamports.
// Sized for the 82-byte mint and 165-byte account layouts.
const (
	MintRent    uint64 = 1_461_600
	AccountRent uint64 = 2_039_280
)

// Mint is a fungible token type.
type Mint struct {
	Decimals        uint8         `json:"decimals"`
	Supply          uint64        `json:"supply"`
	MintAuthority   types.Address `json:"mint_authority"`
	FreezeAuthority types.Address `json:"freeze_authority"`
}

// HoldingAccount is the balance of one owner for one mint.
type HoldingAccount struct {
	Mint      types.Address `json:"mint"`
	Owner     types.Address `json:"owner"`
	Authority types.Address `json:"authority"`
	Amount    uint64        `json:"amount"`
}

// Key prefixes.
var (
	prefixMint     = []byte("m/") // m/<addr(32)> -> Mint (borsh)
	prefixAccount  = []byte("a/") // a/<addr(32)> -> HoldingAccount (borsh)
	prefixLamports = []byte("l/") // l/<addr(32)> -> uint64 (borsh)
)

func recordKey(prefix []byte, addr types.Address) []byte {
	key := make([]byte, len(prefix)+types.AddressSize)
	copy(key, prefix)
	copy(key[len(prefix):], addr[:])
	return key
}

func encodeRecord(v interface{}) ([]byte, error) {
	data, err := borsh.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

func decodeMint(data []byte) (*Mint, error) {
	var m Mint
	if err := borsh.Deserialize(&m, data); err != nil {
		return nil, fmt.Errorf("decode mint: %w", err)
	}
	return &m, nil
}

func decodeAccount(data []byte) (*HoldingAccount, error) {
	var a HoldingAccount
	if err := borsh.Deserialize(&a, data); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &a, nil
}

func decodeLamports(data []byte) (uint64, error) {
	var n uint64
	if err := borsh.Deserialize(&n, data); err != nil {
		return 0, fmt.Errorf("decode lamports: %w", err)
	}
	return n, nil
}
