package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/Klingon-tech/pda-mint/internal/storage"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// txn stages writes for one ledger call. Reads see staged writes first.
// Must be used with the service lock held.
type txn struct {
	db     Store
	writes map[string][]byte
	order  []string
}

func (s *Service) begin() *txn {
	return &txn{db: s.db, writes: make(map[string][]byte)}
}

func (t *txn) get(key []byte) ([]byte, bool, error) {
	if v, ok := t.writes[string(key)]; ok {
		return v, true, nil
	}
	v, err := t.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ledger read: %w", err)
	}
	return v, true, nil
}

func (t *txn) put(key, value []byte) {
	k := string(key)
	if _, ok := t.writes[k]; !ok {
		t.order = append(t.order, k)
	}
	t.writes[k] = value
}

func (t *txn) commit() error {
	if len(t.order) == 0 {
		return nil
	}
	b := t.db.NewBatch()
	for _, k := range t.order {
		if err := b.Put([]byte(k), t.writes[k]); err != nil {
			return fmt.Errorf("ledger stage: %w", err)
		}
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("ledger commit: %w", err)
	}
	return nil
}

func (t *txn) mint(addr types.Address) (*Mint, error) {
	data, ok, err := t.get(recordKey(prefixMint, addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMintNotFound, addr)
	}
	return decodeMint(data)
}

func (t *txn) account(addr types.Address) (*HoldingAccount, error) {
	data, ok, err := t.get(recordKey(prefixAccount, addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return decodeAccount(data)
}

func (t *txn) lamports(addr types.Address) (uint64, error) {
	data, ok, err := t.get(recordKey(prefixLamports, addr))
	if err != nil || !ok {
		return 0, err
	}
	return decodeLamports(data)
}

func (t *txn) occupied(addr types.Address) (bool, error) {
	for _, prefix := range [][]byte{prefixMint, prefixAccount} {
		_, ok, err := t.get(recordKey(prefix, addr))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (t *txn) putMint(addr types.Address, m Mint) error {
	data, err := encodeRecord(m)
	if err != nil {
		return err
	}
	t.put(recordKey(prefixMint, addr), data)
	return nil
}

func (t *txn) putAccount(addr types.Address, a HoldingAccount) error {
	data, err := encodeRecord(a)
	if err != nil {
		return err
	}
	t.put(recordKey(prefixAccount, addr), data)
	return nil
}

func (t *txn) setLamports(addr types.Address, n uint64) error {
	data, err := encodeRecord(n)
	if err != nil {
		return err
	}
	t.put(recordKey(prefixLamports, addr), data)
	return nil
}

// chargeRent moves rent from funder to slot.
func (t *txn) chargeRent(funder, slot types.Address, rent uint64) error {
	if funder.IsZero() {
		return fmt.Errorf("%w: no funding account", ErrFundingFailed)
	}
	have, err := t.lamports(funder)
	if err != nil {
		return err
	}
	if have < rent {
		return fmt.Errorf("%w: %s has %d lamports, needs %d", ErrFundingFailed, funder, have, rent)
	}
	if err := t.setLamports(funder, have-rent); err != nil {
		return err
	}
	held, err := t.lamports(slot)
	if err != nil {
		return err
	}
	if held > math.MaxUint64-rent {
		return fmt.Errorf("%w: lamports of %s", ErrOverflow, slot)
	}
	return t.setLamports(slot, held+rent)
}
