// Package ledger implements the token ledger service that the mint program
// calls into.
//
// The ledger owns mint and holding-account records and the lamport balances
// that pay for them. It never sees a private key: privileged calls carry an
// authority.Proof, which the ledger re-derives and compares against the
// authority recorded on the mint. Calls are made through a Client bound to
// the calling program's id, so a program can only present proofs derived
// under its own id.
//
// Every call runs under one service-wide lock and stages its writes in a
// single storage batch. A call either commits all of its effects or none.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Klingon-tech/pda-mint/internal/authority"
	klog "github.com/Klingon-tech/pda-mint/internal/log"
	"github.com/Klingon-tech/pda-mint/internal/storage"
	"github.com/Klingon-tech/pda-mint/pkg/crypto"
	"github.com/Klingon-tech/pda-mint/pkg/types"
	"github.com/rs/zerolog"
)

// Ledger errors.
var (
	ErrAlreadyExists   = errors.New("slot already initialized")
	ErrMintNotFound    = errors.New("mint not found")
	ErrAccountNotFound = errors.New("holding account not found")
	ErrMintMismatch    = errors.New("holding account belongs to a different mint")
	ErrFundingFailed   = errors.New("insufficient funding")
	ErrOverflow        = errors.New("amount overflow")
	ErrInvalidRequest  = errors.New("invalid ledger request")

	// ErrAuthorizationMismatch is shared with the authority package so
	// errors.Is works whichever side reports it.
	ErrAuthorizationMismatch = authority.ErrAuthorizationMismatch
)

// Store is the storage the ledger needs: a key-value DB with atomic batches.
type Store = storage.BatchDB

// Service is the ledger.
type Service struct {
	mu     sync.Mutex
	db     Store
	logger zerolog.Logger
}

// New creates a ledger over db.
func New(db Store) *Service {
	return &Service{
		db:     db,
		logger: klog.Ledger,
	}
}

// Client returns a handle whose privileged calls are made on behalf of
// programID.
func (s *Service) Client(programID types.Address) *Client {
	return &Client{svc: s, programID: programID}
}

// Airdrop credits lamports to addr. It exists to fund callers on
// development networks.
func (s *Service) Airdrop(ctx context.Context, addr types.Address, lamports uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if addr.IsZero() {
		return 0, fmt.Errorf("%w: zero address", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.begin()
	bal, err := tx.lamports(addr)
	if err != nil {
		return 0, err
	}
	if bal > math.MaxUint64-lamports {
		return 0, fmt.Errorf("%w: balance of %s", ErrOverflow, addr)
	}
	if err := tx.setLamports(addr, bal+lamports); err != nil {
		return 0, err
	}
	if err := tx.commit(); err != nil {
		return 0, err
	}

	s.logger.Debug().Str("address", addr.String()).Uint64("lamports", lamports).Msg("Airdrop")
	return bal + lamports, nil
}

// Lamports returns the lamport balance of addr (zero if never funded).
func (s *Service) Lamports(addr types.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin().lamports(addr)
}

// Mint returns the mint stored at addr.
func (s *Service) Mint(addr types.Address) (*Mint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin().mint(addr)
}

// HoldingAccount returns the holding account stored at addr.
func (s *Service) HoldingAccount(addr types.Address) (*HoldingAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin().account(addr)
}

// Exists reports whether a mint or holding account occupies addr.
func (s *Service) Exists(addr types.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin().occupied(addr)
}

// Commitment returns a BLAKE3 merkle root over every record in the ledger.
// Two ledgers with the same records have the same commitment; a failed call
// leaves it unchanged.
func (s *Service) Commitment() (types.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var leaves []types.Hash
	for _, prefix := range [][]byte{prefixMint, prefixAccount, prefixLamports} {
		err := s.db.ForEach(prefix, func(key, value []byte) error {
			buf := make([]byte, 0, len(key)+len(value))
			buf = append(buf, key...)
			buf = append(buf, value...)
			leaves = append(leaves, crypto.Hash(buf))
			return nil
		})
		if err != nil {
			return types.Hash{}, fmt.Errorf("ledger commitment: %w", err)
		}
	}

	sort.Slice(leaves, func(i, j int) bool {
		return string(leaves[i][:]) < string(leaves[j][:])
	})
	return crypto.MerkleRoot(leaves), nil
}
