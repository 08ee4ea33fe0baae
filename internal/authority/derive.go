// Package authority derives keyless program addresses.
//
// A program address is sha256(seeds || bump || program id || marker), kept
// only when the digest is NOT a valid ed25519 point. No private key exists
// for such an address, so the only way to act for it is to present the
// seeds and bump that produce it, under the program id that owns it.
package authority

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/Klingon-tech/pda-mint/pkg/crypto"
	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// Seeds of the two program-owned slots. Label is the one global authority:
// the mint lives at its address and names it as mint and freeze authority.
const (
	Label             = "mint"
	TokenAccountLabel = "token"
)

// Derivation limits.
const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

// pdaMarker is appended to every derivation preimage.
var pdaMarker = []byte("ProgramDerivedAddress")

// Derivation errors.
var (
	ErrMaxSeedLength = errors.New("seed exceeds maximum length")
	ErrTooManySeeds  = errors.New("too many seeds")
	ErrOnCurve       = errors.New("derived address is on the ed25519 curve")
	ErrNoViableBump  = errors.New("no bump yields an off-curve address")
)

// CreateProgramAddress hashes seeds under programID and returns the result
// if it is off-curve. The caller supplies the bump as the last seed.
func CreateProgramAddress(seeds [][]byte, programID types.Address) (types.Address, error) {
	if len(seeds) > MaxSeeds {
		return types.Address{}, fmt.Errorf("%w: %d > %d", ErrTooManySeeds, len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return types.Address{}, fmt.Errorf("%w: seed %d is %d bytes", ErrMaxSeedLength, i, len(s))
		}
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)

	var addr types.Address
	copy(addr[:], h.Sum(nil))
	if crypto.IsOnCurve(addr[:]) {
		return types.Address{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches bumps from 255 down to 1 and returns the
// first off-curve address together with its bump.
func FindProgramAddress(seeds [][]byte, programID types.Address) (types.Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		// One slot is reserved for the bump.
		return types.Address{}, 0, fmt.Errorf("%w: %d seeds leave no room for a bump", ErrTooManySeeds, len(seeds))
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := uint8(255); bump > 0; bump-- {
		withBump[len(seeds)] = []byte{bump}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, bump, nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return types.Address{}, 0, err
		}
	}
	return types.Address{}, 0, ErrNoViableBump
}

// Authority is a derived address together with everything needed to
// re-derive it. It is never persisted on its own.
type Authority struct {
	Address   types.Address
	Bump      uint8
	ProgramID types.Address
	Seeds     [][]byte
}

// Derive returns the global mint authority of programID.
func Derive(programID types.Address) (Authority, error) {
	return DeriveSlot(programID, Label)
}

// DeriveSlot derives the program-owned address for a single-seed label.
func DeriveSlot(programID types.Address, label string) (Authority, error) {
	seeds := [][]byte{[]byte(label)}
	addr, bump, err := FindProgramAddress(seeds, programID)
	if err != nil {
		return Authority{}, fmt.Errorf("derive %q: %w", label, err)
	}
	return Authority{
		Address:   addr,
		Bump:      bump,
		ProgramID: programID,
		Seeds:     seeds,
	}, nil
}

// Proof returns the derivation proof for a.
func (a Authority) Proof() Proof {
	seeds := make([][]byte, len(a.Seeds))
	for i, s := range a.Seeds {
		seeds[i] = append([]byte(nil), s...)
	}
	return Proof{
		ProgramID: a.ProgramID,
		Seeds:     seeds,
		Bump:      a.Bump,
	}
}
