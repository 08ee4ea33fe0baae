package authority

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// ErrAuthorizationMismatch is returned when a proof does not re-derive the
// expected address.
var ErrAuthorizationMismatch = errors.New("derivation proof does not match authority")

// Proof is presented in place of a signature. Anyone verifying it re-runs
// the derivation and compares the result; nothing secret is involved.
type Proof struct {
	ProgramID types.Address `json:"program_id"`
	Seeds     [][]byte      `json:"seeds"`
	Bump      uint8         `json:"bump"`
}

// Address re-derives the address the proof stands for.
func (p Proof) Address() (types.Address, error) {
	seeds := make([][]byte, 0, len(p.Seeds)+1)
	seeds = append(seeds, p.Seeds...)
	seeds = append(seeds, []byte{p.Bump})
	return CreateProgramAddress(seeds, p.ProgramID)
}

// Verify checks that the proof re-derives expected.
func (p Proof) Verify(expected types.Address) error {
	addr, err := p.Address()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthorizationMismatch, err)
	}
	if addr != expected {
		return fmt.Errorf("%w: derived %s, want %s", ErrAuthorizationMismatch, addr, expected)
	}
	return nil
}
