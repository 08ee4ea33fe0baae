package authority

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProof_Verify(t *testing.T) {
	a, err := Derive(testProgramID)
	require.NoError(t, err)

	p := a.Proof()
	require.NoError(t, p.Verify(a.Address))

	addr, err := p.Address()
	require.NoError(t, err)
	require.Equal(t, a.Address, addr)
}

func TestProof_Verify_Mismatch(t *testing.T) {
	a, err := Derive(testProgramID)
	require.NoError(t, err)
	token, err := DeriveSlot(testProgramID, TokenAccountLabel)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(p *Proof)
	}{
		{"wrong bump", func(p *Proof) { p.Bump-- }},
		{"wrong program", func(p *Proof) { p.ProgramID[0] ^= 0x01 }},
		{"wrong label", func(p *Proof) { p.Seeds[0] = []byte(TokenAccountLabel); p.Bump = token.Bump }},
		{"extra seed", func(p *Proof) { p.Seeds = append(p.Seeds, []byte("x")) }},
		{"oversized seed", func(p *Proof) { p.Seeds[0] = make([]byte, MaxSeedLength+1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := a.Proof()
			tt.mutate(&p)
			require.ErrorIs(t, p.Verify(a.Address), ErrAuthorizationMismatch)
		})
	}
}

func TestProof_IsCopy(t *testing.T) {
	a, err := Derive(testProgramID)
	require.NoError(t, err)

	p := a.Proof()
	p.Seeds[0][0] = 'X'
	require.Equal(t, []byte(Label), a.Seeds[0])
	require.NoError(t, a.Proof().Verify(a.Address))
}
