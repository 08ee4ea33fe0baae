package program

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscriminator_AnchorCompatible(t *testing.T) {
	// Anchor's tag for an instruction named "initialize".
	d := Discriminator("initialize")
	require.Equal(t, "afaf6d1f0d989bed", hex.EncodeToString(d[:]))
}

func TestEncodeInstruction_Layout(t *testing.T) {
	data, err := EncodeInstruction(Instruction{Name: InstrMintTokens, Amount: 1_000_000})
	require.NoError(t, err)
	require.Len(t, data, DiscriminatorSize+8)

	tag := Discriminator(InstrMintTokens)
	require.Equal(t, tag[:], data[:DiscriminatorSize])
	require.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(data[DiscriminatorSize:]))

	data, err = EncodeInstruction(Instruction{Name: InstrCreateMint})
	require.NoError(t, err)
	require.Len(t, data, DiscriminatorSize)

	_, err = EncodeInstruction(Instruction{Name: "burn"})
	require.ErrorIs(t, err, ErrUnknownInstruction)
}

func TestDecodeInstruction(t *testing.T) {
	for _, in := range []Instruction{
		{Name: InstrCreateMint},
		{Name: InstrCreateTokenAccount},
		{Name: InstrMintTokens, Amount: 42},
	} {
		data, err := EncodeInstruction(in)
		require.NoError(t, err)
		got, err := DecodeInstruction(data)
		require.NoError(t, err)
		require.Equal(t, in, got)
	}
}

func TestDecodeInstruction_Invalid(t *testing.T) {
	mintTag := Discriminator(InstrMintTokens)
	createTag := Discriminator(InstrCreateMint)
	unknown := Discriminator("burn")

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidInstructionData},
		{"short tag", []byte{1, 2, 3}, ErrInvalidInstructionData},
		{"unknown tag", unknown[:], ErrUnknownInstruction},
		{"short amount", append(mintTag[:], 1, 2, 3), ErrInvalidInstructionData},
		{"trailing bytes", append(createTag[:], 0), ErrInvalidInstructionData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInstruction(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDispatch(t *testing.T) {
	p, svc := setup(t)
	ctx := context.Background()

	for _, in := range []Instruction{
		{Name: InstrCreateMint},
		{Name: InstrCreateTokenAccount},
		{Name: InstrMintTokens, Amount: 7},
	} {
		data, err := EncodeInstruction(in)
		require.NoError(t, err)
		res, err := p.Dispatch(ctx, Invocation{Caller: callerA}, data)
		require.NoError(t, err)
		require.Equal(t, in.Name, res.Instruction)
	}

	addr, err := p.TokenAccountAddress()
	require.NoError(t, err)
	acct, err := svc.HoldingAccount(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(7), acct.Amount)

	_, err = p.Dispatch(ctx, Invocation{Caller: callerA}, []byte("garbage!"))
	require.ErrorIs(t, err, ErrUnknownInstruction)

	_, err = p.Execute(ctx, Invocation{Caller: callerA}, Instruction{Name: "burn"})
	require.ErrorIs(t, err, ErrUnknownInstruction)
}
