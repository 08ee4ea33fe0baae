package program

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/near/borsh-go"
)

// DiscriminatorSize is the length of the instruction tag.
const DiscriminatorSize = 8

// Instruction errors.
var (
	ErrUnknownInstruction     = errors.New("unknown instruction")
	ErrInvalidInstructionData = errors.New("invalid instruction data")
)

// Instruction is a decoded program call. Amount is only used by
// mint_tokens.
type Instruction struct {
	Name   string `json:"name"`
	Amount uint64 `json:"amount,omitempty"`
}

type mintTokensArgs struct {
	Amount uint64
}

// Discriminator returns the tag of the named instruction: the first eight
// bytes of sha256("global:" + name).
func Discriminator(name string) [DiscriminatorSize]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var d [DiscriminatorSize]byte
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

var discriminators = map[[DiscriminatorSize]byte]string{
	Discriminator(InstrCreateMint):         InstrCreateMint,
	Discriminator(InstrCreateTokenAccount): InstrCreateTokenAccount,
	Discriminator(InstrMintTokens):         InstrMintTokens,
}

// EncodeInstruction serializes in as tag followed by borsh-encoded args.
func EncodeInstruction(in Instruction) ([]byte, error) {
	tag := Discriminator(in.Name)
	if _, ok := discriminators[tag]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstruction, in.Name)
	}

	buf := bytes.NewBuffer(tag[:])
	if in.Name == InstrMintTokens {
		args, err := borsh.Serialize(mintTokensArgs{Amount: in.Amount})
		if err != nil {
			return nil, fmt.Errorf("encode %s args: %w", in.Name, err)
		}
		buf.Write(args)
	}
	return buf.Bytes(), nil
}

// DecodeInstruction parses data produced by EncodeInstruction. Trailing
// bytes are rejected.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) < DiscriminatorSize {
		return Instruction{}, fmt.Errorf("%w: %d bytes", ErrInvalidInstructionData, len(data))
	}
	var tag [DiscriminatorSize]byte
	copy(tag[:], data)
	name, ok := discriminators[tag]
	if !ok {
		return Instruction{}, fmt.Errorf("%w: tag %x", ErrUnknownInstruction, tag)
	}

	args := data[DiscriminatorSize:]
	switch name {
	case InstrMintTokens:
		if len(args) != 8 {
			return Instruction{}, fmt.Errorf("%w: %s args are %d bytes, want 8", ErrInvalidInstructionData, name, len(args))
		}
		var a mintTokensArgs
		if err := borsh.Deserialize(&a, args); err != nil {
			return Instruction{}, fmt.Errorf("%w: %v", ErrInvalidInstructionData, err)
		}
		return Instruction{Name: name, Amount: a.Amount}, nil
	default:
		if len(args) != 0 {
			return Instruction{}, fmt.Errorf("%w: %s takes no args", ErrInvalidInstructionData, name)
		}
		return Instruction{Name: name}, nil
	}
}

// Dispatch decodes data and runs the instruction for inv.
func (p *Program) Dispatch(ctx context.Context, inv Invocation, data []byte) (Result, error) {
	in, err := DecodeInstruction(data)
	if err != nil {
		return Result{}, err
	}
	return p.Execute(ctx, inv, in)
}

// Execute runs an already decoded instruction.
func (p *Program) Execute(ctx context.Context, inv Invocation, in Instruction) (Result, error) {
	switch in.Name {
	case InstrCreateMint:
		return p.CreateMint(ctx, inv)
	case InstrCreateTokenAccount:
		return p.CreateTokenAccount(ctx, inv)
	case InstrMintTokens:
		return p.MintTokens(ctx, inv, in.Amount)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownInstruction, in.Name)
	}
}
