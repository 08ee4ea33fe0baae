package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/Klingon-tech/pda-mint/pkg/types"
)

// Signer signs messages with a private key.
type Signer interface {
	// Sign produces an ed25519 signature over msg.
	Sign(msg []byte) ([]byte, error)
	// Address returns the signer's public key as an address.
	Address() types.Address
}

// Keypair wraps an ed25519 private key. Its address is the raw public key,
// which is by construction a point on the curve.
type Keypair struct {
	key ed25519.PrivateKey
}

// GenerateKey creates a new random keypair.
func GenerateKey() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Keypair{key: priv}, nil
}

// KeypairFromSeed creates a keypair from a 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Keypair{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// KeypairFromBytes creates a keypair from a 64-byte secret key
// (seed || public key, the solana-keygen layout). The embedded public key
// must match the seed.
func KeypairFromBytes(b []byte) (*Keypair, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(b))
	}
	kp := &Keypair{key: ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])}
	pub := kp.key.Public().(ed25519.PublicKey)
	for i := range pub {
		if pub[i] != b[ed25519.SeedSize+i] {
			return nil, fmt.Errorf("secret key public half does not match seed")
		}
	}
	return kp, nil
}

// Sign produces an ed25519 signature over msg.
func (k *Keypair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(k.key, msg), nil
}

// Address returns the public key as an address.
func (k *Keypair) Address() types.Address {
	var a types.Address
	copy(a[:], k.key.Public().(ed25519.PublicKey))
	return a
}

// Bytes returns the 64-byte secret key.
func (k *Keypair) Bytes() []byte {
	b := make([]byte, len(k.key))
	copy(b, k.key)
	return b
}

// Zero wipes the private key memory.
func (k *Keypair) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
}

// VerifySignature checks an ed25519 signature over msg against the public
// key held in addr. Returns false on any error.
func VerifySignature(addr types.Address, msg, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(addr[:]), msg, signature)
}
