package crypto

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
)

// LoadKeypairFile reads a keypair stored as a JSON array of 64 byte values,
// the format written by solana-keygen.
func LoadKeypairFile(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	b, err := DecodeKeypairJSON(data)
	if err != nil {
		return nil, fmt.Errorf("keypair file %s: %w", path, err)
	}
	return KeypairFromBytes(b)
}

// SaveKeypairFile writes kp as a JSON byte array with owner-only permissions.
// It refuses to overwrite an existing file.
func SaveKeypairFile(path string, kp *Keypair) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create keypair file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(EncodeKeypairJSON(kp)); err != nil {
		return fmt.Errorf("write keypair file: %w", err)
	}
	return nil
}

// EncodeKeypairJSON renders the secret key as "[n,n,...]".
func EncodeKeypairJSON(kp *Keypair) []byte {
	raw := kp.Bytes()
	ints := make([]int, len(raw))
	for i, v := range raw {
		ints[i] = int(v)
	}
	data, _ := json.Marshal(ints)
	return data
}

// DecodeKeypairJSON parses a JSON integer array into a 64-byte secret key.
func DecodeKeypairJSON(data []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal keypair json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	return out, nil
}
