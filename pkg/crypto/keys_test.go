package crypto

import (
	"bytes"
	"crypto/sha256"
	"path/filepath"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	kp, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	if len(kp.Bytes()) != 64 {
		t.Errorf("Bytes() length = %d, want 64", len(kp.Bytes()))
	}
	if kp.Address().IsZero() {
		t.Error("Address() should not be zero")
	}
}

func TestGenerateKey_Unique(t *testing.T) {
	k1, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	k2, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	if k1.Address() == k2.Address() {
		t.Error("two generated keys should not share an address")
	}
}

func TestKeypairFromSeed_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	k1, err := KeypairFromSeed(seed)
	if err != nil {
		t.Fatalf("KeypairFromSeed: %v", err)
	}
	k2, err := KeypairFromSeed(seed)
	if err != nil {
		t.Fatalf("KeypairFromSeed: %v", err)
	}
	if k1.Address() != k2.Address() {
		t.Error("same seed should yield the same address")
	}

	if _, err := KeypairFromSeed(seed[:16]); err == nil {
		t.Error("expected error for short seed")
	}
}

func TestKeypairFromBytes(t *testing.T) {
	original, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}

	restored, err := KeypairFromBytes(original.Bytes())
	if err != nil {
		t.Fatalf("KeypairFromBytes() error: %v", err)
	}
	if restored.Address() != original.Address() {
		t.Error("restored key should have same address")
	}

	tampered := original.Bytes()
	tampered[63] ^= 0xFF
	if _, err := KeypairFromBytes(tampered); err == nil {
		t.Error("expected error for mismatched public half")
	}

	if _, err := KeypairFromBytes(make([]byte, 32)); err == nil {
		t.Error("expected error for 32-byte input")
	}
}

func TestSign_Verify(t *testing.T) {
	kp, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	msg := []byte("mint 1000000")

	sig, err := kp.Sign(msg)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if !VerifySignature(kp.Address(), msg, sig) {
		t.Fatal("valid signature should verify")
	}
	if VerifySignature(kp.Address(), []byte("mint 1"), sig) {
		t.Error("signature over a different message should not verify")
	}

	other, _ := GenerateKey()
	if VerifySignature(other.Address(), msg, sig) {
		t.Error("signature should not verify under another key")
	}
	if VerifySignature(kp.Address(), msg, sig[:10]) {
		t.Error("truncated signature should not verify")
	}
}

func TestZero(t *testing.T) {
	kp, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	kp.Zero()
	if !bytes.Equal(kp.Bytes(), make([]byte, 64)) {
		t.Error("Zero() should wipe the key")
	}
}

func TestIsOnCurve_PublicKeys(t *testing.T) {
	for i := 0; i < 16; i++ {
		kp, err := GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() error: %v", err)
		}
		addr := kp.Address()
		if !IsOnCurve(addr[:]) {
			t.Fatalf("public key %s should be on curve", addr)
		}
	}
}

func TestIsOnCurve_FindsOffCurveDigest(t *testing.T) {
	// Roughly half of all 32-byte strings fail to decompress.
	for i := 0; i < 64; i++ {
		h := sha256.Sum256([]byte{byte(i)})
		if !IsOnCurve(h[:]) {
			return
		}
	}
	t.Fatal("no off-curve digest among 64 candidates")
}

func TestIsOnCurve_WrongLength(t *testing.T) {
	if IsOnCurve(make([]byte, 31)) {
		t.Error("31 bytes should not be on curve")
	}
}

func TestKeypairFile_Roundtrip(t *testing.T) {
	kp, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "id.json")

	if err := SaveKeypairFile(path, kp); err != nil {
		t.Fatalf("SaveKeypairFile: %v", err)
	}
	if err := SaveKeypairFile(path, kp); err == nil {
		t.Error("SaveKeypairFile should refuse to overwrite")
	}

	loaded, err := LoadKeypairFile(path)
	if err != nil {
		t.Fatalf("LoadKeypairFile: %v", err)
	}
	if loaded.Address() != kp.Address() {
		t.Error("loaded keypair address mismatch")
	}
}

func TestDecodeKeypairJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "nope"},
		{"too short", "[1,2,3]"},
		{"out of range", "[" + repeatInts("300", 64) + "]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeKeypairJSON([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func repeatInts(v string, n int) string {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(v)
	}
	return buf.String()
}
