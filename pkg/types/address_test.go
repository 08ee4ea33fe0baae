package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddress_IsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Error("zero-value Address should be zero")
	}

	nonZero := Address{0x01}
	if nonZero.IsZero() {
		t.Error("non-zero Address should not be zero")
	}
}

func TestAddress_String(t *testing.T) {
	var zero Address
	if got := zero.String(); got != "11111111111111111111111111111111" {
		t.Errorf("zero String() = %s, want 32 ones", got)
	}
}

func TestParseAddress_Roundtrip(t *testing.T) {
	const s = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	a, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress(%q): %v", s, err)
	}
	if a.String() != s {
		t.Errorf("roundtrip = %s, want %s", a.String(), s)
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"invalid alphabet", "0OIl"},
		{"too short", "abc"},
		{"too long", strings.Repeat("z", 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAddress(tt.input); err == nil {
				t.Errorf("ParseAddress(%q) should fail", tt.input)
			}
		})
	}
}

func TestMustParseAddress_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseAddress should panic on invalid input")
		}
	}()
	MustParseAddress("not-base58!")
}

func TestAddressFromBytes(t *testing.T) {
	b := make([]byte, AddressSize)
	b[0] = 0xAA
	a, err := AddressFromBytes(b)
	if err != nil {
		t.Fatalf("AddressFromBytes: %v", err)
	}
	if a[0] != 0xAA {
		t.Errorf("a[0] = %x, want aa", a[0])
	}

	if _, err := AddressFromBytes(b[:20]); err == nil {
		t.Error("AddressFromBytes should reject 20 bytes")
	}
}

func TestAddress_Bytes_IsCopy(t *testing.T) {
	a := Address{0x01}
	b := a.Bytes()
	b[0] = 0xFF
	if a[0] == 0xFF {
		t.Error("Bytes() should return a copy, not a reference")
	}
}

func TestAddress_JSON(t *testing.T) {
	a := Address{0x01, 0x02, 0x03}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Address
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != a {
		t.Errorf("roundtrip = %s, want %s", got, a)
	}

	if err := json.Unmarshal([]byte(`"bogus!"`), &got); err == nil {
		t.Error("Unmarshal should reject invalid base58")
	}
}
