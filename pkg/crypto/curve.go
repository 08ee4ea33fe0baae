package crypto

import (
	"filippo.io/edwards25519"
)

// IsOnCurve reports whether b is the encoding of a valid ed25519 point,
// i.e. whether some private key could in principle sign for it.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
