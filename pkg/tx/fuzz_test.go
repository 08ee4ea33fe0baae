package tx

import (
	"encoding/json"
	"testing"
)

// FuzzTxUnmarshal tests that arbitrary JSON input does not panic
// when unmarshaled into a Transaction struct.
func FuzzTxUnmarshal(f *testing.F) {
	f.Add([]byte(`{"caller":"11111111111111111111111111111111","nonce":1,"data":"00","signature":"00"}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"data":null,"signature":null}`))
	f.Add([]byte(`{"caller":"","funder":"","data":""}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var tx Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return
		}
		// If unmarshal succeeded, these must not panic.
		tx.Hash()
		tx.SigningBytes()
		tx.Validate()
		tx.VerifySignature() // May fail but must not panic.
	})
}
