// Package hexutil converts between raw bytes and lowercase hex text.
package hexutil

import (
	"encoding/hex"

	"xdao.co/keyflow/model"
)

// Bin2Hex returns the lowercase hex encoding of b.
func Bin2Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// Hex2Bin decodes hex text. Both cases are accepted; odd lengths and non-hex
// characters are Decode errors.
func Hex2Bin(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, model.WrapError(model.KindDecode, "KF-HEX-001", "invalid hex", err)
	}
	return b, nil
}
