package keys

import (
	"fmt"

	"xdao.co/keyflow/baseflow"
	"xdao.co/keyflow/hexutil"
	"xdao.co/keyflow/model"
)

// KeySize is the width of every key used by the protocol: master keys,
// derived keys and HMAC keys.
const KeySize = 32

// packBase is the radix of the packed (textual) key form.
const packBase = 62

// PackKey renders raw key bytes as a base-62 string.
//
// The bytes are read as one big-endian number, so leading zero bytes are not
// represented; UnpackKey restores them by padding to KeySize.
func PackKey(raw []byte) (string, error) {
	c, err := baseflow.New(hexutil.Bin2Hex(raw), 16)
	if err != nil {
		return "", err
	}
	return c.To(packBase)
}

// UnpackKey returns the KeySize raw bytes behind a packed key.
func UnpackKey(packed string) ([]byte, error) {
	return UnpackKeySize(packed, KeySize)
}

// UnpackKeySize decodes a packed key and left-pads the result with zero bytes
// to size. A size <= 0 returns the minimal big-endian bytes (at least one).
func UnpackKeySize(packed string, size int) ([]byte, error) {
	c, err := baseflow.New(packed, packBase)
	if err != nil {
		return nil, model.WrapError(model.KindKey, "KF-KEY-001", "invalid packed key", err)
	}
	hex, err := c.To(16)
	if err != nil {
		return nil, model.WrapError(model.KindKey, "KF-KEY-001", "invalid packed key", err)
	}
	if len(hex)%2 == 1 {
		hex = "0" + hex
	}
	raw, err := hexutil.Hex2Bin(hex)
	if err != nil {
		return nil, model.WrapError(model.KindKey, "KF-KEY-001", "invalid packed key", err)
	}
	if size <= 0 || len(raw) == size {
		return raw, nil
	}
	if len(raw) > size {
		return nil, model.NewError(model.KindKey, "KF-KEY-002",
			fmt.Sprintf("packed key holds %d bytes, want at most %d", len(raw), size))
	}
	out := make([]byte, size)
	copy(out[size-len(raw):], raw)
	return out, nil
}
