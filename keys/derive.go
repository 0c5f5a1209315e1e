package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"xdao.co/keyflow/model"
)

// minMasterLeadByte is the smallest accepted first byte of a fresh master key.
// Keys whose first byte has a zero high nibble are redrawn so every packed
// master key spans the full 64-digit hex width.
const minMasterLeadByte = 0x10

// GenerateMasterKey draws KeySize random bytes from r and returns them packed.
// A nil r uses crypto/rand.Reader.
func GenerateMasterKey(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	raw := make([]byte, KeySize)
	for {
		if _, err := io.ReadFull(r, raw); err != nil {
			return "", model.WrapError(model.KindKey, "KF-KEY-003", "read random key bytes", err)
		}
		if raw[0] >= minMasterLeadByte {
			break
		}
	}
	return PackKey(raw)
}

// DeriveKey expands a packed master key and a context string into a packed
// KeySize subkey.
//
// The derivation is HKDF-SHA256 with a KeySize zero salt and a single expand
// block: PRK = HMAC(salt, master), OKM = HMAC(PRK, info || 0x01).
// An empty info is the default context.
func DeriveKey(masterPacked, info string) (string, error) {
	master, err := UnpackKey(masterPacked)
	if err != nil {
		return "", err
	}
	okm, err := expand(master, info)
	if err != nil {
		return "", err
	}
	return PackKey(okm)
}

func expand(master []byte, info string) ([]byte, error) {
	salt := make([]byte, KeySize)
	prk := hkdf.Extract(sha256.New, master, salt)
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, []byte(info)), out); err != nil {
		return nil, model.WrapError(model.KindKey, "KF-KEY-004", "hkdf expand", err)
	}
	return out, nil
}
