// Package randalpha generates random strings over fixed alphanumeric alphabets.
package randalpha

import (
	"crypto/rand"
	"fmt"
	"io"

	"xdao.co/keyflow/model"
)

// Mode selects the output alphabet.
type Mode int

const (
	// ModeAlpha draws from 0-9, A-Z, a-z.
	ModeAlpha Mode = iota
	// ModeAlpha36 draws from 0-9, A-Z.
	ModeAlpha36
)

const (
	alpha62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	alpha36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ParseMode maps "alpha" (or "") and "alpha36" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "alpha":
		return ModeAlpha, nil
	case "alpha36":
		return ModeAlpha36, nil
	default:
		return ModeAlpha, fmt.Errorf("unknown alphabet mode %q", s)
	}
}

func (m Mode) alphabet() string {
	if m == ModeAlpha36 {
		return alpha36
	}
	return alpha62
}

// Random returns length symbols drawn uniformly from the mode's alphabet.
//
// Random bytes at or above the largest multiple of the alphabet size (248
// for 62 symbols, 252 for 36) are rejected so the modulo stays unbiased.
// A nil r uses crypto/rand.Reader.
func Random(r io.Reader, length int, mode Mode) (string, error) {
	if length < 0 {
		return "", model.NewError(model.KindInternal, "KF-RAND-001", fmt.Sprintf("negative length %d", length))
	}
	if r == nil {
		r = rand.Reader
	}
	chars := mode.alphabet()
	base := len(chars)
	limit := 256 - 256%base

	out := make([]byte, 0, length)
	pool := make([]byte, 2*length)
	used := len(pool)
	for len(out) < length {
		if used >= len(pool) {
			if _, err := io.ReadFull(r, pool); err != nil {
				return "", model.WrapError(model.KindInternal, "KF-RAND-002", "read random bytes", err)
			}
			used = 0
		}
		b := int(pool[used])
		used++
		if b >= limit {
			continue
		}
		out = append(out, chars[b%base])
	}
	return string(out), nil
}
