// Package obfus generates self-decoding JavaScript expressions that hide a
// string literal behind a single-byte XOR key.
package obfus

import (
	"crypto/rand"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"

	"xdao.co/keyflow/model"
)

// GenerateCode returns a JavaScript expression that evaluates to plaintext.
//
// The key is drawn from r (crypto/rand when nil) and lies in [1,255]. Each
// UTF-16 code unit is XORed with the key, so String.fromCharCode restores
// characters outside the BMP as surrogate pairs.
func GenerateCode(r io.Reader, plaintext string) (string, error) {
	if plaintext == "" {
		return `""`, nil
	}
	if r == nil {
		r = rand.Reader
	}
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return "", model.WrapError(model.KindInternal, "KF-OBF-001", "read xor key", err)
	}
	key := uint16(b[0])%255 + 1

	units := utf16.Encode([]rune(plaintext))
	var data strings.Builder
	for i, u := range units {
		if i > 0 {
			data.WriteString(", ")
		}
		data.WriteString(strconv.Itoa(int(u ^ key)))
	}
	return "((k => String.fromCharCode(...[" + data.String() + "].map(x => x ^ k))))(" +
		strconv.Itoa(int(key)) + ")", nil
}
