// Package gauldoth implements a two-key Triple-DES token format.
//
// A token carries its own 8-byte CBC IV, scattered through the base64 body in
// random slices. The slice layout ("marks") is encrypted under a second key
// and prefixed to the body:
//
//	<marks IV (8)><base64 marks ciphertext>|<interleaved body>
//
// Each mark is the IV indices of one slice followed by a two-digit length of
// the ciphertext chunk that precedes those IV characters in the body.
// Keys are the first 24 bytes of SHA-256 over the key material.
package gauldoth

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"xdao.co/keyflow/model"
	"xdao.co/keyflow/randalpha"
)

// IVSize is the length of a caller-supplied IV.
const IVSize = des.BlockSize

const (
	maxSliceIndices = 6
	maxChunkLen     = 99
)

// Options names the key material for both ciphers.
type Options struct {
	// Key protects the payload.
	Key string
	// IVKey protects the marks.
	IVKey string
}

// Gauldoth encrypts and decrypts tokens. It is safe for concurrent use.
type Gauldoth struct {
	data  cipher.Block
	marks cipher.Block
}

// New derives both Triple-DES keys from opts.
func New(opts Options) (*Gauldoth, error) {
	data, err := des.NewTripleDESCipher(deriveKey(opts.Key))
	if err != nil {
		return nil, model.WrapError(model.KindKey, "KF-GAU-006", "payload cipher", err)
	}
	marks, err := des.NewTripleDESCipher(deriveKey(opts.IVKey))
	if err != nil {
		return nil, model.WrapError(model.KindKey, "KF-GAU-006", "marks cipher", err)
	}
	return &Gauldoth{data: data, marks: marks}, nil
}

func deriveKey(material string) []byte {
	sum := sha256.Sum256([]byte(material))
	return sum[:24]
}

// Encrypt encrypts source under a random IV. A string is used as-is; any
// other non-nil value is encoded as JSON. Randomness comes from r, or
// crypto/rand when r is nil.
func (g *Gauldoth) Encrypt(r io.Reader, source any) (string, error) {
	return g.EncryptWithIV(r, source, "")
}

// EncryptWithIV is Encrypt with a caller-chosen IV of exactly IVSize bytes.
// An empty iv draws one from r.
func (g *Gauldoth) EncryptWithIV(r io.Reader, source any, iv string) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	plain, err := sourceText(source)
	if err != nil {
		return "", err
	}
	if iv == "" {
		if iv, err = randalpha.Random(r, IVSize, randalpha.ModeAlpha); err != nil {
			return "", err
		}
	}
	if len(iv) != IVSize {
		return "", model.NewError(model.KindKey, "KF-GAU-002", fmt.Sprintf("IV must be %d bytes, got %d", IVSize, len(iv)))
	}

	body := encryptCBC(g.data, []byte(plain), []byte(iv))
	return g.pack(r, iv, body)
}

// Decrypt reverses Encrypt. Any malformed or tampered token is an error.
func (g *Gauldoth) Decrypt(token string) (string, error) {
	head, body, ok := strings.Cut(token, "|")
	if !ok {
		return "", model.NewError(model.KindDecode, "KF-GAU-004", "missing marks separator")
	}
	if body == "" {
		return "", model.NewError(model.KindDecode, "KF-GAU-004", "empty payload")
	}
	if len(head) <= IVSize {
		return "", model.NewError(model.KindDecode, "KF-GAU-004", "marks section too short")
	}
	marks, err := decryptCBC(g.marks, head[IVSize:], []byte(head[:IVSize]))
	if err != nil {
		return "", model.WrapError(model.KindDecode, "KF-GAU-005", "decrypt marks", err)
	}
	data, iv, err := unpack(string(marks), body)
	if err != nil {
		return "", err
	}
	plain, err := decryptCBC(g.data, data, iv)
	if err != nil {
		return "", model.WrapError(model.KindDecode, "KF-GAU-005", "decrypt payload", err)
	}
	return string(plain), nil
}

func sourceText(source any) (string, error) {
	var s string
	switch v := source.(type) {
	case nil:
	case string:
		s = v
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", model.WrapError(model.KindSerialization, "KF-GAU-007", "encode source", err)
		}
		s = strings.TrimSuffix(buf.String(), "\n")
	}
	if s == "" {
		return "", model.NewError(model.KindEmptyInput, "KF-GAU-001", "source data is empty")
	}
	return s, nil
}

// pack scatters iv through data and prefixes the encrypted marks.
func (g *Gauldoth) pack(r io.Reader, iv, data string) (string, error) {
	order := make([]int, IVSize)
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j, err := randIntn(r, i+1)
		if err != nil {
			return "", err
		}
		order[i], order[j] = order[j], order[i]
	}

	var body strings.Builder
	var marks []string
	rest := data
	for len(order) > 0 {
		n, err := randIntn(r, len(order))
		if err != nil {
			return "", err
		}
		n = min(maxSliceIndices, n+1)
		slice := order[:n]
		order = order[n:]

		limit := max(1, min(maxChunkLen, int(math.Sqrt(float64(len(rest))))))
		cut, err := randIntn(r, limit)
		if err != nil {
			return "", err
		}
		cut = min(cut+1, len(rest))

		body.WriteString(rest[:cut])
		rest = rest[cut:]
		var mark strings.Builder
		for _, idx := range slice {
			body.WriteByte(iv[idx])
			mark.WriteByte(byte('0' + idx))
		}
		fmt.Fprintf(&mark, "%02d", cut)
		marks = append(marks, mark.String())
	}
	body.WriteString(rest)

	marksIV, err := randalpha.Random(r, IVSize, randalpha.ModeAlpha)
	if err != nil {
		return "", err
	}
	head := marksIV + encryptCBC(g.marks, []byte(strings.Join(marks, "|")), []byte(marksIV))
	return head + "|" + body.String(), nil
}

// unpack splits body into the base64 ciphertext and the IV using marks.
func unpack(marks, body string) (string, []byte, error) {
	bad := func(msg string) error { return model.NewError(model.KindDecode, "KF-GAU-004", msg) }

	var data strings.Builder
	iv := make([]byte, IVSize)
	var seen [IVSize]bool
	offset := 0
	for _, m := range strings.Split(marks, "|") {
		if len(m) < 3 {
			continue
		}
		chunk, err := strconv.Atoi(m[len(m)-2:])
		if err != nil || chunk < 0 {
			return "", nil, bad(fmt.Sprintf("invalid mark %q", m))
		}
		indices := m[:len(m)-2]
		end := offset + chunk
		if end+len(indices) > len(body) {
			return "", nil, bad("marks exceed payload")
		}
		data.WriteString(body[offset:end])
		for i := 0; i < len(indices); i++ {
			idx := int(indices[i]) - '0'
			if idx < 0 || idx >= IVSize || seen[idx] {
				return "", nil, bad(fmt.Sprintf("invalid IV index in mark %q", m))
			}
			iv[idx] = body[end+i]
			seen[idx] = true
		}
		offset = end + len(indices)
	}
	for _, ok := range seen {
		if !ok {
			return "", nil, bad("incomplete IV")
		}
	}
	data.WriteString(body[offset:])
	return data.String(), iv, nil
}

// randIntn returns a uniform int in [0, n) for 0 < n <= 256, one byte at a
// time with rejection.
func randIntn(r io.Reader, n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	limit := 256 - 256%n
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, model.WrapError(model.KindInternal, "KF-GAU-003", "read random bytes", err)
		}
		if int(b[0]) < limit {
			return int(b[0]) % n, nil
		}
	}
}

func encryptCBC(block cipher.Block, plain, iv []byte) string {
	pad := block.BlockSize() - len(plain)%block.BlockSize()
	buf := make([]byte, len(plain)+pad)
	copy(buf, plain)
	for i := len(plain); i < len(buf); i++ {
		buf[i] = byte(pad)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(buf, buf)
	return base64.StdEncoding.EncodeToString(buf)
}

func decryptCBC(block cipher.Block, b64 string, iv []byte) ([]byte, error) {
	buf, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	size := block.BlockSize()
	if len(buf) == 0 || len(buf)%size != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a positive multiple of %d", len(buf), size)
	}
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(buf, buf)
	pad := int(buf[len(buf)-1])
	if pad == 0 || pad > size {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range buf[len(buf)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return buf[:len(buf)-pad], nil
}
