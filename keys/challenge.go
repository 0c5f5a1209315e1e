package keys

import (
	"crypto/rand"
	"io"

	"github.com/google/uuid"

	"xdao.co/keyflow/model"
)

// NewChallenge returns a random UUIDv4 string for use as a signing challenge.
// A nil r uses crypto/rand.Reader.
func NewChallenge(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", model.WrapError(model.KindKey, "KF-KEY-003", "read random challenge bytes", err)
	}
	return id.String(), nil
}
