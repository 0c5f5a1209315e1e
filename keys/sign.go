package keys

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"xdao.co/keyflow/compliance"
)

// Sign returns the hex HMAC-SHA256 signature of the canonical message for the
// current time window.
func Sign(derivedPacked, challenge string, params any) (string, error) {
	return SignWindow(derivedPacked, challenge, params, Window(time.Now()))
}

// SignWindow is Sign for an explicit time window.
func SignWindow(derivedPacked, challenge string, params any, window uint64) (string, error) {
	key, err := UnpackKey(derivedPacked)
	if err != nil {
		return "", err
	}
	msg, err := CanonicalMessage(challenge, params, window)
	if err != nil {
		return "", err
	}
	return mac(key, msg), nil
}

// Options controls verification.
//
// The zero value verifies against the wall clock in compliance.Permissive
// mode, which also accepts the previous time window.
type Options struct {
	Mode compliance.Mode
	// Now overrides the clock used to pick the current window.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Verify reports whether signature was produced by Sign for the current time
// window, or for the previous one when allowDrift is set.
//
// A mismatch is false with a nil error. Malformed keys and unserializable
// params are errors.
func Verify(derivedPacked, challenge string, params any, signature string, allowDrift bool) (bool, error) {
	mode := compliance.Strict
	if allowDrift {
		mode = compliance.Permissive
	}
	return VerifyWithOptions(derivedPacked, challenge, params, signature, Options{Mode: mode})
}

// VerifyWithOptions is Verify with an explicit compliance mode and clock.
func VerifyWithOptions(derivedPacked, challenge string, params any, signature string, opts Options) (bool, error) {
	opts = opts.withDefaults()
	key, err := UnpackKey(derivedPacked)
	if err != nil {
		return false, err
	}
	p, err := ParamsString(params)
	if err != nil {
		return false, err
	}

	now := Window(opts.Now())
	if matches(key, p, challenge, now, signature) {
		return true, nil
	}
	if opts.Mode.AllowsDrift() && now > 0 && matches(key, p, challenge, now-1, signature) {
		return true, nil
	}
	return false, nil
}

func matches(key []byte, params, challenge string, window uint64, signature string) bool {
	// params is already textual; CanonicalMessage cannot fail on a string.
	msg, _ := CanonicalMessage(challenge, params, window)
	return hmac.Equal([]byte(mac(key, msg)), []byte(signature))
}

func mac(key []byte, msg string) string {
	h := hmac.New(sha256.New, key)
	_, _ = h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}
