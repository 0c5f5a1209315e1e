package keys

import (
	"xdao.co/keyflow/cidutil"
	"xdao.co/keyflow/model"
)

// Fingerprint returns a public identifier for a packed key: the CIDv1
// (raw codec, sha2-256) of its KeySize bytes. The key cannot be recovered
// from it, so it is safe to log or store alongside signatures.
func Fingerprint(packed string) (string, error) {
	raw, err := UnpackKey(packed)
	if err != nil {
		return "", err
	}
	fp, err := cidutil.String(raw)
	if err != nil {
		return "", model.WrapError(model.KindInternal, "KF-INT-003", "fingerprint", err)
	}
	return fp, nil
}

// MatchFingerprint reports whether fp is the Fingerprint of packed.
func MatchFingerprint(packed, fp string) (bool, error) {
	raw, err := UnpackKey(packed)
	if err != nil {
		return false, err
	}
	ok, err := cidutil.Matches(fp, raw)
	if err != nil {
		return false, model.WrapError(model.KindDecode, "KF-FP-001", "invalid fingerprint", err)
	}
	return ok, nil
}
