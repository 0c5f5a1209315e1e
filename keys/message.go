package keys

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"xdao.co/keyflow/model"
)

// WindowSeconds is the width of one signature time window.
const WindowSeconds = 10

// Window returns the time window containing t: floor(unix seconds / 10).
// Instants before the Unix epoch map to window 0.
func Window(t time.Time) uint64 {
	sec := t.Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec / WindowSeconds)
}

// CanonicalMessage builds the signed message "params|challenge|window".
//
// A string params value is used as-is. []byte and json.RawMessage values are
// taken as JSON text and compacted. Anything else is JSON-encoded without
// HTML escaping, so the output matches JSON.stringify for the same document.
// Go maps encode with sorted keys; pass a string or a struct when a different
// key order is required.
func CanonicalMessage(challenge string, params any, window uint64) (string, error) {
	p, err := ParamsString(params)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(p) + len(challenge) + 22)
	b.WriteString(p)
	b.WriteByte('|')
	b.WriteString(challenge)
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(window, 10))
	return b.String(), nil
}

// ParamsString returns the textual form of params used in the canonical message.
func ParamsString(params any) (string, error) {
	switch v := params.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		return compactJSON(v)
	case []byte:
		return compactJSON(v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(params); err != nil {
		return "", model.WrapError(model.KindSerialization, "KF-SER-001", "params are not JSON serializable", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func compactJSON(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", model.WrapError(model.KindSerialization, "KF-SER-002", "params are not valid JSON", err)
	}
	return buf.String(), nil
}
