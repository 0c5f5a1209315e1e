package compliance

import "fmt"

// Mode selects how strictly signature verification treats clock drift.
//
// Permissive (the zero value) accepts a signature from the current or the
// immediately preceding time window. Strict accepts the current window only.
type Mode int

const (
	Permissive Mode = iota
	Strict
)

// AllowsDrift reports whether the previous time window is accepted.
func (m Mode) AllowsDrift() bool {
	return m == Permissive
}

func (m Mode) String() string {
	switch m {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Parse maps "permissive" or "strict" (or "" for Permissive) to a Mode.
func Parse(s string) (Mode, error) {
	switch s {
	case "", "permissive":
		return Permissive, nil
	case "strict":
		return Strict, nil
	default:
		return Permissive, fmt.Errorf("unknown compliance mode %q", s)
	}
}
