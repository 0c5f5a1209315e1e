package model

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindInvalidBase      Kind = "InvalidBase"
	KindEmptyInput       Kind = "EmptyInput"
	KindInvalidCharacter Kind = "InvalidCharacter"
	KindOverflow         Kind = "Overflow"
	KindDecode           Kind = "Decode"
	KindSerialization    Kind = "Serialization"
	KindKey              Kind = "Key"
	KindInternal         Kind = "Internal"
)

// Error is the structured error returned by every keyflow package.
//
// RuleID is a stable identifier (e.g., KF-BASE-001, KF-OVF-002, KF-KEY-001)
// naming the rejected condition. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error without a cause.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError returns a structured error carrying cause. A nil cause behaves like NewError.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
//
// Every *Error in the chain is considered, so a Key error wrapping an
// Overflow error matches both kinds.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the Kind of the outermost *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
