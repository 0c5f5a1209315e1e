package baseflow

import (
	"fmt"

	"xdao.co/keyflow/model"
)

// alphaBase is the radix behind the letter encoding: one digit per letter a-z.
const alphaBase = 26

// FromAlpha decodes a string of lowercase letters as a base-26 number.
//
// Letters a-j stand for digits 0-9 and k-z for digits a-p, so "a" is zero
// and "ab" is the value 1.
func FromAlpha(alpha string) (*Codec, error) {
	mapped := make([]byte, len(alpha))
	for i := 0; i < len(alpha); i++ {
		ch := alpha[i]
		switch {
		case ch >= 'a' && ch <= 'j':
			mapped[i] = '0' + (ch - 'a')
		case ch >= 'k' && ch <= 'z':
			mapped[i] = 'a' + (ch - 'k')
		default:
			return nil, model.NewError(model.KindInvalidCharacter, "KF-CHAR-003",
				fmt.Sprintf("invalid alpha character %q, expected a-z", rune(ch)))
		}
	}
	v, err := parseDigits(string(mapped), alphaBase)
	if err != nil {
		return nil, err
	}
	return fromValue(v), nil
}

// ToAlpha renders the value with the letter encoding used by FromAlpha.
//
// Leading zero digits are not rendered, so FromAlpha("ab").ToAlpha() is "b".
// The zero value renders as "a".
func (c *Codec) ToAlpha() (string, error) {
	s, err := c.To(alphaBase)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
			out[i] = 'a' + (ch - '0')
		case ch >= 'a' && ch <= 'p':
			out[i] = 'k' + (ch - 'a')
		default:
			return "", model.NewError(model.KindInternal, "KF-INT-002",
				fmt.Sprintf("unexpected base26 digit %q", ch))
		}
	}
	return string(out), nil
}
