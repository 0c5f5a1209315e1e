package baseflow

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"xdao.co/keyflow/model"
)

// CapacityBits is the width of the Numeral Value used by every non-hex conversion.
const CapacityBits = 256

// maxHexDigits is the number of significant hex digits that fit in CapacityBits.
const maxHexDigits = CapacityBits / 4

// Codec holds one Numeral Value in canonical lowercase hex form.
//
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	hex string
}

// New parses value as a number written in base.
//
// Base 16 accepts an optional 0x prefix, folds case and stores the digits as
// given, without any width limit. Every other base in [MinBase, MaxBase] is
// parsed most-significant digit first into a CapacityBits-wide value.
func New(value string, base int) (*Codec, error) {
	if base == 16 {
		hex := value
		if len(hex) >= 2 && hex[0] == '0' && (hex[1] == 'x' || hex[1] == 'X') {
			hex = hex[2:]
		}
		hex = strings.ToLower(hex)
		if hex == "" {
			return nil, model.NewError(model.KindEmptyInput, "KF-INPUT-001", "empty string cannot be converted")
		}
		for i := 0; i < len(hex); i++ {
			if _, ok := DigitValue(hex[i], 16); !ok {
				return nil, model.NewError(model.KindInvalidCharacter, "KF-CHAR-002",
					fmt.Sprintf("invalid hex string: character %q", hex[i]))
			}
		}
		return &Codec{hex: hex}, nil
	}
	if !validBase(base) {
		return nil, invalidBase(base)
	}
	v, err := parseDigits(value, base)
	if err != nil {
		return nil, err
	}
	return fromValue(v), nil
}

// FromUint256 returns a Codec holding v.
func FromUint256(v *uint256.Int) *Codec {
	if v == nil {
		v = new(uint256.Int)
	}
	return fromValue(v)
}

func fromValue(v *uint256.Int) *Codec {
	return &Codec{hex: strings.TrimPrefix(v.Hex(), "0x")}
}

// Hex returns the canonical hex digits, exactly as To(16) would.
func (c *Codec) Hex() string {
	return c.hex
}

func (c *Codec) String() string {
	return c.hex
}

// To renders the value in base.
//
// To(16) returns the stored hex unchanged and never fails on width. Other
// bases fail with an Overflow error when the stored hex is wider than
// CapacityBits.
func (c *Codec) To(base int) (string, error) {
	if base == 16 {
		return c.hex, nil
	}
	if !validBase(base) {
		return "", invalidBase(base)
	}
	v, err := c.Uint256()
	if err != nil {
		return "", err
	}
	return renderDigits(v, base), nil
}

// Uint256 returns the value as a 256-bit integer.
func (c *Codec) Uint256() (*uint256.Int, error) {
	sig := strings.TrimLeft(c.hex, "0")
	if len(sig) > maxHexDigits {
		return nil, model.NewError(model.KindOverflow, "KF-OVF-002",
			fmt.Sprintf("value has %d significant hex digits, capacity is %d", len(sig), maxHexDigits))
	}
	if sig == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromHex("0x" + sig)
	if err != nil {
		return nil, model.WrapError(model.KindInternal, "KF-INT-001", "canonical hex rejected", err)
	}
	return v, nil
}

func parseDigits(s string, base int) (*uint256.Int, error) {
	if s == "" {
		return nil, model.NewError(model.KindEmptyInput, "KF-INPUT-001", "empty string cannot be converted")
	}
	b := uint256.NewInt(uint64(base))
	result := new(uint256.Int)
	digit := new(uint256.Int)
	for i := 0; i < len(s); i++ {
		d, ok := DigitValue(s[i], base)
		if !ok {
			return nil, model.NewError(model.KindInvalidCharacter, "KF-CHAR-001",
				fmt.Sprintf("invalid character %q for base %d", s[i], base))
		}
		if _, overflow := result.MulOverflow(result, b); overflow {
			return nil, overflowErr()
		}
		digit.SetUint64(uint64(d))
		if _, overflow := result.AddOverflow(result, digit); overflow {
			return nil, overflowErr()
		}
	}
	return result, nil
}

func renderDigits(v *uint256.Int, base int) string {
	if v.IsZero() {
		return "0"
	}
	b := uint256.NewInt(uint64(base))
	n := new(uint256.Int).Set(v)
	// 256 bits need at most 256 binary digits.
	buf := make([]byte, CapacityBits)
	pos := len(buf)
	for !n.IsZero() {
		q, r := new(uint256.Int), new(uint256.Int)
		q.DivMod(n, b, r)
		pos--
		buf[pos] = Digits[r.Uint64()]
		n = q
	}
	return string(buf[pos:])
}

func invalidBase(base int) error {
	return model.NewError(model.KindInvalidBase, "KF-BASE-001",
		fmt.Sprintf("base must be between %d and %d, got %d", MinBase, MaxBase, base))
}

func overflowErr() error {
	return model.NewError(model.KindOverflow, "KF-OVF-001",
		fmt.Sprintf("overflow during conversion: value exceeds %d bits", CapacityBits))
}
