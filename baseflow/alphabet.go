package baseflow

// Digits is the ordered digit alphabet. The symbol at position i denotes digit
// value i; base b uses the first b symbols.
const Digits = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	MinBase = 2
	MaxBase = len(Digits)
)

// digitValues maps a byte to its digit value, or -1 when the byte is not in Digits.
var digitValues = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Digits); i++ {
		t[Digits[i]] = int8(i)
	}
	return t
}()

// DigitValue returns the value of c in the digit alphabet and whether c is a
// valid digit for base.
func DigitValue(c byte, base int) (int, bool) {
	v := int(digitValues[c])
	if v < 0 || v >= base {
		return 0, false
	}
	return v, true
}

func validBase(base int) bool {
	return base >= MinBase && base <= MaxBase
}
