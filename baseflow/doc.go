// Package baseflow converts numbers between positional numeral systems.
//
// A Codec stores one non-negative value in canonical lowercase hex and renders
// it in any base from 2 to 62 using the digit alphabet 0-9, a-z, A-Z. Non-hex
// conversions are bounded by a 256-bit capacity; the base-16 path is not.
//
// The package also provides a 26-letter alphabetic encoding (FromAlpha,
// ToAlpha) built on base 26. It is positional, so leading "a" letters
// (digit zero) do not survive a round trip.
package baseflow
