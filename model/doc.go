// Package model defines the error taxonomy shared by the keyflow packages.
//
// Every fallible operation in baseflow, keys, hexutil, randalpha, paramshape
// and obfus returns a *Error (possibly wrapping a lower-level cause), so
// callers can branch on Kind and RuleID without parsing messages.
package model
