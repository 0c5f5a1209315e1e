// Package keys packs, derives and uses the symmetric keys of the keyflow
// challenge-response protocol.
//
// Keys travel as packed strings: the base-62 rendering of their 32 bytes.
// A master key (GenerateMasterKey) is expanded per context with DeriveKey,
// and the derived key signs a canonical "params|challenge|window" message
// with HMAC-SHA256 (Sign, SignWindow). Verify recomputes the signature for
// the current 10-second window and, unless strict, the previous one.
//
// All functions are stateless. Randomness is read from a caller-supplied
// io.Reader and verification time from Options.Now, so both can be fixed in
// tests.
package keys
