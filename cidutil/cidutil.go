// Package cidutil derives content identifiers used as public key fingerprints.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns a CIDv1 using the "raw" multicodec and a sha2-256 multihash of data.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// String is Sum rendered in the default multibase (base32, "b" prefix).
func String(data []byte) (string, error) {
	c, err := Sum(data)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Parse decodes s and requires the CIDv1 raw + sha2-256 shape produced by Sum.
func Parse(s string) (cid.Cid, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, err
	}
	p := c.Prefix()
	if p.Version != 1 || p.Codec != cid.Raw || p.MhType != multihash.SHA2_256 {
		return cid.Undef, fmt.Errorf("cid %s is not CIDv1 raw sha2-256", s)
	}
	return c, nil
}

// Matches reports whether s is the Sum of data.
func Matches(s string, data []byte) (bool, error) {
	want, err := Parse(s)
	if err != nil {
		return false, err
	}
	got, err := Sum(data)
	if err != nil {
		return false, err
	}
	return want.Equals(got), nil
}
