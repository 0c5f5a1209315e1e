package main

import (
	"fmt"

	"xdao.co/keyflow/baseflow"
	"xdao.co/keyflow/hexutil"
	"xdao.co/keyflow/keys"
)

// fixedWindow is 2024-11-16T23:33:20Z divided into ten-second windows.
const fixedWindow uint64 = 173180000

func mustMaster(start byte) []byte {
	raw := make([]byte, keys.KeySize)
	for i := range raw {
		raw[i] = start + byte(i)
	}
	return raw
}

func main() {
	codec, err := baseflow.New("ff", 16)
	if err != nil {
		panic(err)
	}
	for _, base := range []int{2, 8, 10, 26, 36, 62} {
		s, err := codec.To(base)
		if err != nil {
			panic(err)
		}
		fmt.Printf("CODEC ff base=%d %s\n", base, s)
	}
	alpha, err := codec.ToAlpha()
	if err != nil {
		panic(err)
	}
	fmt.Printf("ALPHA ff %s\n", alpha)

	raw := mustMaster(0x10)
	master, err := keys.PackKey(raw)
	if err != nil {
		panic(err)
	}
	fmt.Printf("MASTER_HEX=%s\n", hexutil.Bin2Hex(raw))
	fmt.Printf("MASTER=%s\n", master)

	for _, info := range []string{"", "ctx"} {
		derived, err := keys.DeriveKey(master, info)
		if err != nil {
			panic(err)
		}
		fp, err := keys.Fingerprint(derived)
		if err != nil {
			panic(err)
		}
		fmt.Printf("DERIVED info=%q %s fingerprint=%s\n", info, derived, fp)
	}

	derived, err := keys.DeriveKey(master, "ctx")
	if err != nil {
		panic(err)
	}
	cases := []struct {
		challenge string
		params    any
	}{
		{"chal", map[string]any{"a": 1}},
		{"CHAL", "payload"},
	}
	for _, tc := range cases {
		msg, err := keys.CanonicalMessage(tc.challenge, tc.params, fixedWindow)
		if err != nil {
			panic(err)
		}
		sig, err := keys.SignWindow(derived, tc.challenge, tc.params, fixedWindow)
		if err != nil {
			panic(err)
		}
		fmt.Printf("SIGN message=%q signature=%s\n", msg, sig)
	}
}
