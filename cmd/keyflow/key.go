package main

import (
	"flag"
	"fmt"
	"io"

	"xdao.co/keyflow/hexutil"
	"xdao.co/keyflow/keys"
)

func (c *cli) cmdKey(args []string) int {
	if len(args) == 0 {
		printKeyUsage(c.errOut)
		return 2
	}
	switch args[0] {
	case "generate":
		return c.cmdKeyGenerate(args[1:])
	case "pack":
		return c.cmdKeyPack(args[1:])
	case "unpack":
		return c.cmdKeyUnpack(args[1:])
	case "derive":
		return c.cmdKeyDerive(args[1:])
	case "fingerprint":
		return c.cmdKeyFingerprint(args[1:])
	case "help", "-h", "--help":
		printKeyUsage(c.out)
		return 0
	default:
		fmt.Fprintf(c.errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(c.errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: keyflow key <subcommand> ...")
	fmt.Fprintln(w, "subcommands: generate, pack, unpack, derive, fingerprint")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  keyflow key generate")
	fmt.Fprintln(w, "  keyflow key pack <hex>")
	fmt.Fprintln(w, "  keyflow key unpack <packed>")
	fmt.Fprintln(w, "  keyflow key derive [--master <packed>] [--info <context>]")
	fmt.Fprintln(w, "  keyflow key fingerprint <packed>")
}

func (c *cli) cmdKeyGenerate(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(c.errOut, "usage: keyflow key generate")
		return 2
	}
	packed, err := keys.GenerateMasterKey(nil)
	if err != nil {
		return c.fail("key generate", err)
	}
	c.logFingerprint("generated master key", packed)
	_, _ = fmt.Fprintln(c.out, packed)
	return 0
}

func (c *cli) cmdKeyPack(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.errOut, "usage: keyflow key pack <hex>")
		return 2
	}
	raw, err := hexutil.Hex2Bin(args[0])
	if err != nil {
		return c.fail("key pack", err)
	}
	packed, err := keys.PackKey(raw)
	if err != nil {
		return c.fail("key pack", err)
	}
	_, _ = fmt.Fprintln(c.out, packed)
	return 0
}

func (c *cli) cmdKeyUnpack(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.errOut, "usage: keyflow key unpack <packed>")
		return 2
	}
	raw, err := keys.UnpackKey(args[0])
	if err != nil {
		return c.fail("key unpack", err)
	}
	_, _ = fmt.Fprintln(c.out, hexutil.Bin2Hex(raw))
	return 0
}

func (c *cli) cmdKeyDerive(args []string) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	var master, info string
	fs.StringVar(&master, "master", "", "Packed master key (default $KEYFLOW_MASTER_KEY)")
	fs.StringVar(&info, "info", c.cfg.KeyInfo, "Derivation context (default $KEYFLOW_KEY_INFO)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(c.errOut, "usage: keyflow key derive [--master <packed>] [--info <context>]")
		return 2
	}
	if master == "" {
		master = c.cfg.MasterKey
	}
	if master == "" {
		fmt.Fprintln(c.errOut, "missing --master (or KEYFLOW_MASTER_KEY)")
		return 2
	}

	derived, err := keys.DeriveKey(master, info)
	if err != nil {
		return c.fail("key derive", err)
	}
	c.logFingerprint("derived key", derived, "info_len", len(info))
	_, _ = fmt.Fprintln(c.out, derived)
	return 0
}

func (c *cli) cmdKeyFingerprint(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.errOut, "usage: keyflow key fingerprint <packed>")
		return 2
	}
	fp, err := keys.Fingerprint(args[0])
	if err != nil {
		return c.fail("key fingerprint", err)
	}
	_, _ = fmt.Fprintln(c.out, fp)
	return 0
}

func (c *cli) cmdChallenge(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(c.errOut, "usage: keyflow challenge")
		return 2
	}
	ch, err := keys.NewChallenge(nil)
	if err != nil {
		return c.fail("challenge", err)
	}
	_, _ = fmt.Fprintln(c.out, ch)
	return 0
}

// logFingerprint names a key in the log without revealing it.
func (c *cli) logFingerprint(msg, packed string, kv ...any) {
	fp, err := keys.Fingerprint(packed)
	if err != nil {
		c.log.Warnw("fingerprint failed", "err", err)
		return
	}
	c.log.Infow(msg, append([]any{"fingerprint", fp}, kv...)...)
}
