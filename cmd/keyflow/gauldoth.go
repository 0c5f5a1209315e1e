package main

import (
	"encoding/json"
	"flag"
	"fmt"

	"xdao.co/keyflow/gauldoth"
)

const (
	gauldothEncryptUsage = "usage: keyflow gauldoth encrypt [--key <k>] [--iv-key <k>] [--iv <8 chars>] [--json] <text>"
	gauldothDecryptUsage = "usage: keyflow gauldoth decrypt [--key <k>] [--iv-key <k>] <token>"
)

func (c *cli) cmdGauldoth(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(c.errOut, gauldothEncryptUsage)
		fmt.Fprintln(c.errOut, gauldothDecryptUsage)
		return 2
	}
	switch args[0] {
	case "encrypt":
		return c.cmdGauldothEncrypt(args[1:])
	case "decrypt":
		return c.cmdGauldothDecrypt(args[1:])
	default:
		fmt.Fprintf(c.errOut, "unknown gauldoth subcommand: %s\n", args[0])
		return 2
	}
}

// gauldothFlags registers the shared key flags with config defaults.
func (c *cli) gauldothFlags(fs *flag.FlagSet) *gauldoth.Options {
	opts := &gauldoth.Options{}
	fs.StringVar(&opts.Key, "key", c.cfg.GauldothKey, "Payload key material (or KEYFLOW_GAULDOTH_KEY)")
	fs.StringVar(&opts.IVKey, "iv-key", c.cfg.GauldothIVKey, "Marks key material (or KEYFLOW_GAULDOTH_IV_KEY)")
	return opts
}

func (c *cli) cmdGauldothEncrypt(args []string) int {
	fs := flag.NewFlagSet("gauldoth encrypt", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	opts := c.gauldothFlags(fs)
	var iv string
	var asJSON bool
	fs.StringVar(&iv, "iv", "", "Fixed 8-character IV (random when empty)")
	fs.BoolVar(&asJSON, "json", false, "Parse <text> as JSON and encrypt its canonical encoding")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || opts.Key == "" || opts.IVKey == "" {
		fmt.Fprintln(c.errOut, gauldothEncryptUsage)
		return 2
	}

	var source any = fs.Arg(0)
	if asJSON {
		var v any
		if err := json.Unmarshal([]byte(fs.Arg(0)), &v); err != nil {
			fmt.Fprintf(c.errOut, "invalid JSON: %v\n", err)
			return 2
		}
		source = v
	}

	g, err := gauldoth.New(*opts)
	if err != nil {
		return c.fail("gauldoth encrypt", err)
	}
	token, err := g.EncryptWithIV(nil, source, iv)
	if err != nil {
		return c.fail("gauldoth encrypt", err)
	}
	c.log.Debugw("encrypted token", "length", len(token))
	_, _ = fmt.Fprintln(c.out, token)
	return 0
}

func (c *cli) cmdGauldothDecrypt(args []string) int {
	fs := flag.NewFlagSet("gauldoth decrypt", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	opts := c.gauldothFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || opts.Key == "" || opts.IVKey == "" {
		fmt.Fprintln(c.errOut, gauldothDecryptUsage)
		return 2
	}

	g, err := gauldoth.New(*opts)
	if err != nil {
		return c.fail("gauldoth decrypt", err)
	}
	plain, err := g.Decrypt(fs.Arg(0))
	if err != nil {
		return c.fail("gauldoth decrypt", err)
	}
	_, _ = fmt.Fprintln(c.out, plain)
	return 0
}
