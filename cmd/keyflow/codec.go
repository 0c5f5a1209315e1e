package main

import (
	"flag"
	"fmt"

	"xdao.co/keyflow/baseflow"
)

func (c *cli) cmdConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	var from, to int
	fs.IntVar(&from, "from", 16, "Base of the input value (2..62)")
	fs.IntVar(&to, "to", 10, "Base of the output value (2..62)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.errOut, "usage: keyflow convert [--from <base>] [--to <base>] <value>")
		return 2
	}

	codec, err := baseflow.New(fs.Arg(0), from)
	if err != nil {
		return c.fail("convert", err)
	}
	s, err := codec.To(to)
	if err != nil {
		return c.fail("convert", err)
	}
	_, _ = fmt.Fprintln(c.out, s)
	return 0
}

func (c *cli) cmdAlpha(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(c.errOut, "usage: keyflow alpha encode <hex> | keyflow alpha decode <letters>")
		return 2
	}
	switch args[0] {
	case "encode":
		codec, err := baseflow.New(args[1], 16)
		if err != nil {
			return c.fail("alpha encode", err)
		}
		s, err := codec.ToAlpha()
		if err != nil {
			return c.fail("alpha encode", err)
		}
		_, _ = fmt.Fprintln(c.out, s)
		return 0
	case "decode":
		codec, err := baseflow.FromAlpha(args[1])
		if err != nil {
			return c.fail("alpha decode", err)
		}
		_, _ = fmt.Fprintln(c.out, codec.Hex())
		return 0
	default:
		fmt.Fprintf(c.errOut, "unknown alpha subcommand: %s\n", args[0])
		return 2
	}
}
