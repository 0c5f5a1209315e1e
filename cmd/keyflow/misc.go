package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"xdao.co/keyflow/hexutil"
	"xdao.co/keyflow/obfus"
	"xdao.co/keyflow/paramshape"
	"xdao.co/keyflow/randalpha"
)

func (c *cli) cmdRandom(args []string) int {
	fs := flag.NewFlagSet("random", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	var length int
	var modeName string
	fs.IntVar(&length, "length", 32, "Number of characters")
	fs.StringVar(&modeName, "mode", "alpha", "Alphabet: alpha (0-9A-Za-z) or alpha36 (0-9A-Z)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 || length < 0 {
		fmt.Fprintln(c.errOut, "usage: keyflow random [--length <n>] [--mode alpha|alpha36]")
		return 2
	}
	mode, err := randalpha.ParseMode(modeName)
	if err != nil {
		fmt.Fprintf(c.errOut, "invalid --mode: %v\n", err)
		return 2
	}

	s, err := randalpha.Random(nil, length, mode)
	if err != nil {
		return c.fail("random", err)
	}
	_, _ = fmt.Fprintln(c.out, s)
	return 0
}

func (c *cli) cmdObfus(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.errOut, "usage: keyflow obfus <text>")
		return 2
	}
	code, err := obfus.GenerateCode(nil, args[0])
	if err != nil {
		return c.fail("obfus", err)
	}
	_, _ = fmt.Fprintln(c.out, code)
	return 0
}

func (c *cli) cmdShape(args []string) int {
	fs := flag.NewFlagSet("shape", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	var asMsgpack bool
	fs.BoolVar(&asMsgpack, "msgpack", false, "Print the msgpack encoding as hex instead of JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.errOut, "usage: keyflow shape [--msgpack] <file.json|->")
		return 2
	}

	b, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(c.errOut, "read input: %v\n", err)
		return 1
	}
	shape, err := paramshape.SimplifyJSON(b)
	if err != nil {
		return c.fail("shape", err)
	}

	if asMsgpack {
		enc, err := shape.Encode()
		if err != nil {
			return c.fail("shape", err)
		}
		_, _ = fmt.Fprintln(c.out, hexutil.Bin2Hex(enc))
		return 0
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(shape); err != nil {
		return c.fail("shape", err)
	}
	_, _ = io.WriteString(c.out, buf.String())
	return 0
}

func readInput(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
