package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"xdao.co/keyflow/model"
)

// stdin is read by commands that accept "-" as a file argument.
var stdin io.Reader = os.Stdin

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cli struct {
	cfg    *Config
	log    *zap.SugaredLogger
	out    io.Writer
	errOut io.Writer
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}
	switch args[0] {
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	}

	cfg, dotenv, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}
	c := &cli{cfg: cfg, log: newLogger(cfg.LogLevel, errOut), out: out, errOut: errOut}
	defer func() { _ = c.log.Sync() }()
	if dotenv != "" {
		c.log.Debugw("loaded .env file", "path", dotenv)
	}

	switch args[0] {
	case "convert":
		return c.cmdConvert(args[1:])
	case "alpha":
		return c.cmdAlpha(args[1:])
	case "key":
		return c.cmdKey(args[1:])
	case "challenge":
		return c.cmdChallenge(args[1:])
	case "sign":
		return c.cmdSign(args[1:])
	case "verify":
		return c.cmdVerify(args[1:])
	case "random":
		return c.cmdRandom(args[1:])
	case "obfus":
		return c.cmdObfus(args[1:])
	case "shape":
		return c.cmdShape(args[1:])
	case "gauldoth":
		return c.cmdGauldoth(args[1:])
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "keyflow: numeral codec and keyed signing CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  keyflow convert [--from <base>] [--to <base>] <value>")
	fmt.Fprintln(w, "  keyflow alpha encode <hex>")
	fmt.Fprintln(w, "  keyflow alpha decode <letters>")
	fmt.Fprintln(w, "  keyflow key generate")
	fmt.Fprintln(w, "  keyflow key pack <hex>")
	fmt.Fprintln(w, "  keyflow key unpack <packed>")
	fmt.Fprintln(w, "  keyflow key derive [--master <packed>] [--info <context>]")
	fmt.Fprintln(w, "  keyflow key fingerprint <packed>")
	fmt.Fprintln(w, "  keyflow challenge")
	fmt.Fprintln(w, "  keyflow sign --key <packed> --challenge <c> --params <p> [--json] [--window <n>]")
	fmt.Fprintln(w, "  keyflow verify --key <packed> --challenge <c> --params <p> [--json] --signature <hex> [--strict|--drift|--mode permissive|strict]")
	fmt.Fprintln(w, "  keyflow random [--length <n>] [--mode alpha|alpha36]")
	fmt.Fprintln(w, "  keyflow obfus <text>")
	fmt.Fprintln(w, "  keyflow shape [--msgpack] <file.json|->")
	fmt.Fprintln(w, "  keyflow gauldoth encrypt [--key <k>] [--iv-key <k>] [--iv <8 chars>] [--json] <text>")
	fmt.Fprintln(w, "  keyflow gauldoth decrypt [--key <k>] [--iv-key <k>] <token>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - bases range over 2..62 with digits 0-9a-zA-Z")
	fmt.Fprintln(w, "  - key derive reads KEYFLOW_MASTER_KEY and KEYFLOW_KEY_INFO when flags are absent")
	fmt.Fprintln(w, "  - verify tolerates one window of drift unless --strict or KEYFLOW_STRICT=true")
	fmt.Fprintln(w, "  - verify exits 1 when the signature does not match")
	fmt.Fprintln(w, "  - gauldoth reads KEYFLOW_GAULDOTH_KEY and KEYFLOW_GAULDOTH_IV_KEY when flags are absent")
	fmt.Fprintln(w, "  - .env is loaded from KEYFLOW_CONFIG_DIR (default .)")
}

// fail reports err and returns the runtime failure exit code.
func (c *cli) fail(what string, err error) int {
	c.log.Debugw("command failed", "op", what, "kind", string(model.KindOf(err)), "rule", model.RuleID(err))
	fmt.Fprintf(c.errOut, "%s: %v\n", what, err)
	return 1
}
