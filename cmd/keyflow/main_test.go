package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vectorMasterHex = "101112131415161718191a1b1c1d1e1f202122232425262728292a2b2c2d2e2f"
	vectorMaster    = "3Odh4MevfVP7U7ed6uZPf5EhpRbi5ahUMy7ubPoqijZ"
	vectorDerived   = "mjKAKlbXuNntdldAfUiFQLuyFNSvnNtVOmcNJQLerP3"
)

// runCLI isolates the config directory so a stray .env never leaks in.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	if os.Getenv(configDirEnv) == "" {
		t.Setenv(configDirEnv, t.TempDir())
	}
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage:")

	code, stdout, _ := runCLI(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "keyflow verify")

	code, _, stderr = runCLI(t, "nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown command: nope")
}

func TestConvert(t *testing.T) {
	code, stdout, _ := runCLI(t, "convert", "--from", "16", "--to", "62", "ff")
	require.Equal(t, 0, code)
	assert.Equal(t, "47\n", stdout)

	code, stdout, _ = runCLI(t, "convert", "ff")
	require.Equal(t, 0, code)
	assert.Equal(t, "255\n", stdout)

	code, _, stderr := runCLI(t, "convert", "--from", "10", "z")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "convert:")

	code, _, _ = runCLI(t, "convert", "--to", "63", "ff")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "convert")
	assert.Equal(t, 2, code)
}

func TestAlpha(t *testing.T) {
	code, stdout, _ := runCLI(t, "alpha", "encode", "ff")
	require.Equal(t, 0, code)
	assert.Equal(t, "jv\n", stdout)

	code, stdout, _ = runCLI(t, "alpha", "decode", "ab")
	require.Equal(t, 0, code)
	assert.Equal(t, "1\n", stdout)

	code, _, _ = runCLI(t, "alpha", "decode", "AB")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "alpha", "flip", "x")
	assert.Equal(t, 2, code)
}

func TestKeyPackUnpackDerive(t *testing.T) {
	code, stdout, _ := runCLI(t, "key", "pack", vectorMasterHex)
	require.Equal(t, 0, code)
	assert.Equal(t, vectorMaster+"\n", stdout)

	code, stdout, _ = runCLI(t, "key", "unpack", vectorMaster)
	require.Equal(t, 0, code)
	assert.Equal(t, vectorMasterHex+"\n", stdout)

	code, stdout, _ = runCLI(t, "key", "derive", "--master", vectorMaster, "--info", "ctx")
	require.Equal(t, 0, code)
	assert.Equal(t, vectorDerived+"\n", stdout)

	code, _, stderr := runCLI(t, "key", "derive")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "KEYFLOW_MASTER_KEY")

	code, _, _ = runCLI(t, "key", "unpack", "not a key")
	assert.Equal(t, 1, code)
}

func TestKeyDerive_FromEnvironment(t *testing.T) {
	t.Setenv("KEYFLOW_MASTER_KEY", vectorMaster)
	t.Setenv("KEYFLOW_KEY_INFO", "ctx")

	code, stdout, _ := runCLI(t, "key", "derive")
	require.Equal(t, 0, code)
	assert.Equal(t, vectorDerived+"\n", stdout)

	// Flags override the environment.
	code, stdout, _ = runCLI(t, "key", "derive", "--info", "")
	require.Equal(t, 0, code)
	assert.NotEqual(t, vectorDerived+"\n", stdout)
}

func TestKeyDerive_FromDotEnv(t *testing.T) {
	dir := t.TempDir()
	env := "KEYFLOW_MASTER_KEY=" + vectorMaster + "\nKEYFLOW_KEY_INFO=ctx\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Setenv(configDirEnv, dir)
	t.Cleanup(func() {
		_ = os.Unsetenv("KEYFLOW_MASTER_KEY")
		_ = os.Unsetenv("KEYFLOW_KEY_INFO")
	})

	code, stdout, _ := runCLI(t, "key", "derive")
	require.Equal(t, 0, code)
	assert.Equal(t, vectorDerived+"\n", stdout)
}

func TestKeyGenerateAndFingerprint(t *testing.T) {
	code, stdout, _ := runCLI(t, "key", "generate")
	require.Equal(t, 0, code)
	packed := strings.TrimSpace(stdout)
	assert.NotEmpty(t, packed)

	code, stdout, _ = runCLI(t, "key", "fingerprint", packed)
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "bafkrei"), stdout)
}

func TestSign_FixedWindowVector(t *testing.T) {
	code, stdout, _ := runCLI(t, "sign", "--key", vectorDerived, "--challenge", "chal",
		"--params", `{ "a": 1 }`, "--json", "--window", "173180000")
	require.Equal(t, 0, code)
	assert.Equal(t, "478b515892c2c290b70aa3736b64c023795e4e821f1bdd2341e79ec78bc120f6\n", stdout)

	code, stdout, _ = runCLI(t, "sign", "--key", vectorDerived, "--challenge", "CHAL",
		"--params", "payload", "--window", "173180000")
	require.Equal(t, 0, code)
	assert.Equal(t, "18fab8cf8d6e86b7c8c7d783304ef6e071e84c07a74fc1a3b92b712d8b091bc5\n", stdout)
}

func TestSignThenVerify(t *testing.T) {
	code, stdout, _ := runCLI(t, "sign", "--key", vectorDerived, "--challenge", "chal", "--params", "p")
	require.Equal(t, 0, code)
	sig := strings.TrimSpace(stdout)

	code, stdout, _ = runCLI(t, "verify", "--key", vectorDerived, "--challenge", "chal",
		"--params", "p", "--signature", sig, "--drift")
	require.Equal(t, 0, code)
	assert.Equal(t, "OK\n", stdout)

	code, _, stderr := runCLI(t, "verify", "--key", vectorDerived, "--challenge", "other",
		"--params", "p", "--signature", sig)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "signature mismatch")
}

func TestVerify_StaleSignature(t *testing.T) {
	code, _, _ := runCLI(t, "verify", "--key", vectorDerived, "--challenge", "chal",
		"--params", `{"a":1}`, "--json",
		"--signature", "478b515892c2c290b70aa3736b64c023795e4e821f1bdd2341e79ec78bc120f6")
	assert.Equal(t, 1, code)
}

func TestVerify_Usage(t *testing.T) {
	code, _, _ := runCLI(t, "verify", "--key", vectorDerived, "--challenge", "c", "--params", "p")
	assert.Equal(t, 2, code)

	code, _, stderr := runCLI(t, "verify", "--key", vectorDerived, "--challenge", "c",
		"--params", "p", "--signature", "00", "--strict", "--drift")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "mutually exclusive")

	code, _, _ = runCLI(t, "verify", "--key", vectorDerived, "--challenge", "c",
		"--params", "p", "--signature", "00", "--mode", "lenient")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "verify", "--key", "bad key", "--challenge", "c",
		"--params", "p", "--signature", "00")
	assert.Equal(t, 1, code)
}

func TestSign_InvalidJSONParams(t *testing.T) {
	code, _, stderr := runCLI(t, "sign", "--key", vectorDerived, "--challenge", "c",
		"--params", "{nope", "--json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "sign:")
}

func TestChallenge(t *testing.T) {
	code, stdout, _ := runCLI(t, "challenge")
	require.Equal(t, 0, code)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\n$`, stdout)
}

func TestRandom(t *testing.T) {
	code, stdout, _ := runCLI(t, "random", "--length", "12", "--mode", "alpha36")
	require.Equal(t, 0, code)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Z]{12}\n$`), stdout)

	code, _, _ = runCLI(t, "random", "--mode", "hex")
	assert.Equal(t, 2, code)
}

func TestObfus(t *testing.T) {
	code, stdout, _ := runCLI(t, "obfus", "hi")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "((k => String.fromCharCode(...["), stdout)
}

func TestShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	doc := `{"item10":1,"item2":[1,2],"Alpha":{"y":1,"x":2},"c":"<s>"}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	code, stdout, _ := runCLI(t, "shape", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "{\n"+
		"  \"Alpha\": \"[*RE:x,y*]\",\n"+
		"  \"c\": \"<s>\",\n"+
		"  \"item2\": \"[*LI:2*]\",\n"+
		"  \"item10\": 1\n"+
		"}\n", stdout)

	old := stdin
	stdin = strings.NewReader(`{"e":[]}`)
	t.Cleanup(func() { stdin = old })
	code, stdout, _ = runCLI(t, "shape", "--msgpack", "-")
	require.Equal(t, 0, code)
	assert.Equal(t, "81a165a65b2a454d2a5d\n", stdout)

	code, _, _ = runCLI(t, "shape", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 1, code)
}

func TestLogging_NeverPrintsKeyMaterial(t *testing.T) {
	t.Setenv("KEYFLOW_LOG_LEVEL", "debug")
	code, stdout, stderr := runCLI(t, "key", "derive", "--master", vectorMaster, "--info", "ctx")
	require.Equal(t, 0, code)
	assert.Equal(t, vectorDerived+"\n", stdout)
	assert.Contains(t, stderr, "derived key")
	assert.Contains(t, stderr, "bafkrei")
	assert.NotContains(t, stderr, vectorDerived)
	assert.NotContains(t, stderr, vectorMaster)
}

func TestConfig_InvalidStrictValue(t *testing.T) {
	t.Setenv("KEYFLOW_STRICT", "sometimes")
	code, _, stderr := runCLI(t, "challenge")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config:")
}

func TestGauldoth(t *testing.T) {
	const token = "QWERTYUI2tS0seeI7qHYtrU6HnNfV6GFl2RWi2vD|ATDAHirOeFB/7xCGEQeYsw1HWVoZJw=="
	code, stdout, _ := runCLI(t, "gauldoth", "decrypt", "--key", "k1", "--iv-key", "k2", token)
	require.Equal(t, 0, code)
	assert.Equal(t, "hello world\n", stdout)

	t.Setenv("KEYFLOW_GAULDOTH_KEY", "k1")
	t.Setenv("KEYFLOW_GAULDOTH_IV_KEY", "k2")
	code, stdout, _ = runCLI(t, "gauldoth", "encrypt", "--json", `{"b":2,"a":"<x>"}`)
	require.Equal(t, 0, code)
	code, stdout, _ = runCLI(t, "gauldoth", "decrypt", strings.TrimSpace(stdout))
	require.Equal(t, 0, code)
	assert.Equal(t, `{"a":"<x>","b":2}`+"\n", stdout)

	code, _, stderr := runCLI(t, "gauldoth", "decrypt", "ABCDEFGHXXXX")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "gauldoth decrypt:")

	code, _, _ = runCLI(t, "gauldoth", "encrypt", "--iv", "ABC", "data")
	assert.Equal(t, 1, code)

	t.Setenv("KEYFLOW_GAULDOTH_KEY", "")
	code, _, _ = runCLI(t, "gauldoth", "encrypt", "data")
	assert.Equal(t, 2, code)
}
