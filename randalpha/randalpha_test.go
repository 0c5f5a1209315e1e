package randalpha

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomAlphabets(t *testing.T) {
	s, err := Random(nil, 32, ModeAlpha)
	require.NoError(t, err)
	assert.Len(t, s, 32)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Za-z]+$`), s)

	s, err = Random(nil, 40, ModeAlpha36)
	require.NoError(t, err)
	assert.Len(t, s, 40)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-Z]+$`), s)
}

func TestRandomRejectsBiasedBytes(t *testing.T) {
	// 248..255 are rejected for 62 symbols; 0, 61 and 62 map to '0', 'z', '0'.
	src := bytes.NewReader([]byte{248, 255, 0, 61, 62, 250, 0, 0})
	s, err := Random(src, 3, ModeAlpha)
	require.NoError(t, err)
	assert.Equal(t, "0z0", s)

	// 252..255 are rejected for 36 symbols; 251 % 36 = 35 -> 'Z'.
	src = bytes.NewReader([]byte{252, 251, 1, 0})
	s, err = Random(src, 2, ModeAlpha36)
	require.NoError(t, err)
	assert.Equal(t, "Z1", s)
}

func TestRandomRefillsPool(t *testing.T) {
	in := append(bytes.Repeat([]byte{255}, 4), 10, 11, 12, 13)
	s, err := Random(bytes.NewReader(in), 2, ModeAlpha)
	require.NoError(t, err)
	assert.Equal(t, "AB", s)
}

func TestRandomEdgeCases(t *testing.T) {
	s, err := Random(nil, 0, ModeAlpha)
	require.NoError(t, err)
	assert.Empty(t, s)

	_, err = Random(nil, -1, ModeAlpha)
	assert.Error(t, err)

	_, err = Random(bytes.NewReader(nil), 4, ModeAlpha)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("alpha36")
	require.NoError(t, err)
	assert.Equal(t, ModeAlpha36, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAlpha, m)

	_, err = ParseMode("hex")
	assert.Error(t, err)
}
