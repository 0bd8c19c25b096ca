package sped

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeLinesUTF8Passthrough(t *testing.T) {
	lines, err := DecodeLines(strings.NewReader("|0000|x|\n|C100|y|\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"|0000|x|", "|C100|y|"}, lines)
}

func TestDecodeLinesLatin1(t *testing.T) {
	// "SÃO PAULO" with Ã as the single ISO-8859-1 byte 0xC3.
	raw := append([]byte("|0000|S"), 0xC3)
	raw = append(raw, []byte("O PAULO|\n")...)

	lines, err := DecodeLines(strings.NewReader(string(raw)))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "|0000|SÃO PAULO|", lines[0])
}

func TestDecodeLinesCRLF(t *testing.T) {
	lines, err := DecodeLines(strings.NewReader("|0000|x|\r\n|C100|y|\r\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"|0000|x|", "|C100|y|"}, lines)
}

func TestDecodeLinesEmpty(t *testing.T) {
	lines, err := DecodeLines(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, lines)
}
