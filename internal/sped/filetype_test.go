package sped

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testClassifier() *Classifier {
	return NewClassifier(map[FileType]map[string]struct{}{
		FileTypeEFDICMS:    {"0000": {}, "C100": {}, "E110": {}},
		FileTypeEFDContrib: {"0000": {}, "M200": {}, "M600": {}},
		FileTypeECF:        {"0000": {}, "L300": {}},
		FileTypeECD:        {"0000": {}, "I155": {}, "J150": {}},
	})
}

func TestClassifyByName(t *testing.T) {
	c := testClassifier()
	cases := map[string]FileType{
		"PISCOFINS_042024.txt":      FileTypeEFDContrib,
		"sped_contribuicoes.txt":    FileTypeEFDContrib,
		"ECF_2023.txt":              FileTypeECF,
		"escrituracao-contabil.txt": FileTypeECD,
		"sped-fiscal-jan.txt":       FileTypeEFDICMS,
		"EFD_ICMS_IPI.txt":          FileTypeEFDICMS,
	}
	for name, want := range cases {
		require.Equal(t, want, c.Classify(name, nil), name)
	}
}

func TestClassifyByContentHistogram(t *testing.T) {
	c := testClassifier()
	lines := []string{
		"|0000|x|",
		"|M200|x|",
		"|M600|x|",
	}
	require.Equal(t, FileTypeEFDContrib, c.Classify("upload.bin", lines))

	lines = []string{"|0000|x|", "|I155|x|", "|J150|x|"}
	require.Equal(t, FileTypeECD, c.Classify("upload.bin", lines))
}

func TestClassifyDefaultsToGoodsTax(t *testing.T) {
	c := testClassifier()
	require.Equal(t, FileTypeEFDICMS, c.Classify("upload.bin", nil))
	require.Equal(t, FileTypeEFDICMS, c.Classify("upload.bin", []string{"|XYZ9|x|", "no pipes"}))
	// 0000 alone appears in every catalogue; the tie resolves the same way.
	require.Equal(t, FileTypeEFDICMS, c.Classify("upload.bin", []string{"|0000|x|"}))
}

func TestClassifyNameOutranksContent(t *testing.T) {
	c := testClassifier()
	lines := []string{"|M200|x|", "|M600|x|"}
	require.Equal(t, FileTypeECF, c.Classify("ecf-export.txt", lines))
}
