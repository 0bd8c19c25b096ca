package sped

import (
	"regexp"
	"strings"
)

// classifierScanLimit bounds how many non-empty lines the histogram pass reads.
const classifierScanLimit = 100

type namePattern struct {
	fileType FileType
	re       *regexp.Regexp
}

// Name patterns are ordered most-specific first: the contributions and
// income-tax exports embed "efd"/"sped" too, so they must win before the
// generic goods-tax patterns match.
var namePatterns = []namePattern{
	{FileTypeEFDContrib, regexp.MustCompile(`(?i)(contrib|piscofins|pis[-_ ]?cofins)`)},
	{FileTypeECF, regexp.MustCompile(`(?i)(^|[^a-z])ecf([^a-z]|$)|lucro`)},
	{FileTypeECD, regexp.MustCompile(`(?i)(^|[^a-z])ecd([^a-z]|$)|contabil`)},
	{FileTypeEFDICMS, regexp.MustCompile(`(?i)(icms|ipi|fiscal|efd|sped)`)},
}

// Classifier determines which record catalogue a file follows. Known-code
// sets are injected from the decoder registry so layout revisions reshape
// classification without touching this logic.
type Classifier struct {
	codes map[FileType]map[string]struct{}
}

// NewClassifier builds a classifier over the given per-type code sets.
func NewClassifier(codes map[FileType]map[string]struct{}) *Classifier {
	return &Classifier{codes: codes}
}

// Classify resolves the file type from the name when possible, falling back
// to a record-code histogram over the first lines. Ties, including files
// with no recognizable codes at all, default to the goods-tax ledger.
func (c *Classifier) Classify(name string, lines []string) FileType {
	if ft, ok := c.classifyByName(name); ok {
		return ft
	}
	return c.classifyByContent(lines)
}

func (c *Classifier) classifyByName(name string) (FileType, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	for _, p := range namePatterns {
		if p.re.MatchString(trimmed) {
			return p.fileType, true
		}
	}
	return "", false
}

func (c *Classifier) classifyByContent(lines []string) FileType {
	counts := make(map[FileType]int, len(c.codes))
	scanned := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if scanned >= classifierScanLimit {
			break
		}
		scanned++
		code := RecordCode(SplitLine(line))
		if code == "" {
			continue
		}
		for ft, known := range c.codes {
			if _, ok := known[code]; ok {
				counts[ft]++
			}
		}
	}
	best := FileTypeEFDICMS
	bestCount := counts[FileTypeEFDICMS]
	// Deterministic visit order so equal counts resolve the same way every run.
	for _, ft := range []FileType{FileTypeEFDContrib, FileTypeECF, FileTypeECD} {
		if counts[ft] > bestCount {
			best = ft
			bestCount = counts[ft]
		}
	}
	return best
}
