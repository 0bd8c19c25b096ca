package sped

import (
	"strconv"
	"strings"
	"time"
)

// ParseMonetary converts a SPED numeric field into a float. SPED files use
// the Brazilian convention: comma as decimal separator, dots as thousands
// separators. Plain dotted decimals ("12.50") also occur in practice and are
// honored when only one dot is present. Parsing never fails; anything
// unusable collapses to zero.
func ParseMonetary(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "0" || strings.EqualFold(s, "null") {
		return 0
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseSpedDate parses the ddmmaaaa date format used by every SPED layout.
// The ok result is false for malformed input so callers can exclude the
// record from period math instead of inheriting a bogus date.
func ParseSpedDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if len(s) != 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("02012006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
