// Package decoder maps SPED record codes to decoding functions, one table
// per file family. Decoders validate a minimum field count and return nil
// for lines too short to carry their schema.
package decoder

import (
	"strings"

	"github.com/spedlens/spedlens/internal/sped"
)

// Func decodes the split fields of one line into a typed record.
// A nil result means the line was malformed for its code and must be skipped.
type Func func(fields []string) *sped.Record

// Registry holds the per-file-type dispatch tables. Tables are installed at
// construction so alternative layout versions can swap them wholesale.
type Registry struct {
	tables map[sped.FileType]map[string]Func
}

// NewRegistry builds a registry covering the supported subset of all four
// official record catalogues.
func NewRegistry() *Registry {
	return &Registry{tables: map[sped.FileType]map[string]Func{
		sped.FileTypeEFDICMS:    efdICMSTable(),
		sped.FileTypeEFDContrib: efdContribTable(),
		sped.FileTypeECF:        ecfTable(),
		sped.FileTypeECD:        ecdTable(),
	}}
}

// Decode dispatches one line's fields through the table for the given file
// type. The second result reports whether the record code is known at all;
// unknown codes are counted by the caller, never treated as errors.
func (r *Registry) Decode(ft sped.FileType, fields []string) (*sped.Record, bool) {
	code := sped.RecordCode(fields)
	if code == "" {
		return nil, false
	}
	table, ok := r.tables[ft]
	if !ok {
		return nil, false
	}
	fn, ok := table[code]
	if !ok {
		return nil, false
	}
	return fn(fields), true
}

// KnownCodes returns the record codes the registry understands for a file
// type. The classifier scores candidate types against these sets.
func (r *Registry) KnownCodes(ft sped.FileType) map[string]struct{} {
	codes := make(map[string]struct{})
	for code := range r.tables[ft] {
		codes[code] = struct{}{}
	}
	return codes
}

// FileTypes lists every catalogue the registry carries.
func (r *Registry) FileTypes() []sped.FileType {
	types := make([]sped.FileType, 0, len(r.tables))
	for ft := range r.tables {
		types = append(types, ft)
	}
	return types
}

func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

func money(fields []string, idx int) float64 {
	return sped.ParseMonetary(field(fields, idx))
}
