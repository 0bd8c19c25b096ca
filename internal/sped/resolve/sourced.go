// Package resolve derives the normalized company profile and tax
// composition from a consolidated SPED dataset, tagging every figure with
// the source it came from.
package resolve

import "math"

// Provenance marks how a resolved figure was obtained.
type Provenance string

const (
	// ProvenanceLedger means the figure was read directly from ledger records.
	ProvenanceLedger Provenance = "from-ledger"
	// ProvenanceEstimated means the figure was estimated from statutory defaults.
	ProvenanceEstimated Provenance = "estimated"
	// ProvenanceDerived means the figure was derived from a sibling tax.
	ProvenanceDerived Provenance = "derived"
)

// SourcedValue is a monetary figure with its provenance and free-form notes
// about which sources contributed.
type SourcedValue struct {
	Value      float64           `json:"value"`
	Provenance Provenance        `json:"provenance"`
	Notes      map[string]string `json:"notes,omitempty"`
}

// Sourced builds a SourcedValue, flooring non-finite or negative amounts at
// zero so monetary invariants hold no matter what the chain produced.
func Sourced(value float64, provenance Provenance) SourcedValue {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		value = 0
	}
	return SourcedValue{Value: value, Provenance: provenance}
}

// WithNote annotates the value, allocating the note map lazily.
func (s SourcedValue) WithNote(key, value string) SourcedValue {
	if s.Notes == nil {
		s.Notes = make(map[string]string, 1)
	}
	s.Notes[key] = value
	return s
}

// Source is one named step of a fallback chain.
type Source struct {
	Name  string
	Fetch func() (float64, bool)
}

// FirstPositive walks the sources in order and returns the first strictly
// positive value together with the winning source name. Keeping the order
// declarative here lets each chain be tested in isolation.
func FirstPositive(sources ...Source) (float64, string, bool) {
	for _, src := range sources {
		if src.Fetch == nil {
			continue
		}
		if v, ok := src.Fetch(); ok && v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, src.Name, true
		}
	}
	return 0, "", false
}
