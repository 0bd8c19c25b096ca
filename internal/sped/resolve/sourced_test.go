package resolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstPositiveHonorsOrder(t *testing.T) {
	v, name, ok := FirstPositive(
		Source{Name: "first", Fetch: func() (float64, bool) { return 100, true }},
		Source{Name: "second", Fetch: func() (float64, bool) { return 999, true }},
	)
	require.True(t, ok)
	require.Equal(t, "first", name)
	require.Equal(t, 100.0, v)
}

func TestFirstPositiveSkipsNonPositive(t *testing.T) {
	v, name, ok := FirstPositive(
		Source{Name: "zero", Fetch: func() (float64, bool) { return 0, true }},
		Source{Name: "declined", Fetch: func() (float64, bool) { return 50, false }},
		Source{Name: "nan", Fetch: func() (float64, bool) { return math.NaN(), true }},
		Source{Name: "winner", Fetch: func() (float64, bool) { return 7, true }},
	)
	require.True(t, ok)
	require.Equal(t, "winner", name)
	require.Equal(t, 7.0, v)

	_, _, ok = FirstPositive(
		Source{Name: "nothing", Fetch: func() (float64, bool) { return 0, false }},
		Source{Name: "nil-fetch"},
	)
	require.False(t, ok)
}

func TestSourcedFloorsInvalidValues(t *testing.T) {
	require.Equal(t, 0.0, Sourced(-5, ProvenanceLedger).Value)
	require.Equal(t, 0.0, Sourced(math.NaN(), ProvenanceLedger).Value)
	require.Equal(t, 0.0, Sourced(math.Inf(1), ProvenanceLedger).Value)

	s := Sourced(10, ProvenanceDerived).WithNote("source", "test")
	require.Equal(t, ProvenanceDerived, s.Provenance)
	require.Equal(t, "test", s.Notes["source"])
}
