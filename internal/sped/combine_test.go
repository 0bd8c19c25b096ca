package sped

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombineEmptyInputYieldsEmptyDataset(t *testing.T) {
	ds := Combine()
	require.NotNil(t, ds)
	require.Nil(t, ds.Company)
	require.Empty(t, ds.Documents)
	require.NotNil(t, ds.Debits, "map categories stay initialized")
}

func TestCombineMergesCollections(t *testing.T) {
	a := NewDataset()
	a.Company = &CompanyIdentity{Name: "ACME", CNPJ: "123", UF: "SP"}
	a.Documents = []*Document{{Number: "1"}}
	a.Debits[CategoryPIS] = []*ValueEntry{{Value: 10}}
	a.GrossRevenue = 100000
	a.CalculatedTotals[CategoryPIS] = Totals{Debits: 10}
	a.Files = []FileMeta{{FileName: "a.txt"}}

	b := NewDataset()
	b.Company = &CompanyIdentity{Name: "ACME"}
	b.Documents = []*Document{{Number: "2"}}
	b.Debits[CategoryPIS] = []*ValueEntry{{Value: 5}}
	b.Debits[CategoryCOFINS] = []*ValueEntry{{Value: 76}}
	b.CalculatedTotals[CategoryPIS] = Totals{Debits: 5}
	b.Files = []FileMeta{{FileName: "b.txt"}}

	out := Combine(a, b)

	require.Equal(t, "SP", out.Company.UF, "most populated identity wins")
	require.Len(t, out.Documents, 2)
	require.Len(t, out.Debits[CategoryPIS], 2)
	require.Len(t, out.Debits[CategoryCOFINS], 1)
	require.Equal(t, 100000.0, out.GrossRevenue)
	require.Equal(t, 15.0, out.CalculatedTotals[CategoryPIS].Debits)
	require.Len(t, out.Files, 2)
}

func TestCombineFirstNonZeroGrossRevenueWins(t *testing.T) {
	a := NewDataset()
	b := NewDataset()
	b.GrossRevenue = 50000
	c := NewDataset()
	c.GrossRevenue = 70000

	out := Combine(a, b, c)
	require.Equal(t, 50000.0, out.GrossRevenue)
}

func TestCombineWithEmptyDatasetIsIdentity(t *testing.T) {
	build := func() *Dataset {
		ds := NewDataset()
		ds.Company = &CompanyIdentity{Name: "ACME", CNPJ: "123", UF: "SP"}
		ds.Documents = []*Document{{Number: "1", Value: 500}}
		ds.Items = []*LineItem{{ItemCode: "P1", CFOP: "5102"}}
		ds.Participants = []*Participant{{Code: "P1"}}
		ds.Debits[CategoryPIS] = []*ValueEntry{{Value: 10}}
		ds.Totalizations[CategoryICMS] = []*ValueEntry{{Value: 90, Credit: 30}}
		ds.Regimes[CategoryGeral] = []*RegimeDeclaration{{Code: "2"}}
		ds.GrossRevenue = 100000
		ds.CalculatedTotals[CategoryPIS] = Totals{Debits: 10}
		ds.Files = []FileMeta{{FileName: "a.txt", Decoded: 7}}
		return ds
	}

	for name, datasets := range map[string][]*Dataset{
		"empty last":  {build(), NewDataset()},
		"empty first": {NewDataset(), build()},
	} {
		out := Combine(datasets...)
		want := build()
		require.Equal(t, want.Company, out.Company, name)
		require.Equal(t, want.Documents, out.Documents, name)
		require.Equal(t, want.Items, out.Items, name)
		require.Equal(t, want.Participants, out.Participants, name)
		require.Equal(t, want.Debits, out.Debits, name)
		require.Equal(t, want.Totalizations, out.Totalizations, name)
		require.Equal(t, want.Regimes, out.Regimes, name)
		require.Equal(t, want.GrossRevenue, out.GrossRevenue, name)
		require.Equal(t, want.CalculatedTotals, out.CalculatedTotals, name)
		require.Equal(t, want.Files, out.Files, name)
	}
}

func TestCombineSkipsNilDatasets(t *testing.T) {
	a := NewDataset()
	a.Documents = []*Document{{Number: "1"}}

	out := Combine(nil, a, nil)
	require.Len(t, out.Documents, 1)
}
