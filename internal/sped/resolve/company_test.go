package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spedlens/spedlens/internal/sped"
)

func TestRevenuePrefersDeclaredGross(t *testing.T) {
	r := newTestResolver()
	ds := datasetWithRevenue(80000)
	ds.Documents = []*sped.Document{
		{Direction: sped.DirectionOutbound, DateOK: true, Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Value: 123},
	}

	profile := r.ResolveCompany(ds)
	require.Equal(t, 80000.0, profile.MonthlyRevenue.Value)
	require.Equal(t, ProvenanceLedger, profile.MonthlyRevenue.Provenance)
	require.Equal(t, "declared-gross-revenue", profile.MonthlyRevenue.Notes["source"])
}

func TestRevenueFromMonthlyDocumentAverage(t *testing.T) {
	r := newTestResolver()
	ds := sped.NewDataset()
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ds.Documents = []*sped.Document{
		{Direction: sped.DirectionOutbound, DateOK: true, Date: march, Value: 10000},
		{Direction: sped.DirectionOutbound, DateOK: true, Date: march, Value: 20000},
		{Direction: sped.DirectionOutbound, DateOK: true, Date: april, Value: 40000},
		// Excluded: inbound, undated, anomalous.
		{Direction: sped.DirectionInbound, DateOK: true, Date: march, Value: 99999},
		{Direction: sped.DirectionOutbound, DateOK: false, Value: 77777},
		{Direction: sped.DirectionOutbound, DateOK: true, Date: april, Value: 5e9},
	}

	profile := r.ResolveCompany(ds)
	require.InDelta(t, 35000.0, profile.MonthlyRevenue.Value, 0.01)
	require.Equal(t, "document-monthly-average", profile.MonthlyRevenue.Notes["source"])
}

func TestRevenueInversionFallback(t *testing.T) {
	r := newTestResolver()
	ds := sped.NewDataset()
	ds.Debits[sped.CategoryPIS] = []*sped.ValueEntry{{Value: 650}}

	profile := r.ResolveCompany(ds)
	require.InDelta(t, 100000.0, profile.MonthlyRevenue.Value, 0.01)
	require.Equal(t, ProvenanceEstimated, profile.MonthlyRevenue.Provenance)
	require.Equal(t, "pis-debit-inversion", profile.MonthlyRevenue.Notes["source"])
}

func TestNetRevenueLineSpreadsAnnualFigure(t *testing.T) {
	r := newTestResolver()
	ds := sped.NewDataset()
	ds.IncomeStatement = []*sped.ValueEntry{
		{Account: "3.02", Description: "DESPESAS OPERACIONAIS", Value: 5000},
		{Account: "3.01.01", Description: "RECEITA LIQUIDA DE VENDAS", Value: 1200000},
	}

	profile := r.ResolveCompany(ds)
	require.InDelta(t, 100000.0, profile.MonthlyRevenue.Value, 0.01)
	require.Equal(t, "income-statement-net-revenue", profile.MonthlyRevenue.Notes["source"])
}

func TestCompanyNameNeverEmpty(t *testing.T) {
	r := newTestResolver()

	ds := sped.NewDataset()
	ds.Company = &sped.CompanyIdentity{CNPJ: "12345678000190"}
	profile := r.ResolveCompany(ds)
	require.Equal(t, "Contribuinte 12345678000190", profile.Name)

	profile = r.ResolveCompany(sped.NewDataset())
	require.NotEmpty(t, profile.Name)
}

func TestRegimeChain(t *testing.T) {
	r := newTestResolver()

	ds := sped.NewDataset()
	ds.Regimes[sped.CategoryIRPJ] = []*sped.RegimeDeclaration{{Code: "1"}}
	ds.Regimes[sped.CategoryGeral] = []*sped.RegimeDeclaration{{Code: "2"}}
	require.Equal(t, RegimeReal, r.resolveRegime(ds), "ecf declaration outranks contributions")

	ds = sped.NewDataset()
	ds.Regimes[sped.CategoryGeral] = []*sped.RegimeDeclaration{{Code: "2"}}
	require.Equal(t, RegimePresumido, r.resolveRegime(ds))

	ds = sped.NewDataset()
	ds.Regimes["simples"] = []*sped.RegimeDeclaration{{Code: "S"}}
	require.Equal(t, RegimeSimples, r.resolveRegime(ds))

	ds = sped.NewDataset()
	ds.Credits[sped.CategoryCOFINS] = []*sped.ValueEntry{{Value: 10}}
	require.Equal(t, RegimeReal, r.resolveRegime(ds), "credits imply non-cumulative regime")

	require.Equal(t, RegimePresumido, r.resolveRegime(sped.NewDataset()))
}
