package resolve

import (
	"log/slog"
	"strings"

	"github.com/spedlens/spedlens/internal/sped"
)

// Regime is the tax-calculation regime the company operates under.
type Regime string

const (
	RegimeSimples   Regime = "simples"
	RegimePresumido Regime = "presumido"
	RegimeReal      Regime = "real"
)

// Sector is the inferred line of business.
type Sector string

const (
	SectorIndustria Sector = "industria"
	SectorComercio  Sector = "comercio"
	SectorServicos  Sector = "servicos"
)

// CompanyProfile is the resolved identity handed to the simulator.
type CompanyProfile struct {
	Name           string       `json:"name"`
	CNPJ           string       `json:"cnpj"`
	UF             string       `json:"uf"`
	Regime         Regime       `json:"regime"`
	Sector         Sector       `json:"sector"`
	MonthlyRevenue SourcedValue `json:"monthlyRevenue"`
}

// ResolveCompany derives name, regime, sector and monthly revenue from the
// consolidated dataset, each through its own priority chain.
func (r *Resolver) ResolveCompany(ds *sped.Dataset) CompanyProfile {
	identity := ds.Company
	if identity == nil {
		identity = &sped.CompanyIdentity{}
	}

	regime := r.resolveRegime(ds)
	sector := r.ResolveSector(ds)
	revenue := r.resolveRevenue(ds)

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		// The profile never ships an empty name; synthesize one from the
		// tax id so downstream display always has something to show.
		if cnpj := strings.TrimSpace(identity.CNPJ); cnpj != "" {
			name = "Contribuinte " + cnpj
		} else {
			name = "Contribuinte nao identificado"
		}
		r.logger.Info("company name synthesized", slog.String("name", name))
	}

	return CompanyProfile{
		Name:           name,
		CNPJ:           identity.CNPJ,
		UF:             identity.UF,
		Regime:         regime,
		Sector:         sector,
		MonthlyRevenue: revenue,
	}
}

// resolveRegime walks the declared-regime chain: ECF taxation form, then the
// contributions incidence code, then a Simples-only declaration, then the
// presence of non-cumulative credits, then the statutory default.
func (r *Resolver) resolveRegime(ds *sped.Dataset) Regime {
	for _, decl := range ds.Regimes[sped.CategoryIRPJ] {
		switch decl.Code {
		case "1", "2", "3", "4":
			r.logger.Debug("regime from ecf", slog.String("code", decl.Code))
			return RegimeReal
		case "5", "6", "7", "8", "9":
			r.logger.Debug("regime from ecf", slog.String("code", decl.Code))
			return RegimePresumido
		}
	}
	for _, decl := range ds.Regimes[sped.CategoryGeral] {
		switch decl.Code {
		case "1", "3": // non-cumulative incidence, at least in part
			r.logger.Debug("regime from contributions", slog.String("code", decl.Code))
			return RegimeReal
		case "2":
			r.logger.Debug("regime from contributions", slog.String("code", decl.Code))
			return RegimePresumido
		}
	}
	if len(ds.Regimes["simples"]) > 0 {
		r.logger.Debug("regime from simples declaration")
		return RegimeSimples
	}
	if len(ds.Credits[sped.CategoryPIS]) > 0 || len(ds.Credits[sped.CategoryCOFINS]) > 0 {
		// Contribution credits only exist under the non-cumulative regime.
		r.logger.Debug("regime implied by contribution credits")
		return RegimeReal
	}
	return RegimePresumido
}

// resolveRevenue walks the revenue chain and returns a provenance-tagged
// monthly figure.
func (r *Resolver) resolveRevenue(ds *sped.Dataset) SourcedValue {
	value, source, ok := FirstPositive(
		Source{Name: "declared-gross-revenue", Fetch: func() (float64, bool) {
			return ds.GrossRevenue, ds.GrossRevenue > 0
		}},
		Source{Name: "outbound-operation-totalizer", Fetch: func() (float64, bool) {
			return r.outboundOperationTotal(ds)
		}},
		Source{Name: "income-statement-net-revenue", Fetch: func() (float64, bool) {
			return r.netRevenueLine(ds)
		}},
		Source{Name: "document-monthly-average", Fetch: func() (float64, bool) {
			return r.monthlyDocumentAverage(ds)
		}},
	)
	if ok {
		r.decision("monthly-revenue", source, value, ProvenanceLedger)
		return Sourced(value, ProvenanceLedger).WithNote("source", source)
	}

	// Last resort: invert a known contribution debit against its nominal
	// cumulative rate.
	if debit := r.sumEntries(ds.Debits[sped.CategoryPIS]); debit > 0 {
		value = debit / (r.tables.PISRateCumulative / 100)
		r.decision("monthly-revenue", "pis-debit-inversion", value, ProvenanceEstimated)
		return Sourced(value, ProvenanceEstimated).WithNote("source", "pis-debit-inversion")
	}
	if debit := r.sumEntries(ds.Debits[sped.CategoryCOFINS]); debit > 0 {
		value = debit / (r.tables.COFINSRateCumulative / 100)
		r.decision("monthly-revenue", "cofins-debit-inversion", value, ProvenanceEstimated)
		return Sourced(value, ProvenanceEstimated).WithNote("source", "cofins-debit-inversion")
	}
	r.decision("monthly-revenue", "none", 0, ProvenanceEstimated)
	return Sourced(0, ProvenanceEstimated).WithNote("source", "none")
}

// outboundOperationTotal sums the analytic ICMS registers' operation values
// for outbound CFOPs (first digit 5-7).
func (r *Resolver) outboundOperationTotal(ds *sped.Dataset) (float64, bool) {
	var total float64
	for _, entry := range ds.AnalyticRates[sped.CategoryICMS] {
		if !isOutboundCFOP(entry.Account) {
			continue
		}
		if r.tables.WithinBounds(entry.Base) {
			total += entry.Base
		}
	}
	return total, total > 0
}

// netRevenueLine finds a net-revenue row in the income statement. ECF and
// ECD statements are annual, so the figure is spread over twelve months.
func (r *Resolver) netRevenueLine(ds *sped.Dataset) (float64, bool) {
	for _, entry := range ds.IncomeStatement {
		desc := strings.ToUpper(entry.Description)
		netRevenue := strings.HasPrefix(entry.Account, "3.01") ||
			(strings.Contains(desc, "RECEITA") && (strings.Contains(desc, "LIQUID") || strings.Contains(desc, "LÍQUID")))
		if netRevenue && entry.Value > 0 {
			return entry.Value / 12, true
		}
	}
	return 0, false
}

// monthlyDocumentAverage aggregates outbound documents per month and
// averages across the observed period. Documents without a parseable date
// are excluded rather than defaulted to today, and anomalous values are
// dropped.
func (r *Resolver) monthlyDocumentAverage(ds *sped.Dataset) (float64, bool) {
	byMonth := make(map[string]float64)
	for _, doc := range ds.Documents {
		if doc.Direction != sped.DirectionOutbound || !doc.DateOK {
			continue
		}
		if !r.tables.WithinBounds(doc.Value) {
			continue
		}
		byMonth[doc.Date.Format("2006-01")] += doc.Value
	}
	if len(byMonth) == 0 {
		return 0, false
	}
	var total float64
	for _, v := range byMonth {
		total += v
	}
	return total / float64(len(byMonth)), true
}

func (r *Resolver) sumEntries(entries []*sped.ValueEntry) float64 {
	var total float64
	for _, e := range entries {
		if r.tables.WithinBounds(e.Value) {
			total += e.Value
		}
	}
	return total
}

func isOutboundCFOP(cfop string) bool {
	if cfop == "" {
		return false
	}
	switch cfop[0] {
	case '5', '6', '7':
		return true
	}
	return false
}

func isInboundCFOP(cfop string) bool {
	if cfop == "" {
		return false
	}
	switch cfop[0] {
	case '1', '2', '3':
		return true
	}
	return false
}
