package resolve

import (
	"log/slog"

	"github.com/spedlens/spedlens/internal/sped"
)

// Tax codes used as map keys in the composition.
const (
	TaxPIS    = sped.CategoryPIS
	TaxCOFINS = sped.CategoryCOFINS
	TaxICMS   = sped.CategoryICMS
	TaxIPI    = sped.CategoryIPI
	TaxISS    = sped.CategoryISS
	TaxTotal  = "total"
)

var trackedTaxes = []string{TaxPIS, TaxCOFINS, TaxICMS, TaxIPI, TaxISS}

// TaxComposition is the resolved debit/credit/effective-rate set for the
// five tracked taxes. Effective rates are percentages in [0, 100]; the
// "total" rate is the sum of net burdens over revenue.
type TaxComposition struct {
	Debits         map[string]SourcedValue `json:"debits"`
	Credits        map[string]float64      `json:"credits"`
	EffectiveRates map[string]float64      `json:"effectiveRates"`
	Provenance     map[string]Provenance   `json:"provenance"`
}

// ResolveTaxes walks the per-tax priority chains against the consolidated
// dataset. The profile supplies revenue, regime and sector, which gate the
// estimation steps.
func (r *Resolver) ResolveTaxes(ds *sped.Dataset, profile CompanyProfile) TaxComposition {
	comp := TaxComposition{
		Debits:         make(map[string]SourcedValue, len(trackedTaxes)),
		Credits:        make(map[string]float64, len(trackedTaxes)),
		EffectiveRates: make(map[string]float64, len(trackedTaxes)+1),
		Provenance:     make(map[string]Provenance, len(trackedTaxes)),
	}

	comp.Debits[TaxPIS] = r.contributionDebit(ds, profile, TaxPIS)
	comp.Debits[TaxCOFINS] = r.contributionDebit(ds, profile, TaxCOFINS)
	comp.Debits[TaxICMS] = r.icmsDebit(ds, profile)
	comp.Debits[TaxIPI] = r.ipiDebit(ds, profile)
	comp.Debits[TaxISS] = r.issDebit(ds, profile)

	comp.Credits[TaxPIS] = r.contributionCredit(ds, profile, TaxPIS)
	comp.Credits[TaxCOFINS] = r.contributionCredit(ds, profile, TaxCOFINS)
	comp.Credits[TaxICMS] = r.icmsCredit(ds, profile)
	comp.Credits[TaxIPI] = r.ipiCredit(ds, profile)
	comp.Credits[TaxISS] = 0 // municipal service tax is strictly cumulative

	revenue := profile.MonthlyRevenue.Value
	var totalNet, totalDefault float64
	for _, tax := range trackedTaxes {
		debit := comp.Debits[tax]
		net := debit.Value - comp.Credits[tax]
		if net < 0 {
			net = 0
		}
		totalNet += net
		fallback := r.defaultRate(tax, profile)
		totalDefault += fallback
		comp.EffectiveRates[tax] = r.effectiveRate(tax, net, revenue, fallback)

		if debit.Provenance == ProvenanceLedger {
			comp.Provenance[tax] = ProvenanceLedger
		} else {
			comp.Provenance[tax] = ProvenanceEstimated
		}
	}
	if totalDefault > 100 {
		totalDefault = 100
	}
	comp.EffectiveRates[TaxTotal] = r.effectiveRate(TaxTotal, totalNet, revenue, totalDefault)
	return comp
}

// contributionDebit resolves PIS or COFINS: assessment records, then the
// per-code detail totalizations, then derivation from the sibling tax, then
// a regime-conditioned estimate.
func (r *Resolver) contributionDebit(ds *sped.Dataset, profile CompanyProfile, tax string) SourcedValue {
	if v, source, ok := FirstPositive(
		Source{Name: "assessment-records", Fetch: func() (float64, bool) {
			v := r.sumEntries(ds.Debits[tax])
			return v, v > 0
		}},
		Source{Name: "detail-totalizations", Fetch: func() (float64, bool) {
			v := r.sumEntries(ds.Totalizations[tax])
			return v, v > 0
		}},
	); ok {
		r.decision(tax+"-debit", source, v, ProvenanceLedger)
		return Sourced(v, ProvenanceLedger).WithNote("source", source)
	}

	if v, ok := r.deriveFromSibling(ds, tax); ok {
		r.decision(tax+"-debit", "sibling-ratio", v, ProvenanceDerived)
		return Sourced(v, ProvenanceDerived).WithNote("source", "sibling-ratio")
	}

	rate := r.contributionRate(tax, profile.Regime)
	v := profile.MonthlyRevenue.Value * rate / 100
	r.decision(tax+"-debit", "revenue-estimate", v, ProvenanceEstimated)
	return Sourced(v, ProvenanceEstimated).WithNote("source", "revenue-estimate")
}

// deriveFromSibling converts the sibling contribution's ledger total through
// the fixed statutory ratio. Only ledger data participates so estimates do
// not cascade.
func (r *Resolver) deriveFromSibling(ds *sped.Dataset, tax string) (float64, bool) {
	sibling := TaxCOFINS
	if tax == TaxCOFINS {
		sibling = TaxPIS
	}
	base := r.sumEntries(ds.Debits[sibling])
	if base == 0 {
		base = r.sumEntries(ds.Totalizations[sibling])
	}
	if base == 0 {
		return 0, false
	}
	if tax == TaxCOFINS {
		return base * r.tables.COFINSOverPIS, true
	}
	return base / r.tables.COFINSOverPIS, true
}

func (r *Resolver) contributionRate(tax string, regime Regime) float64 {
	nonCumulative := regime == RegimeReal
	if tax == TaxCOFINS {
		if nonCumulative {
			return r.tables.COFINSRateNonCumulative
		}
		return r.tables.COFINSRateCumulative
	}
	if nonCumulative {
		return r.tables.PISRateNonCumulative
	}
	return r.tables.PISRateCumulative
}

// icmsDebit: assessment block, then analytic registers, then the state-rate
// estimate.
func (r *Resolver) icmsDebit(ds *sped.Dataset, profile CompanyProfile) SourcedValue {
	if v, source, ok := FirstPositive(
		Source{Name: "assessment-records", Fetch: func() (float64, bool) {
			v := r.sumEntries(ds.Totalizations[TaxICMS])
			return v, v > 0
		}},
		Source{Name: "analytic-registers", Fetch: func() (float64, bool) {
			v := r.sumEntries(ds.AnalyticRates[TaxICMS])
			return v, v > 0
		}},
	); ok {
		r.decision("icms-debit", source, v, ProvenanceLedger)
		return Sourced(v, ProvenanceLedger).WithNote("source", source)
	}
	v := profile.MonthlyRevenue.Value * r.tables.ICMSRate(profile.UF) / 100
	r.decision("icms-debit", "state-rate-estimate", v, ProvenanceEstimated)
	return Sourced(v, ProvenanceEstimated).WithNote("source", "state-rate-estimate")
}

// ipiDebit applies only to industry; other sectors are zeroed.
func (r *Resolver) ipiDebit(ds *sped.Dataset, profile CompanyProfile) SourcedValue {
	if profile.Sector != SectorIndustria {
		return Sourced(0, ProvenanceEstimated).WithNote("source", "sector-gated")
	}
	if v, source, ok := FirstPositive(
		Source{Name: "assessment-records", Fetch: func() (float64, bool) {
			v := r.sumEntries(ds.Totalizations[TaxIPI])
			return v, v > 0
		}},
		Source{Name: "analytic-registers", Fetch: func() (float64, bool) {
			v := r.sumEntries(ds.AnalyticRates[TaxIPI])
			return v, v > 0
		}},
		Source{Name: "document-totals", Fetch: func() (float64, bool) {
			var v float64
			for _, doc := range ds.Documents {
				if doc.Direction == sped.DirectionOutbound && r.tables.WithinBounds(doc.IPI) {
					v += doc.IPI
				}
			}
			return v, v > 0
		}},
	); ok {
		r.decision("ipi-debit", source, v, ProvenanceLedger)
		return Sourced(v, ProvenanceLedger).WithNote("source", source)
	}
	v := profile.MonthlyRevenue.Value * r.tables.IPIRateDefault / 100
	r.decision("ipi-debit", "revenue-estimate", v, ProvenanceEstimated)
	return Sourced(v, ProvenanceEstimated).WithNote("source", "revenue-estimate")
}

// issDebit applies only to services; other sectors are zeroed.
func (r *Resolver) issDebit(ds *sped.Dataset, profile CompanyProfile) SourcedValue {
	if profile.Sector != SectorServicos {
		return Sourced(0, ProvenanceEstimated).WithNote("source", "sector-gated")
	}
	var ledger float64
	for _, doc := range ds.Documents {
		if doc.Direction == sped.DirectionOutbound && r.tables.WithinBounds(doc.ISS) {
			ledger += doc.ISS
		}
	}
	if ledger > 0 {
		r.decision("iss-debit", "service-documents", ledger, ProvenanceLedger)
		return Sourced(ledger, ProvenanceLedger).WithNote("source", "service-documents")
	}
	v := profile.MonthlyRevenue.Value * r.tables.ISSRateDefault / 100
	r.decision("iss-debit", "revenue-estimate", v, ProvenanceEstimated)
	return Sourced(v, ProvenanceEstimated).WithNote("source", "revenue-estimate")
}

// contributionCredit resolves PIS or COFINS credits: credit detail records,
// then the credits-discounted summary on the assessment record, then inbound
// document analysis, then a regime-gated ratio estimate.
func (r *Resolver) contributionCredit(ds *sped.Dataset, profile CompanyProfile, tax string) float64 {
	if v, source, ok := FirstPositive(
		Source{Name: "credit-records", Fetch: func() (float64, bool) {
			v := r.sumEntries(ds.Credits[tax])
			return v, v > 0
		}},
		Source{Name: "assessment-summary", Fetch: func() (float64, bool) {
			var v float64
			for _, e := range ds.Debits[tax] {
				if r.tables.WithinBounds(e.Credit) {
					v += e.Credit
				}
			}
			return v, v > 0
		}},
		Source{Name: "purchase-documents", Fetch: func() (float64, bool) {
			var v float64
			for _, doc := range ds.Documents {
				if doc.Direction != sped.DirectionInbound {
					continue
				}
				amount := doc.PIS
				if tax == TaxCOFINS {
					amount = doc.COFINS
				}
				if r.tables.WithinBounds(amount) {
					v += amount
				}
			}
			return v, v > 0
		}},
	); ok {
		r.decision(tax+"-credit", source, v, ProvenanceLedger)
		return v
	}
	if profile.Regime != RegimeReal {
		// Cumulative-regime contributions generate no credits.
		return 0
	}
	rate := r.contributionRate(tax, profile.Regime)
	v := profile.MonthlyRevenue.Value * r.tables.PurchaseBaseRatio * rate / 100 * r.tables.CreditUtilizationRatio
	r.decision(tax+"-credit", "purchase-ratio-estimate", v, ProvenanceEstimated)
	return v
}

// icmsCredit: assessment credits, then credit-eligible inbound items, then
// inbound documents, then the purchase-ratio estimate.
func (r *Resolver) icmsCredit(ds *sped.Dataset, profile CompanyProfile) float64 {
	if v, source, ok := FirstPositive(
		Source{Name: "assessment-records", Fetch: func() (float64, bool) {
			var v float64
			for _, e := range ds.Totalizations[TaxICMS] {
				if r.tables.WithinBounds(e.Credit) {
					v += e.Credit
				}
			}
			return v, v > 0
		}},
		Source{Name: "credit-eligible-items", Fetch: func() (float64, bool) {
			var v float64
			for _, item := range ds.Items {
				if contains(r.tables.InboundCreditCFOPs, item.CFOP) && r.tables.WithinBounds(item.ICMSValue) {
					v += item.ICMSValue
				}
			}
			return v, v > 0
		}},
		Source{Name: "inbound-documents", Fetch: func() (float64, bool) {
			var v float64
			for _, doc := range ds.Documents {
				if doc.Direction == sped.DirectionInbound && r.tables.WithinBounds(doc.ICMS) {
					v += doc.ICMS
				}
			}
			return v, v > 0
		}},
	); ok {
		r.decision("icms-credit", source, v, ProvenanceLedger)
		return v
	}
	if profile.Regime == RegimeSimples {
		return 0
	}
	v := profile.MonthlyRevenue.Value * r.tables.PurchaseBaseRatio * r.tables.ICMSRate(profile.UF) / 100 * r.tables.CreditUtilizationRatio
	r.decision("icms-credit", "purchase-ratio-estimate", v, ProvenanceEstimated)
	return v
}

// ipiCredit mirrors the debit gating: only industry takes IPI credits.
func (r *Resolver) ipiCredit(ds *sped.Dataset, profile CompanyProfile) float64 {
	if profile.Sector != SectorIndustria {
		return 0
	}
	if v, source, ok := FirstPositive(
		Source{Name: "assessment-records", Fetch: func() (float64, bool) {
			var v float64
			for _, e := range ds.Totalizations[TaxIPI] {
				if r.tables.WithinBounds(e.Credit) {
					v += e.Credit
				}
			}
			return v, v > 0
		}},
		Source{Name: "credit-eligible-items", Fetch: func() (float64, bool) {
			var v float64
			for _, item := range ds.Items {
				if contains(r.tables.InboundCreditCFOPs, item.CFOP) && r.tables.WithinBounds(item.IPIValue) {
					v += item.IPIValue
				}
			}
			return v, v > 0
		}},
	); ok {
		r.decision("ipi-credit", source, v, ProvenanceLedger)
		return v
	}
	v := profile.MonthlyRevenue.Value * r.tables.PurchaseBaseRatio * r.tables.IPIRateDefault / 100 * r.tables.CreditUtilizationRatio
	r.decision("ipi-credit", "purchase-ratio-estimate", v, ProvenanceEstimated)
	return v
}

// defaultRate is the statutory fallback substituted when a computed
// effective rate falls outside [0, 100].
func (r *Resolver) defaultRate(tax string, profile CompanyProfile) float64 {
	switch tax {
	case TaxPIS, TaxCOFINS:
		return r.contributionRate(tax, profile.Regime)
	case TaxICMS:
		return r.tables.ICMSRate(profile.UF)
	case TaxIPI:
		if profile.Sector == SectorIndustria {
			return r.tables.IPIRateDefault
		}
		return 0
	case TaxISS:
		if profile.Sector == SectorServicos {
			return r.tables.ISSRateDefault
		}
		return 0
	}
	return 0
}

// effectiveRate converts a net burden into a percentage of revenue, falling
// back to the statutory default when revenue is unknown or the result is
// out of range.
func (r *Resolver) effectiveRate(tax string, net, revenue, fallback float64) float64 {
	if revenue <= 0 {
		if net > 0 {
			r.decision(tax+"-rate", "statutory-default", fallback, ProvenanceEstimated)
			return fallback
		}
		return 0
	}
	rate := net / revenue * 100
	if rate < 0 || rate > 100 {
		r.logger.Warn("effective rate out of range, substituting default",
			slog.String("tax", tax),
			slog.Float64("computed", rate),
			slog.Float64("default", fallback),
		)
		return fallback
	}
	return rate
}
