package resolve

// Tables collects every statutory rate, ratio and curated code list the
// resolvers consult. They are injected rather than hard-coded so layout
// revisions or better-sourced ratios replace a value, not a code path.
// All rates are percentages.
type Tables struct {
	PISRateCumulative    float64
	PISRateNonCumulative float64

	COFINSRateCumulative    float64
	COFINSRateNonCumulative float64

	// COFINSOverPIS is the statutory ratio used to derive one federal
	// contribution from its sibling when only one has ledger data.
	COFINSOverPIS float64

	ICMSRateByUF    map[string]float64
	ICMSRateDefault float64

	IPIRateDefault float64
	ISSRateDefault float64

	// PurchaseBaseRatio approximates the share of revenue spent on
	// credit-eligible purchases; CreditUtilizationRatio the share of those
	// credits actually taken. Both are heuristics, kept configurable.
	PurchaseBaseRatio      float64
	CreditUtilizationRatio float64

	// AnomalyCeiling discards ledger entries and documents at or above this
	// absolute value as data-entry noise.
	AnomalyCeiling float64

	IndustryCFOPs map[string]struct{}
	ServiceCFOPs  map[string]struct{}

	// InboundCreditCFOPs mark purchases that generate tax credits.
	InboundCreditCFOPs map[string]struct{}
}

// DefaultTables returns the statutory defaults for the current layouts.
func DefaultTables() Tables {
	return Tables{
		PISRateCumulative:       0.65,
		PISRateNonCumulative:    1.65,
		COFINSRateCumulative:    3.0,
		COFINSRateNonCumulative: 7.6,
		COFINSOverPIS:           7.6 / 1.65,

		ICMSRateByUF: map[string]float64{
			"AC": 19, "AL": 19, "AM": 20, "AP": 18, "BA": 20.5, "CE": 20,
			"DF": 20, "ES": 17, "GO": 19, "MA": 22, "MG": 18, "MS": 17,
			"MT": 17, "PA": 19, "PB": 20, "PE": 20.5, "PI": 21, "PR": 19.5,
			"RJ": 20, "RN": 18, "RO": 19.5, "RR": 20, "RS": 17, "SC": 17,
			"SE": 19, "SP": 18, "TO": 20,
		},
		ICMSRateDefault: 18,

		IPIRateDefault: 10,
		ISSRateDefault: 5,

		PurchaseBaseRatio:      0.60,
		CreditUtilizationRatio: 0.80,

		AnomalyCeiling: 1e9,

		IndustryCFOPs: cfopSet(
			"5101", "6101", "5103", "6103", "5105", "6105", "5122", "6122",
			"5401", "6401", "5402", "6402", "1101", "2101", "1111", "2111",
		),
		ServiceCFOPs: cfopSet(
			"5933", "6933", "5932", "6932", "1933", "2933", "5253", "6253",
		),
		InboundCreditCFOPs: cfopSet(
			"1101", "2101", "1102", "2102", "1111", "2111", "1113", "2113",
			"1116", "2116", "1117", "2117", "1121", "2121", "1401", "2401",
			"1403", "2403",
		),
	}
}

func cfopSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// ICMSRate looks up the state-average ICMS rate for a UF code.
func (t Tables) ICMSRate(uf string) float64 {
	if rate, ok := t.ICMSRateByUF[uf]; ok {
		return rate
	}
	return t.ICMSRateDefault
}

// WithinBounds reports whether a monetary value is inside the sane range
// [0, AnomalyCeiling).
func (t Tables) WithinBounds(v float64) bool {
	return v >= 0 && v < t.AnomalyCeiling
}
