package sped

// Combine folds any number of per-file datasets into one consolidated
// dataset. List categories concatenate, map categories merge per key, the
// most complete company identity wins, and scalar facts keep the first
// nonzero value. Combining with an empty dataset changes nothing, so the
// fold is idempotent under empty inputs.
func Combine(datasets ...*Dataset) *Dataset {
	out := NewDataset()
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		mergeInto(out, ds)
	}
	return out
}

func mergeInto(dst, src *Dataset) {
	if src.Company.PopulatedFields() > dst.Company.PopulatedFields() {
		dst.Company = src.Company
	} else if dst.Company != nil && dst.Company.Name == "" && src.Company != nil && src.Company.Name != "" {
		dst.Company = src.Company
	}

	dst.Documents = append(dst.Documents, src.Documents...)
	dst.Items = append(dst.Items, src.Items...)
	dst.Participants = append(dst.Participants, src.Participants...)
	dst.BalanceSheet = append(dst.BalanceSheet, src.BalanceSheet...)
	dst.IncomeStatement = append(dst.IncomeStatement, src.IncomeStatement...)

	mergeEntryMap(dst.AnalyticRates, src.AnalyticRates)
	mergeEntryMap(dst.Credits, src.Credits)
	mergeEntryMap(dst.Debits, src.Debits)
	mergeEntryMap(dst.Adjustments, src.Adjustments)
	mergeEntryMap(dst.UntaxedRevenue, src.UntaxedRevenue)
	mergeEntryMap(dst.Totalizations, src.Totalizations)
	for category, regimes := range src.Regimes {
		dst.Regimes[category] = append(dst.Regimes[category], regimes...)
	}

	if dst.GrossRevenue == 0 && src.GrossRevenue > 0 {
		dst.GrossRevenue = src.GrossRevenue
	}

	for category, totals := range src.CalculatedTotals {
		t := dst.CalculatedTotals[category]
		t.Debits += totals.Debits
		t.Credits += totals.Credits
		dst.CalculatedTotals[category] = t
	}

	dst.Files = append(dst.Files, src.Files...)
}

func mergeEntryMap(dst, src map[string][]*ValueEntry) {
	for category, entries := range src {
		dst[category] = append(dst[category], entries...)
	}
}
