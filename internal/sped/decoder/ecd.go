package decoder

import "github.com/spedlens/spedlens/internal/sped"

// ecdTable covers the general accounting bookkeeping (ECD): identification,
// chart-of-accounts markers, period account balances and the aggregated
// balance-sheet and income-statement blocks.
func ecdTable() map[string]Func {
	return map[string]Func{
		"0000": decodeECD0000,
		"0007": decodeMarker,
		"I050": decodeMarker,
		"I150": decodeMarker,
		"I155": decodeI155,
		"I200": decodeMarker,
		"I250": decodeMarker,
		"J100": decodeJ100,
		"J150": decodeJ150,
	}
}

// |0000|LECD|DT_INI|DT_FIN|NOME|CNPJ|UF|IE|COD_MUN|...
func decodeECD0000(f []string) *sped.Record {
	if len(f) < 7 {
		return nil
	}
	start, startOK := sped.ParseSpedDate(field(f, 3))
	end, endOK := sped.ParseSpedDate(field(f, 4))
	return &sped.Record{
		Kind:     sped.KindCompany,
		Code:     "0000",
		Category: sped.CategoryGeral,
		Company: &sped.CompanyIdentity{
			Name:        field(f, 5),
			CNPJ:        field(f, 6),
			UF:          field(f, 7),
			IE:          field(f, 8),
			CityCode:    field(f, 9),
			PeriodStart: start,
			PeriodEnd:   end,
			PeriodOK:    startOK && endOK,
		},
	}
}

// |I155|COD_CTA|COD_CCUS|VL_SLD_INI|IND_DC_INI|VL_DEB|VL_CRED|VL_SLD_FIN|
// IND_DC_FIN|. Base carries the period debits, Credit the period credits;
// Value is the closing balance.
func decodeI155(f []string) *sped.Record {
	if len(f) < 9 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindBalanceSheet,
		Code:     "I155",
		Category: sped.CategoryGeral,
		Entry: &sped.ValueEntry{
			Account: field(f, 2),
			Base:    money(f, 6),
			Credit:  money(f, 7),
			Value:   money(f, 8),
		},
	}
}

// |J100|COD_AGL|NIVEL_AGL|IND_GRP_BAL|DESCR_COD_AGL|VL_CTA_FIN|IND_DC_CTA_FIN|...
func decodeJ100(f []string) *sped.Record {
	if len(f) < 7 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindBalanceSheet,
		Code:     "J100",
		Category: sped.CategoryGeral,
		Entry: &sped.ValueEntry{
			Account:     field(f, 2),
			Description: field(f, 5),
			Value:       money(f, 6),
		},
	}
}

// |J150|NU_ORDEM|COD_AGL|NIVEL_AGL|COD_AGL_SUP|IND_COD_AGL|DESCR_COD_AGL|
// VL_CTA_FIN|IND_VL_CTA_FIN|...
func decodeJ150(f []string) *sped.Record {
	if len(f) < 9 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindIncomeStatement,
		Code:     "J150",
		Category: sped.CategoryGeral,
		Entry: &sped.ValueEntry{
			Account:     field(f, 3),
			Description: field(f, 7),
			Value:       money(f, 8),
		},
	}
}
