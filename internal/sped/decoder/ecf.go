package decoder

import "github.com/spedlens/spedlens/internal/sped"

// ecfTable covers the corporate income-tax bookkeeping (ECF): identification,
// the taxation-form parameter, referenced balance sheet and income statement
// blocks for both real and presumido regimes, and the IRPJ assessment lines.
func ecfTable() map[string]Func {
	return map[string]Func{
		"0000": decodeECF0000,
		"0010": decodeECF0010,
		"0020": decodeMarker,
		"L100": decodeECFStatement("L100", sped.KindBalanceSheet),
		"L300": decodeECFStatement("L300", sped.KindIncomeStatement),
		"N500": decodeECFValue("N500", sped.KindTotalization),
		"N620": decodeECFValue("N620", sped.KindAdjustment),
		"N630": decodeECFValue("N630", sped.KindDebit),
		"P100": decodeECFStatement("P100", sped.KindBalanceSheet),
		"P150": decodeECFStatement("P150", sped.KindIncomeStatement),
		"P200": decodeECFValue("P200", sped.KindTotalization),
	}
}

// |0000|LECF|COD_VER|CNPJ|NOME|IND_SIT_INI_PER|SIT_ESPECIAL|PAT_REMAN_CIS|
// DT_SIT_ESP|DT_INI|DT_FIN|...
func decodeECF0000(f []string) *sped.Record {
	if len(f) < 6 {
		return nil
	}
	start, startOK := sped.ParseSpedDate(field(f, 10))
	end, endOK := sped.ParseSpedDate(field(f, 11))
	return &sped.Record{
		Kind:     sped.KindCompany,
		Code:     "0000",
		Category: sped.CategoryIRPJ,
		Company: &sped.CompanyIdentity{
			Name:        field(f, 5),
			CNPJ:        field(f, 4),
			PeriodStart: start,
			PeriodEnd:   end,
			PeriodOK:    startOK && endOK,
		},
	}
}

// |0010|HASH_ECF_ANTERIOR|OPT_REFIS|OPT_PAES|FORMA_APUR|FORMA_TRIB|...
// FORMA_TRIB: 1-2 lucro real, 3-4 mixed real, 5/7 presumido, 6 arbitrado,
// 8-9 imune/isenta. Some municipal exports ship "S" for Simples optants.
func decodeECF0010(f []string) *sped.Record {
	if len(f) < 7 {
		return nil
	}
	code := field(f, 6)
	category := sped.CategoryIRPJ
	if code == "S" {
		category = "simples"
	}
	return &sped.Record{
		Kind:     sped.KindRegime,
		Code:     "0010",
		Category: category,
		Regime: &sped.RegimeDeclaration{
			Code:        code,
			Description: "forma_trib",
		},
	}
}

// Referenced statement rows share the layout
// |CODIGO|DESCRICAO|TIPO|NIVEL|COD_NAT|COD_CTA_SUP|VALOR...|IND_VALOR|;
// balance rows carry opening and closing values, income rows a single one.
func decodeECFStatement(code string, kind sped.Kind) Func {
	valueIdx := 8
	if kind == sped.KindBalanceSheet {
		valueIdx = 10 // closing balance
	}
	return func(f []string) *sped.Record {
		if len(f) < valueIdx+1 {
			return nil
		}
		return &sped.Record{
			Kind:     kind,
			Code:     code,
			Category: sped.CategoryIRPJ,
			Entry: &sped.ValueEntry{
				Account:     field(f, 2),
				Description: field(f, 3),
				Value:       money(f, valueIdx),
			},
		}
	}
}

// Assessment lines carry |CODIGO|DESCRICAO|VALOR| in the N/P blocks.
func decodeECFValue(code string, kind sped.Kind) Func {
	return func(f []string) *sped.Record {
		if len(f) < 5 {
			return nil
		}
		return &sped.Record{
			Kind:     kind,
			Code:     code,
			Category: sped.CategoryIRPJ,
			Entry: &sped.ValueEntry{
				Account:     field(f, 2),
				Description: field(f, 3),
				Value:       money(f, 4),
			},
		}
	}
}
