package decoder

import "github.com/spedlens/spedlens/internal/sped"

// efdContribTable covers the federal-contributions ledger (EFD
// Contribuições): gross-revenue declaration, service and goods documents,
// the M-block PIS/COFINS credit and assessment records, and withholdings.
func efdContribTable() map[string]Func {
	return map[string]Func{
		"0000": decodeContrib0000,
		"0110": decodeContrib0110,
		"0111": decodeContrib0111,
		"0140": decodeContrib0140,
		"A100": decodeA100,
		"A170": decodeA170,
		"C100": decodeC100,
		"C170": decodeC170,
		"C181": decodeContribAnalytic("C181", sped.CategoryPIS),
		"C185": decodeContribAnalytic("C185", sped.CategoryCOFINS),
		"F100": decodeMarker,
		"F600": decodeF600,
		"M100": decodeContribCredit("M100", sped.CategoryPIS),
		"M105": decodeMarker,
		"M200": decodeContribAssessment("M200", sped.CategoryPIS),
		"M210": decodeContribDetail("M210", sped.CategoryPIS),
		"M500": decodeContribCredit("M500", sped.CategoryCOFINS),
		"M505": decodeMarker,
		"M600": decodeContribAssessment("M600", sped.CategoryCOFINS),
		"M610": decodeContribDetail("M610", sped.CategoryCOFINS),
	}
}

// |0000|COD_VER|TIPO_ESCRIT|IND_SIT_ESP|NUM_REC_ANTERIOR|DT_INI|DT_FIN|
// NOME|CNPJ|UF|COD_MUN|SUFRAMA|IND_NAT_PJ|IND_ATIV|
func decodeContrib0000(f []string) *sped.Record {
	if len(f) < 12 {
		return nil
	}
	start, startOK := sped.ParseSpedDate(field(f, 6))
	end, endOK := sped.ParseSpedDate(field(f, 7))
	return &sped.Record{
		Kind:     sped.KindCompany,
		Code:     "0000",
		Category: sped.CategoryGeral,
		Company: &sped.CompanyIdentity{
			Name:        field(f, 8),
			CNPJ:        field(f, 9),
			UF:          field(f, 10),
			CityCode:    field(f, 11),
			PeriodStart: start,
			PeriodEnd:   end,
			PeriodOK:    startOK && endOK,
		},
	}
}

// |0110|COD_INC_TRIB|IND_APRO_CRED|COD_TIPO_CONT|IND_REG_CUM|
// COD_INC_TRIB: 1 = exclusively non-cumulative, 2 = exclusively cumulative,
// 3 = both regimes in the period.
func decodeContrib0110(f []string) *sped.Record {
	if len(f) < 3 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindRegime,
		Code:     "0110",
		Category: sped.CategoryGeral,
		Regime: &sped.RegimeDeclaration{
			Code:        field(f, 2),
			Description: "cod_inc_trib",
		},
	}
}

// |0111|REC_BRU_NCUM_TRIB_MI|REC_BRU_NCUM_NT_MI|REC_BRU_NCUM_EXP|
// REC_BRU_CUM|REC_BRU_TOTAL|
func decodeContrib0111(f []string) *sped.Record {
	if len(f) < 7 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindTotalization,
		Code:     "0111",
		Category: sped.CategoryGeral,
		Entry: &sped.ValueEntry{
			Account:     "receita-bruta",
			Description: "receita bruta do periodo",
			Value:       money(f, 6),
			Base:        money(f, 5), // cumulative-regime share
		},
	}
}

// |0140|COD_EST|NOME|CNPJ|UF|IE|COD_MUN|IM|SUFRAMA|
func decodeContrib0140(f []string) *sped.Record {
	if len(f) < 6 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindCompany,
		Code:     "0140",
		Category: sped.CategoryGeral,
		Company: &sped.CompanyIdentity{
			Name:     field(f, 3),
			CNPJ:     field(f, 4),
			UF:       field(f, 5),
			IE:       field(f, 6),
			CityCode: field(f, 7),
		},
	}
}

// |A100|IND_OPER|IND_EMIT|COD_PART|COD_SIT|SER|SUB|NUM_DOC|CHV_NFSE|DT_DOC|
// DT_EXE_SERV|VL_DOC|IND_PGTO|VL_DESC|VL_BC_PIS|VL_PIS|VL_BC_COFINS|
// VL_COFINS|VL_PIS_RET|VL_COFINS_RET|VL_ISS|
func decodeA100(f []string) *sped.Record {
	if len(f) < 13 {
		return nil
	}
	date, dateOK := sped.ParseSpedDate(field(f, 10))
	dir := sped.DirectionInbound
	if field(f, 2) == "1" {
		dir = sped.DirectionOutbound
	}
	return &sped.Record{
		Kind:     sped.KindDocument,
		Code:     "A100",
		Category: sped.CategoryISS,
		Document: &sped.Document{
			Direction:       dir,
			ParticipantCode: field(f, 4),
			Number:          field(f, 8),
			Model:           "NFS-e",
			Date:            date,
			DateOK:          dateOK,
			Value:           money(f, 12),
			PIS:             money(f, 16),
			COFINS:          money(f, 18),
			ISS:             money(f, 21),
		},
	}
}

// |A170|NUM_ITEM|COD_ITEM|DESCR_COMPL|VL_ITEM|VL_DESC|NAT_BC_CRED|
// IND_ORIG_CRED|CST_PIS|VL_BC_PIS|ALIQ_PIS|VL_PIS|...
func decodeA170(f []string) *sped.Record {
	if len(f) < 6 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindLineItem,
		Code:     "A170",
		Category: sped.CategoryISS,
		Item: &sped.LineItem{
			ItemCode: field(f, 3),
			CST:      field(f, 9),
			Value:    money(f, 5),
		},
	}
}

// C181/C185 carry per-CFOP contribution detail on consolidated documents:
// |CST|CFOP|VL_ITEM|VL_DESC|VL_BC|ALIQ|QUANT_BC|ALIQ_QUANT|VL_CONT|COD_CTA|
func decodeContribAnalytic(code, category string) Func {
	return func(f []string) *sped.Record {
		if len(f) < 8 {
			return nil
		}
		return &sped.Record{
			Kind:     sped.KindAnalyticRate,
			Code:     code,
			Category: category,
			Entry: &sped.ValueEntry{
				Account: field(f, 3), // CFOP
				Base:    money(f, 6),
				Rate:    money(f, 7),
				Value:   money(f, 10),
			},
		}
	}
}

// |F600|IND_NAT_RET|DT_RET|VL_BC_RET|VL_RET|COD_REC|...
func decodeF600(f []string) *sped.Record {
	if len(f) < 6 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindAdjustment,
		Code:     "F600",
		Category: sped.CategoryGeral,
		Entry: &sped.ValueEntry{
			Description: "retencao na fonte",
			Base:        money(f, 4),
			Value:       money(f, 5),
		},
	}
}

// M100/M500 declare credits discounted in the period:
// |COD_CRED|IND_CRED_ORI|VL_BC|ALIQ|QUANT_BC|ALIQ_QUANT|VL_CRED|
// IND_DESC_CRED|VL_CRED_DESC|SLD_CRED|
func decodeContribCredit(code, category string) Func {
	return func(f []string) *sped.Record {
		if len(f) < 9 {
			return nil
		}
		return &sped.Record{
			Kind:     sped.KindCredit,
			Code:     code,
			Category: category,
			Entry: &sped.ValueEntry{
				Account: field(f, 2),
				Base:    money(f, 4),
				Rate:    money(f, 5),
				Value:   money(f, 8),
			},
		}
	}
}

// M200/M600 consolidate the period's contribution:
// |VL_TOT_CONT_NC_PER|VL_TOT_CRED_DESC|VL_TOT_CRED_DESC_ANT|
// VL_TOT_CONT_NC_DEV|VL_RET_NC|VL_OUT_DED_NC|VL_CONT_NC_REC|
// VL_TOT_CONT_CUM_PER|VL_RET_CUM|VL_OUT_DED_CUM|VL_CONT_CUM_REC|
// VL_TOT_CONT_REC|
func decodeContribAssessment(code, category string) Func {
	return func(f []string) *sped.Record {
		if len(f) < 10 {
			return nil
		}
		return &sped.Record{
			Kind:     sped.KindDebit,
			Code:     code,
			Category: category,
			Entry: &sped.ValueEntry{
				Description: "contribuicao apurada no periodo",
				Value:       money(f, 2) + money(f, 9),
				Credit:      money(f, 3),
			},
		}
	}
}

// M210/M610 break the assessment down per contribution code:
// |COD_CONT|VL_REC_BRT|VL_BC_CONT|ALIQ|QUANT_BC|ALIQ_QUANT|VL_CONT_APUR|
// VL_AJUS_ACRES|VL_AJUS_REDUC|VL_CONT_DIFER|VL_CONT_DIFER_ANT|VL_CONT_PER|
func decodeContribDetail(code, category string) Func {
	return func(f []string) *sped.Record {
		if len(f) < 9 {
			return nil
		}
		value := money(f, 13)
		if value == 0 {
			value = money(f, 8)
		}
		return &sped.Record{
			Kind:     sped.KindTotalization,
			Code:     code,
			Category: category,
			Entry: &sped.ValueEntry{
				Account: field(f, 2),
				Base:    money(f, 3), // gross revenue reported on the detail
				Rate:    money(f, 5),
				Value:   value,
			},
		}
	}
}
