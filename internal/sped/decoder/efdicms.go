package decoder

import "github.com/spedlens/spedlens/internal/sped"

// efdICMSTable covers the goods-tax ledger (EFD ICMS/IPI) subset: opening
// identification, participants, fiscal documents and items, the ICMS and IPI
// assessment blocks, and enough block markers to make classification robust.
func efdICMSTable() map[string]Func {
	return map[string]Func{
		"0000": decodeEFDICMS0000,
		"0150": decode0150,
		"C100": decodeC100,
		"C170": decodeC170,
		"C190": decodeC190,
		"D100": decodeD100,
		"E100": decodeMarker,
		"E110": decodeE110,
		"E111": decodeE111,
		"E200": decodeMarker,
		"E210": decodeE210,
		"E500": decodeMarker,
		"E510": decodeE510,
		"E520": decodeE520,
		"H005": decodeH005,
		"1010": decodeMarker,
	}
}

// |0000|COD_VER|COD_FIN|DT_INI|DT_FIN|NOME|CNPJ|CPF|UF|IE|COD_MUN|...
func decodeEFDICMS0000(f []string) *sped.Record {
	if len(f) < 11 {
		return nil
	}
	start, startOK := sped.ParseSpedDate(field(f, 4))
	end, endOK := sped.ParseSpedDate(field(f, 5))
	return &sped.Record{
		Kind:     sped.KindCompany,
		Code:     "0000",
		Category: sped.CategoryGeral,
		Company: &sped.CompanyIdentity{
			Name:        field(f, 6),
			CNPJ:        field(f, 7),
			CPF:         field(f, 8),
			UF:          field(f, 9),
			IE:          field(f, 10),
			CityCode:    field(f, 11),
			PeriodStart: start,
			PeriodEnd:   end,
			PeriodOK:    startOK && endOK,
		},
	}
}

// |0150|COD_PART|NOME|COD_PAIS|CNPJ|CPF|IE|...
func decode0150(f []string) *sped.Record {
	if len(f) < 4 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindParticipant,
		Code:     "0150",
		Category: sped.CategoryGeral,
		Participant: &sped.Participant{
			Code: field(f, 2),
			Name: field(f, 3),
			CNPJ: field(f, 5),
			CPF:  field(f, 6),
		},
	}
}

// |C100|IND_OPER|IND_EMIT|COD_PART|COD_MOD|COD_SIT|SER|NUM_DOC|CHV_NFE|
// DT_DOC|DT_E_S|VL_DOC|...|VL_BC_ICMS|VL_ICMS|...|VL_IPI|VL_PIS|VL_COFINS|...
func decodeC100(f []string) *sped.Record {
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
		Code:     "C100",
		Category: sped.CategoryGeral,
		Document: &sped.Document{
			Direction:       dir,
			ParticipantCode: field(f, 4),
			Number:          field(f, 8),
			Model:           field(f, 5),
			Date:            date,
			DateOK:          dateOK,
			Value:           money(f, 12),
			ICMS:            money(f, 22),
			IPI:             money(f, 25),
			PIS:             money(f, 26),
			COFINS:          money(f, 27),
		},
	}
}

// |C170|NUM_ITEM|COD_ITEM|DESCR_COMPL|QTD|UNID|VL_ITEM|VL_DESC|IND_MOV|
// CST_ICMS|CFOP|COD_NAT|VL_BC_ICMS|ALIQ_ICMS|VL_ICMS|...|VL_IPI|...
func decodeC170(f []string) *sped.Record {
	if len(f) < 12 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindLineItem,
		Code:     "C170",
		Category: sped.CategoryGeral,
		Item: &sped.LineItem{
			ItemCode:  field(f, 3),
			CST:       field(f, 10),
			CFOP:      field(f, 11),
			Value:     money(f, 7),
			ICMSValue: money(f, 15),
			IPIValue:  money(f, 24),
		},
	}
}

// |C190|CST_ICMS|CFOP|ALIQ_ICMS|VL_OPR|VL_BC_ICMS|VL_ICMS|...|VL_IPI|...
func decodeC190(f []string) *sped.Record {
	if len(f) < 8 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindAnalyticRate,
		Code:     "C190",
		Category: sped.CategoryICMS,
		Entry: &sped.ValueEntry{
			Account: field(f, 3), // CFOP
			Rate:    money(f, 4),
			Base:    money(f, 6),
			Value:   money(f, 7),
		},
	}
}

// |D100|IND_OPER|IND_EMIT|COD_PART|COD_MOD|COD_SIT|SER|SUB|NUM_DOC|CHV_CTE|
// DT_DOC|...|VL_DOC|...
func decodeD100(f []string) *sped.Record {
	if len(f) < 16 {
		return nil
	}
	date, dateOK := sped.ParseSpedDate(field(f, 11))
	dir := sped.DirectionInbound
	if field(f, 2) == "1" {
		dir = sped.DirectionOutbound
	}
	return &sped.Record{
		Kind:     sped.KindDocument,
		Code:     "D100",
		Category: sped.CategoryGeral,
		Document: &sped.Document{
			Direction:       dir,
			ParticipantCode: field(f, 4),
			Number:          field(f, 9),
			Model:           field(f, 5),
			Date:            date,
			DateOK:          dateOK,
			Value:           money(f, 15),
			ICMS:            money(f, 20),
		},
	}
}

// |E110|VL_TOT_DEBITOS|VL_AJ_DEBITOS|VL_TOT_AJ_DEBITOS|VL_ESTORNOS_CRED|
// VL_TOT_CREDITOS|...|VL_ICMS_RECOLHER|...
func decodeE110(f []string) *sped.Record {
	if len(f) < 7 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindTotalization,
		Code:     "E110",
		Category: sped.CategoryICMS,
		Entry: &sped.ValueEntry{
			Description: "apuracao icms",
			Value:       money(f, 2),
			Credit:      money(f, 6),
		},
	}
}

// |E111|COD_AJ_APUR|DESCR_COMPL_AJ|VL_AJ_APUR|
func decodeE111(f []string) *sped.Record {
	if len(f) < 5 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindAdjustment,
		Code:     "E111",
		Category: sped.CategoryICMS,
		Entry: &sped.ValueEntry{
			Account:     field(f, 2),
			Description: field(f, 3),
			Value:       money(f, 4),
		},
	}
}

// |E210|IND_MOV_ST|VL_SLD_CRED_ANT_ST|VL_DEVOL_ST|VL_RESSARC_ST|...|VL_RETENCAO_ST|...
func decodeE210(f []string) *sped.Record {
	if len(f) < 9 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindAdjustment,
		Code:     "E210",
		Category: sped.CategoryICMS,
		Entry: &sped.ValueEntry{
			Description: "substituicao tributaria",
			Value:       money(f, 8),
		},
	}
}

// |E510|CFOP|CST_IPI|VL_CONT_IPI|VL_BC_IPI|VL_IPI|
func decodeE510(f []string) *sped.Record {
	if len(f) < 7 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindAnalyticRate,
		Code:     "E510",
		Category: sped.CategoryIPI,
		Entry: &sped.ValueEntry{
			Account: field(f, 2), // CFOP
			Base:    money(f, 5),
			Value:   money(f, 6),
		},
	}
}

// |E520|VL_SD_ANT_IPI|VL_DEB_IPI|VL_CRED_IPI|VL_SD_IPI|...
func decodeE520(f []string) *sped.Record {
	if len(f) < 6 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindTotalization,
		Code:     "E520",
		Category: sped.CategoryIPI,
		Entry: &sped.ValueEntry{
			Description: "apuracao ipi",
			Value:       money(f, 3),
			Credit:      money(f, 4),
		},
	}
}

// |H005|DT_INV|VL_INV|MOT_INV|
func decodeH005(f []string) *sped.Record {
	if len(f) < 4 {
		return nil
	}
	return &sped.Record{
		Kind:     sped.KindBalanceSheet,
		Code:     "H005",
		Category: sped.CategoryGeral,
		Entry: &sped.ValueEntry{
			Description: "inventario",
			Value:       money(f, 3),
		},
	}
}

// decodeMarker handles block and period openers that carry no figures but
// still anchor file-type classification.
func decodeMarker(f []string) *sped.Record {
	if len(f) < 2 {
		return nil
	}
	return &sped.Record{Kind: sped.KindOther, Code: sped.RecordCode(f), Category: sped.CategoryGeral}
}
