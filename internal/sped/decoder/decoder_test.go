package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spedlens/spedlens/internal/sped"
)

func decode(t *testing.T, ft sped.FileType, line string) *sped.Record {
	t.Helper()
	rec, known := NewRegistry().Decode(ft, sped.SplitLine(line))
	require.True(t, known, "code should be catalogued: %s", line)
	require.NotNil(t, rec, "line should decode: %s", line)
	return rec
}

func TestDecodeUnknownCode(t *testing.T) {
	r := NewRegistry()
	rec, known := r.Decode(sped.FileTypeEFDICMS, sped.SplitLine("|Z999|x|"))
	require.False(t, known)
	require.Nil(t, rec)

	rec, known = r.Decode(sped.FileTypeEFDICMS, sped.SplitLine("|not a code|x|"))
	require.False(t, known)
	require.Nil(t, rec)
}

func TestDecodeKnownCodeTooShortReturnsNil(t *testing.T) {
	r := NewRegistry()
	rec, known := r.Decode(sped.FileTypeEFDICMS, sped.SplitLine("|C100|1|"))
	require.True(t, known)
	require.Nil(t, rec)
}

func TestKnownCodesAndFileTypes(t *testing.T) {
	r := NewRegistry()
	require.Len(t, r.FileTypes(), 4)
	codes := r.KnownCodes(sped.FileTypeEFDContrib)
	require.Contains(t, codes, "M200")
	require.Contains(t, codes, "0111")
	require.NotContains(t, codes, "E110")
}

func TestDecodeEFDICMSOpening(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDICMS,
		"|0000|017|0|01042024|30042024|ACME COMERCIO LTDA|12345678000190||SP|123456|3550308|||A|1|")

	require.Equal(t, sped.KindCompany, rec.Kind)
	require.Equal(t, "ACME COMERCIO LTDA", rec.Company.Name)
	require.Equal(t, "12345678000190", rec.Company.CNPJ)
	require.Equal(t, "SP", rec.Company.UF)
	require.True(t, rec.Company.PeriodOK)
	require.Equal(t, 2024, rec.Company.PeriodStart.Year())
}

func TestDecodeC100(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDICMS,
		"|C100|1|0|P001|55|00|1|42|CHAVE|02042024|02042024|5000,00|0|0,00|0,00|5000,00|9|0,00|0,00|0,00|5000,00|900,00|0,00|0,00|50,00|32,50|150,00|")

	require.Equal(t, sped.KindDocument, rec.Kind)
	doc := rec.Document
	require.Equal(t, sped.DirectionOutbound, doc.Direction)
	require.Equal(t, "P001", doc.ParticipantCode)
	require.Equal(t, "42", doc.Number)
	require.True(t, doc.DateOK)
	require.Equal(t, 5000.0, doc.Value)
	require.Equal(t, 900.0, doc.ICMS)
	require.Equal(t, 50.0, doc.IPI)
	require.Equal(t, 32.5, doc.PIS)
	require.Equal(t, 150.0, doc.COFINS)
}

func TestDecodeC100InboundAndBadDate(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDICMS,
		"|C100|0|1|P002|55|00|1|43|CHAVE|31132024||800,00|0|")
	require.Equal(t, sped.DirectionInbound, rec.Document.Direction)
	require.False(t, rec.Document.DateOK, "month 13 is not a date")
}

func TestDecodeE110AndE520(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDICMS, "|E110|1500,00|0,00|0,00|0,00|400,00|0,00|0,00|0,00|0,00|0,00|1100,00|0,00|0,00|0,00|")
	require.Equal(t, sped.KindTotalization, rec.Kind)
	require.Equal(t, sped.CategoryICMS, rec.Category)
	require.Equal(t, 1500.0, rec.Entry.Value)
	require.Equal(t, 400.0, rec.Entry.Credit)

	rec = decode(t, sped.FileTypeEFDICMS, "|E520|0,00|300,00|120,00|0,00|0,00|180,00|")
	require.Equal(t, sped.CategoryIPI, rec.Category)
	require.Equal(t, 300.0, rec.Entry.Value)
	require.Equal(t, 120.0, rec.Entry.Credit)
}

func TestDecodeContribRegimeAndRevenue(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDContrib, "|0110|2|1|1||")
	require.Equal(t, sped.KindRegime, rec.Kind)
	require.Equal(t, "2", rec.Regime.Code)

	rec = decode(t, sped.FileTypeEFDContrib, "|0111|95000,00|0,00|5000,00|0,00|100000,00|")
	require.Equal(t, sped.KindTotalization, rec.Kind)
	require.Equal(t, "receita-bruta", rec.Entry.Account)
	require.Equal(t, 100000.0, rec.Entry.Value)
}

func TestDecodeContribAssessment(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDContrib,
		"|M200|1650,00|200,00|0,00|0,00|0,00|0,00|1450,00|350,00|0,00|0,00|350,00|1800,00|")
	require.Equal(t, sped.KindDebit, rec.Kind)
	require.Equal(t, sped.CategoryPIS, rec.Category)
	require.Equal(t, 2000.0, rec.Entry.Value, "non-cumulative plus cumulative shares")
	require.Equal(t, 200.0, rec.Entry.Credit)

	rec = decode(t, sped.FileTypeEFDContrib,
		"|M600|7600,00|0,00|0,00|0,00|0,00|0,00|7600,00|0,00|0,00|0,00|0,00|7600,00|")
	require.Equal(t, sped.CategoryCOFINS, rec.Category)
	require.Equal(t, 7600.0, rec.Entry.Value)
}

func TestDecodeContribCreditAndDetail(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDContrib, "|M100|101|0|20000,00|1,6500|||330,00|0|0,00|330,00|")
	require.Equal(t, sped.KindCredit, rec.Kind)
	require.Equal(t, sped.CategoryPIS, rec.Category)
	require.Equal(t, 330.0, rec.Entry.Value)

	rec = decode(t, sped.FileTypeEFDContrib, "|M210|01|100000,00|100000,00|1,65|||1650,00|0,00|0,00|0,00|0,00|1650,00|")
	require.Equal(t, sped.KindTotalization, rec.Kind)
	require.Equal(t, 1650.0, rec.Entry.Value)
	require.Equal(t, 100000.0, rec.Entry.Base)
}

func TestDecodeA100ServiceDocument(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDContrib,
		"|A100|1|0|P009|00|1||77|CHV|05042024|05042024|2000,00|0|0,00|2000,00|13,00|2000,00|60,00|0,00|0,00|100,00|")
	require.Equal(t, sped.CategoryISS, rec.Category)
	doc := rec.Document
	require.Equal(t, sped.DirectionOutbound, doc.Direction)
	require.Equal(t, "NFS-e", doc.Model)
	require.Equal(t, 2000.0, doc.Value)
	require.Equal(t, 100.0, doc.ISS)
}

func TestDecodeECFRegime(t *testing.T) {
	rec := decode(t, sped.FileTypeECF, "|0010||N|N|A|1|0|||")
	require.Equal(t, sped.KindRegime, rec.Kind)
	require.Equal(t, sped.CategoryIRPJ, rec.Category)
	require.Equal(t, "1", rec.Regime.Code)

	rec = decode(t, sped.FileTypeECF, "|0010||N|N|A|S|0|||")
	require.Equal(t, "simples", rec.Category)
}

func TestDecodeECFIncomeStatement(t *testing.T) {
	rec := decode(t, sped.FileTypeECF,
		"|L300|3.01.01|RECEITA LIQUIDA|A|3|01|3.01|1200000,00|C|")
	require.Equal(t, sped.KindIncomeStatement, rec.Kind)
	require.Equal(t, "3.01.01", rec.Entry.Account)
	require.Equal(t, 1200000.0, rec.Entry.Value)
}

func TestDecodeECDBalanceAndIncome(t *testing.T) {
	rec := decode(t, sped.FileTypeECD, "|I155|1.01.01||5000,00|D|12000,00|9000,00|8000,00|D|")
	require.Equal(t, sped.KindBalanceSheet, rec.Kind)
	require.Equal(t, "1.01.01", rec.Entry.Account)
	require.Equal(t, 12000.0, rec.Entry.Base)
	require.Equal(t, 9000.0, rec.Entry.Credit)
	require.Equal(t, 8000.0, rec.Entry.Value)

	rec = decode(t, sped.FileTypeECD, "|J150|1|3.01|2|3|T|RECEITA LIQUIDA|950000,00|C|")
	require.Equal(t, sped.KindIncomeStatement, rec.Kind)
	require.Equal(t, "3.01", rec.Entry.Account)
	require.Equal(t, "RECEITA LIQUIDA", rec.Entry.Description)
	require.Equal(t, 950000.0, rec.Entry.Value)
}

func TestDecodeMarkerKeepsCode(t *testing.T) {
	rec := decode(t, sped.FileTypeEFDICMS, "|E100|01042024|30042024|")
	require.Equal(t, sped.KindOther, rec.Kind)
	require.Equal(t, "E100", rec.Code)
}
