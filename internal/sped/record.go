// Package sped turns Brazilian SPED bookkeeping exports (EFD ICMS/IPI,
// EFD Contribuições, ECF and ECD) into a normalized tax dataset for the
// downstream simulator.
package sped

import (
	"strings"
	"time"
)

// Delimiter separates fields on every SPED line.
const Delimiter = "|"

// FileType identifies which of the four record catalogues a file follows.
type FileType string

const (
	FileTypeEFDICMS    FileType = "efd-icms-ipi"
	FileTypeEFDContrib FileType = "efd-contribuicoes"
	FileTypeECF        FileType = "ecf"
	FileTypeECD        FileType = "ecd"
)

// Kind classifies what a decoded record represents.
type Kind string

const (
	KindCompany         Kind = "company"
	KindDocument        Kind = "document"
	KindLineItem        Kind = "line-item"
	KindAnalyticRate    Kind = "analytic-rate"
	KindParticipant     Kind = "participant"
	KindCredit          Kind = "credit"
	KindDebit           Kind = "debit"
	KindRegime          Kind = "regime"
	KindAdjustment      Kind = "adjustment"
	KindUntaxedRevenue  Kind = "untaxed-revenue"
	KindBalanceSheet    Kind = "balance-sheet-entry"
	KindIncomeStatement Kind = "income-statement-entry"
	KindTotalization    Kind = "totalization"
	KindOther           Kind = "other"
)

// Tax category keys used throughout aggregation and resolution.
const (
	CategoryPIS    = "pis"
	CategoryCOFINS = "cofins"
	CategoryICMS   = "icms"
	CategoryIPI    = "ipi"
	CategoryISS    = "iss"
	CategoryIRPJ   = "irpj"
	CategoryGeral  = "geral"
)

// Direction of a fiscal document relative to the reporting company.
type Direction string

const (
	DirectionInbound  Direction = "entrada"
	DirectionOutbound Direction = "saida"
)

// CompanyIdentity carries the opening-record identification of the company.
type CompanyIdentity struct {
	Name        string
	CNPJ        string
	CPF         string
	UF          string
	IE          string
	CityCode    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	PeriodOK    bool
}

// PopulatedFields counts how many identity fields carry data. The combiner
// keeps whichever identity is more complete.
func (c *CompanyIdentity) PopulatedFields() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, v := range []string{c.Name, c.CNPJ, c.CPF, c.UF, c.IE, c.CityCode} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// Document is a fiscal document header (NF-e, service invoice, transport doc).
type Document struct {
	Direction       Direction
	ParticipantCode string
	Number          string
	Model           string
	Date            time.Time
	DateOK          bool
	Value           float64
	ICMS            float64
	IPI             float64
	PIS             float64
	COFINS          float64
	ISS             float64
	Items           []LineItem
	Participant     *Participant
}

// LineItem is a document item carrying the CFOP that drives sector inference.
type LineItem struct {
	DocumentNumber string
	ItemCode       string
	CFOP           string
	CST            string
	Value          float64
	ICMSValue      float64
	IPIValue       float64
}

// Participant identifies a counterparty declared in the file.
type Participant struct {
	Code string
	Name string
	CNPJ string
	CPF  string
}

// RegimeDeclaration carries an explicit tax-regime indicator record.
type RegimeDeclaration struct {
	Code        string
	Description string
}

// ValueEntry is the shared payload for ledger-valued kinds: credits, debits,
// adjustments, totalizations, untaxed revenue and statement lines. Value holds
// the primary amount; Credit is populated when a single record carries both
// sides (e.g. the ICMS apuração record).
type ValueEntry struct {
	Account     string
	Description string
	Value       float64
	Base        float64
	Rate        float64
	Credit      float64
}

// Record is the typed result of decoding one raw line. Exactly one payload
// pointer is set according to Kind; ledger-valued kinds share ValueEntry.
type Record struct {
	Kind     Kind
	Code     string
	Category string

	Company     *CompanyIdentity
	Document    *Document
	Item        *LineItem
	Participant *Participant
	Regime      *RegimeDeclaration
	Entry       *ValueEntry
}

// SplitLine breaks a raw SPED line into its delimited fields. The leading
// delimiter yields an empty first field; the record code sits at index 1.
func SplitLine(line string) []string {
	trimmed := strings.TrimRight(line, "\r\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, Delimiter)
}

// RecordCode extracts the record code from split fields, upper-cased.
// Returns "" when the line does not follow the SPED layout.
func RecordCode(fields []string) string {
	if len(fields) < 2 {
		return ""
	}
	code := strings.ToUpper(strings.TrimSpace(fields[1]))
	if len(code) < 3 || len(code) > 4 {
		return ""
	}
	return code
}
