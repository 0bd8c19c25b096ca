package sped

import (
	"fmt"
	"strings"
)

// Decoder dispatches one line's fields for a given file type. Implemented by
// the decoder registry; the second result reports whether the record code is
// known to the catalogue.
type Decoder interface {
	Decode(ft FileType, fields []string) (*Record, bool)
}

// LineError records a non-fatal decoding failure with its line number.
type LineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// FileMeta summarizes one processed file for the output metadata block.
type FileMeta struct {
	FileName string      `json:"fileName"`
	FileType FileType    `json:"fileType"`
	Lines    int         `json:"lines"`
	Decoded  int         `json:"decoded"`
	Ignored  int         `json:"ignored"`
	Errors   []LineError `json:"errors,omitempty"`
}

// Totals accumulates debit/credit sums per category for diagnostics.
type Totals struct {
	Debits  float64 `json:"debits"`
	Credits float64 `json:"credits"`
}

// Dataset holds the categorized collections extracted from one file, and is
// also the shape the cross-file combiner folds multiple files into.
type Dataset struct {
	Company         *CompanyIdentity
	Documents       []*Document
	Items           []*LineItem
	Participants    []*Participant
	BalanceSheet    []*ValueEntry
	IncomeStatement []*ValueEntry

	AnalyticRates  map[string][]*ValueEntry
	Credits        map[string][]*ValueEntry
	Debits         map[string][]*ValueEntry
	Regimes        map[string][]*RegimeDeclaration
	Adjustments    map[string][]*ValueEntry
	UntaxedRevenue map[string][]*ValueEntry
	Totalizations  map[string][]*ValueEntry

	// GrossRevenue is the period revenue declared by the contributions
	// ledger (record 0111), zero when absent.
	GrossRevenue float64

	CalculatedTotals map[string]Totals
	Files            []FileMeta
}

// NewDataset returns an empty dataset with all map categories initialized.
func NewDataset() *Dataset {
	return &Dataset{
		AnalyticRates:    make(map[string][]*ValueEntry),
		Credits:          make(map[string][]*ValueEntry),
		Debits:           make(map[string][]*ValueEntry),
		Regimes:          make(map[string][]*RegimeDeclaration),
		Adjustments:      make(map[string][]*ValueEntry),
		UntaxedRevenue:   make(map[string][]*ValueEntry),
		Totalizations:    make(map[string][]*ValueEntry),
		CalculatedTotals: make(map[string]Totals),
	}
}

// absoluteMinFields is the lowest field count any SPED line can legally
// carry: leading empty field, record code, one payload field.
const absoluteMinFields = 3

// AggregateFile runs one file's lines through the decoder and buckets the
// typed records by kind. A panic while decoding a single line is recorded as
// a line error and never aborts the file.
func AggregateFile(dec Decoder, ft FileType, fileName string, lines []string) *Dataset {
	ds := NewDataset()
	meta := FileMeta{FileName: fileName, FileType: ft}

	var currentDoc *Document
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		meta.Lines++
		fields := SplitLine(line)
		if len(fields) < absoluteMinFields {
			meta.Errors = append(meta.Errors, LineError{Line: i + 1, Message: "line below minimum field count"})
			continue
		}
		rec, known := safeDecode(dec, ft, fields, i+1, &meta)
		if !known {
			meta.Ignored++
			continue
		}
		if rec == nil {
			// Known code, insufficient fields for its schema.
			continue
		}
		meta.Decoded++
		currentDoc = ds.route(rec, currentDoc)
	}

	ds.attachRelations()
	ds.computeTotals()
	ds.Files = []FileMeta{meta}
	return ds
}

func safeDecode(dec Decoder, ft FileType, fields []string, line int, meta *FileMeta) (rec *Record, known bool) {
	defer func() {
		if r := recover(); r != nil {
			meta.Errors = append(meta.Errors, LineError{Line: line, Message: fmt.Sprintf("decode panic: %v", r)})
			rec, known = nil, true
		}
	}()
	return dec.Decode(ft, fields)
}

// route buckets one record. Line items that immediately follow a document
// record belong to it, so the current document threads through the pass.
func (ds *Dataset) route(rec *Record, currentDoc *Document) *Document {
	switch rec.Kind {
	case KindCompany:
		if rec.Company.PopulatedFields() > ds.Company.PopulatedFields() {
			ds.Company = rec.Company
		}
	case KindDocument:
		ds.Documents = append(ds.Documents, rec.Document)
		return rec.Document
	case KindLineItem:
		if currentDoc != nil {
			rec.Item.DocumentNumber = currentDoc.Number
		}
		ds.Items = append(ds.Items, rec.Item)
	case KindParticipant:
		ds.Participants = append(ds.Participants, rec.Participant)
	case KindAnalyticRate:
		ds.AnalyticRates[rec.Category] = append(ds.AnalyticRates[rec.Category], rec.Entry)
	case KindCredit:
		ds.Credits[rec.Category] = append(ds.Credits[rec.Category], rec.Entry)
	case KindDebit:
		ds.Debits[rec.Category] = append(ds.Debits[rec.Category], rec.Entry)
	case KindRegime:
		ds.Regimes[rec.Category] = append(ds.Regimes[rec.Category], rec.Regime)
	case KindAdjustment:
		ds.Adjustments[rec.Category] = append(ds.Adjustments[rec.Category], rec.Entry)
	case KindUntaxedRevenue:
		ds.UntaxedRevenue[rec.Category] = append(ds.UntaxedRevenue[rec.Category], rec.Entry)
	case KindBalanceSheet:
		ds.BalanceSheet = append(ds.BalanceSheet, rec.Entry)
	case KindIncomeStatement:
		ds.IncomeStatement = append(ds.IncomeStatement, rec.Entry)
	case KindTotalization:
		ds.Totalizations[rec.Category] = append(ds.Totalizations[rec.Category], rec.Entry)
		if ds.GrossRevenue == 0 && rec.Category == CategoryGeral && rec.Entry.Account == "receita-bruta" {
			ds.GrossRevenue = rec.Entry.Value
		}
	}
	return currentDoc
}

// attachRelations links participants to their documents and items to their
// parent document by reference code.
func (ds *Dataset) attachRelations() {
	if len(ds.Participants) > 0 {
		byCode := make(map[string]*Participant, len(ds.Participants))
		for _, p := range ds.Participants {
			if p.Code != "" {
				byCode[p.Code] = p
			}
		}
		for _, doc := range ds.Documents {
			if p, ok := byCode[doc.ParticipantCode]; ok {
				doc.Participant = p
			}
		}
	}
	if len(ds.Items) > 0 {
		byNumber := make(map[string]*Document, len(ds.Documents))
		for _, doc := range ds.Documents {
			if doc.Number != "" {
				byNumber[doc.Number] = doc
			}
		}
		for _, item := range ds.Items {
			if doc, ok := byNumber[item.DocumentNumber]; ok {
				doc.Items = append(doc.Items, *item)
			}
		}
	}
}

// computeTotals sums debit and credit values per category, folding in the
// dual-sided totalization records.
func (ds *Dataset) computeTotals() {
	for category, entries := range ds.Debits {
		t := ds.CalculatedTotals[category]
		for _, e := range entries {
			t.Debits += e.Value
		}
		ds.CalculatedTotals[category] = t
	}
	for category, entries := range ds.Credits {
		t := ds.CalculatedTotals[category]
		for _, e := range entries {
			t.Credits += e.Value
		}
		ds.CalculatedTotals[category] = t
	}
	for category, entries := range ds.Totalizations {
		t := ds.CalculatedTotals[category]
		for _, e := range entries {
			t.Debits += e.Value
			t.Credits += e.Credit
		}
		ds.CalculatedTotals[category] = t
	}
}
