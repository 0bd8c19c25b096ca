// Package analysis orchestrates the full pipeline: classify each file,
// decode and aggregate it, combine the per-file datasets and resolve the
// normalized company profile and tax composition.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spedlens/spedlens/internal/observability"
	"github.com/spedlens/spedlens/internal/sped"
	"github.com/spedlens/spedlens/internal/sped/decoder"
	"github.com/spedlens/spedlens/internal/sped/resolve"
)

// Reliability labels summarize how much of the result rests on direct
// ledger data.
const (
	ReliabilityHigh   = "high"
	ReliabilityMedium = "medium"
	ReliabilityLow    = "low"
)

// FileInput is one file handed to the pipeline: its (optional) name and its
// fully buffered, already-decoded lines.
type FileInput struct {
	Name  string
	Lines []string
}

// Meta is the result's metadata block.
type Meta struct {
	Files       []sped.FileMeta `json:"files"`
	Decoded     int             `json:"recordsDecoded"`
	Ignored     int             `json:"recordsIgnored"`
	LineErrors  int             `json:"lineErrors"`
	Reliability string          `json:"reliability"`
	Failure     string          `json:"failure,omitempty"`
}

// Result is the normalized output contract consumed by the simulator and
// any UI layer.
type Result struct {
	RunID       string                  `json:"runId"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Company     resolve.CompanyProfile  `json:"company"`
	Taxes       resolve.TaxComposition  `json:"taxes"`
	Documents   []*sped.Document        `json:"documents"`
	Items       []*sped.LineItem        `json:"items"`
	Totals      map[string]sped.Totals  `json:"calculatedTotals"`
	Meta        Meta                    `json:"meta"`
}

// Service runs analyses. The decoder registry, classifier and statutory
// tables are fixed at construction.
type Service struct {
	registry   *decoder.Registry
	classifier *sped.Classifier
	resolver   *resolve.Resolver
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewService wires the pipeline with the given tables. Metrics may be nil.
func NewService(logger *slog.Logger, tables resolve.Tables, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	registry := decoder.NewRegistry()
	codes := make(map[sped.FileType]map[string]struct{})
	for _, ft := range registry.FileTypes() {
		codes[ft] = registry.KnownCodes(ft)
	}
	return &Service{
		registry:   registry,
		classifier: sped.NewClassifier(codes),
		resolver:   resolve.NewResolver(tables, logger),
		logger:     logger,
		metrics:    metrics,
	}
}

// Analyze runs the pipeline over zero or more files. It never returns an
// error: a panic anywhere in aggregation or resolution degrades the result
// to an empty, low-reliability structure carrying the captured message.
func (s *Service) Analyze(ctx context.Context, inputs []FileInput) (result Result) {
	start := time.Now()
	runID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analysis failed", slog.String("run_id", runID), slog.Any("panic", r))
			result = Result{
				RunID:       runID,
				GeneratedAt: time.Now().UTC(),
				Totals:      map[string]sped.Totals{},
				Meta: Meta{
					Reliability: ReliabilityLow,
					Failure:     fmt.Sprint(r),
				},
			}
		}
		s.metrics.ObserveAnalysis(result.Meta.Reliability, time.Since(start))
	}()

	datasets := s.aggregateAll(ctx, inputs)
	combined := sped.Combine(datasets...)
	profile, taxes := s.resolver.Resolve(combined)

	meta := Meta{Files: make([]sped.FileMeta, 0, len(combined.Files))}
	for _, fm := range combined.Files {
		meta.Files = append(meta.Files, fm)
		meta.Decoded += fm.Decoded
		meta.Ignored += fm.Ignored
		meta.LineErrors += len(fm.Errors)
		s.metrics.ObserveFile(string(fm.FileType), fm.Decoded, fm.Ignored, len(fm.Errors))
	}
	meta.Reliability = s.reliability(combined, profile, taxes, meta)

	s.logger.Info("analysis complete",
		slog.String("run_id", runID),
		slog.Int("files", len(inputs)),
		slog.Int("decoded", meta.Decoded),
		slog.String("reliability", meta.Reliability),
		slog.Duration("elapsed", time.Since(start)),
	)

	return Result{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Company:     profile,
		Taxes:       taxes,
		Documents:   combined.Documents,
		Items:       combined.Items,
		Totals:      combined.CalculatedTotals,
		Meta:        meta,
	}
}

// aggregateAll decodes and aggregates every file in parallel. Per-file
// aggregation is pure and shares nothing, so the fan-out needs no locking;
// results keep input order for deterministic combining.
func (s *Service) aggregateAll(ctx context.Context, inputs []FileInput) []*sped.Dataset {
	datasets := make([]*sped.Dataset, len(inputs))
	g, _ := errgroup.WithContext(ctx)
	for i, input := range inputs {
		g.Go(func() error {
			ft := s.classifier.Classify(input.Name, input.Lines)
			s.logger.Debug("file classified",
				slog.String("file", input.Name),
				slog.String("file_type", string(ft)),
			)
			datasets[i] = sped.AggregateFile(s.registry, ft, input.Name, input.Lines)
			return nil
		})
	}
	// Aggregation never returns errors; the group only provides the wait.
	_ = g.Wait()
	return datasets
}

// reliability grades the result by structural checks: identified company,
// ledger-backed revenue, at least one ledger-backed tax debit, and a clean
// decode. Each failed check lowers the grade.
func (s *Service) reliability(ds *sped.Dataset, profile resolve.CompanyProfile, taxes resolve.TaxComposition, meta Meta) string {
	failed := 0
	if ds.Company == nil || ds.Company.Name == "" {
		failed++
	}
	if profile.MonthlyRevenue.Provenance != resolve.ProvenanceLedger || profile.MonthlyRevenue.Value <= 0 {
		failed++
	}
	ledgerDebits := 0
	for _, p := range taxes.Provenance {
		if p == resolve.ProvenanceLedger {
			ledgerDebits++
		}
	}
	if ledgerDebits == 0 {
		failed++
	}
	if meta.Decoded == 0 || meta.LineErrors > meta.Decoded/10 {
		failed++
	}
	switch {
	case failed == 0:
		return ReliabilityHigh
	case failed <= 2:
		return ReliabilityMedium
	default:
		return ReliabilityLow
	}
}
