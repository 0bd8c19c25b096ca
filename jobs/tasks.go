// Package jobs runs analyses in the background over Asynq, for uploads too
// large to process inside a request.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/spedlens/spedlens/internal/jobs"
	"github.com/spedlens/spedlens/internal/sped/analysis"
)

const (
	// QueueDefault is the queue all analysis tasks run on.
	QueueDefault = "default"
	// TaskTypeAnalyze identifies the background analysis task.
	TaskTypeAnalyze = "sped:analyze"
)

// AnalyzePayload carries one queued analysis: the pre-assigned run ID and the
// already-decoded file lines.
type AnalyzePayload struct {
	RunID string               `json:"runId"`
	Files []analysis.FileInput `json:"files"`
}

// NewAnalyzeTask constructs an Asynq task for the payload.
func NewAnalyzeTask(payload AnalyzePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAnalyze, data), nil
}

// Analyzer runs the pipeline; satisfied by the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, inputs []analysis.FileInput) analysis.Result
}

// ResultSaver persists completed results; satisfied by the result store.
type ResultSaver interface {
	Save(ctx context.Context, result analysis.Result) error
}

// AnalyzeProcessor handles queued analysis tasks.
type AnalyzeProcessor struct {
	analyzer Analyzer
	results  ResultSaver
	logger   *slog.Logger
	metrics  *jobmetrics.Metrics
}

// NewAnalyzeProcessor wires the processor.
func NewAnalyzeProcessor(analyzer Analyzer, results ResultSaver, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyzeProcessor {
	return &AnalyzeProcessor{analyzer: analyzer, results: results, logger: logger, metrics: metrics}
}

// Handle processes one TaskTypeAnalyze task. Malformed payloads skip retry;
// the pipeline itself never fails, so the only retryable error is persisting
// the result.
func (p *AnalyzeProcessor) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := p.metrics.Track("sped_analyze")

	var payload AnalyzePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		p.logger.Error("analyze task payload", slog.Any("error", err))
		_ = tracker.End(err)
		return asynq.SkipRetry
	}

	result := p.analyzer.Analyze(ctx, payload.Files)
	if payload.RunID != "" {
		// Keep the run ID the client was handed at enqueue time.
		result.RunID = payload.RunID
	}
	if result.Meta.Reliability == analysis.ReliabilityLow {
		p.metrics.AddDegraded(1)
	}

	err := p.results.Save(ctx, result)
	if err != nil {
		p.logger.Error("persist queued result", slog.String("run_id", result.RunID), slog.Any("error", err))
	}
	return tracker.End(err)
}
