// Package spedhttp exposes the analysis REST surface: upload SPED files,
// run or enqueue an analysis, and fetch stored results.
package spedhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spedlens/spedlens/internal/platform/httpx"
	"github.com/spedlens/spedlens/internal/sped"
	"github.com/spedlens/spedlens/internal/sped/analysis"
	"github.com/spedlens/spedlens/internal/sped/store"
)

const (
	defaultMaxUploadBytes = 64 << 20
	maxFilesPerRequest    = 8

	modeSync  = "sync"
	modeAsync = "async"
)

// Analyzer runs the synchronous pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, inputs []analysis.FileInput) analysis.Result
}

// Enqueuer submits an analysis to the background queue and returns the run ID.
type Enqueuer interface {
	EnqueueAnalyze(ctx context.Context, inputs []analysis.FileInput) (string, error)
}

// ResultStore persists and fetches run envelopes.
type ResultStore interface {
	Get(ctx context.Context, runID string) (store.Envelope, error)
	Save(ctx context.Context, result analysis.Result) error
}

type analyzeParams struct {
	Mode string `validate:"omitempty,oneof=sync async"`
}

// Handler coordinates the analysis endpoints.
type Handler struct {
	logger         *slog.Logger
	analyzer       Analyzer
	enqueuer       Enqueuer
	results        ResultStore
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewHandler constructs the handler. The enqueuer and result store may be nil,
// which disables async mode and result persistence respectively.
func NewHandler(logger *slog.Logger, analyzer Analyzer, enqueuer Enqueuer, results ResultStore, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		logger:         logger,
		analyzer:       analyzer,
		enqueuer:       enqueuer,
		results:        results,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	params := analyzeParams{Mode: r.URL.Query().Get("mode")}
	if err := h.validate.Struct(params); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "mode must be sync or async")
		return
	}

	inputs, err := h.readUploads(r)
	if err != nil {
		h.respondUploadError(w, err)
		return
	}

	if params.Mode == modeAsync {
		if h.enqueuer == nil {
			httpx.Problem(w, http.StatusNotImplemented, "Async Disabled", "background processing is not configured")
			return
		}
		runID, err := h.enqueuer.EnqueueAnalyze(r.Context(), inputs)
		if err != nil {
			h.logger.Error("enqueue analysis", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{
			"runId":  runID,
			"status": store.StatusPending,
		})
		return
	}

	result := h.analyzer.Analyze(r.Context(), inputs)
	if h.results != nil {
		if err := h.results.Save(r.Context(), result); err != nil {
			h.logger.Warn("persist result", slog.String("run_id", result.RunID), slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		httpx.Problem(w, http.StatusNotImplemented, "Store Disabled", "result persistence is not configured")
		return
	}
	runID := chi.URLParam(r, "id")
	env, err := h.results.Get(r.Context(), runID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.RespondError(w, fmt.Errorf("%w: run %s", httpx.ErrNotFound, runID))
		return
	}
	if err != nil {
		h.logger.Error("fetch result", slog.String("run_id", runID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, env)
}

// readUploads parses the multipart form and decodes every uploaded file into
// lines, handling the ISO-8859-1 encoding of official exports.
func (h *Handler) readUploads(r *http.Request) ([]analysis.FileInput, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	files := collectFileHeaders(r.MultipartForm)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files uploaded", httpx.ErrValidation)
	}
	if len(files) > maxFilesPerRequest {
		return nil, fmt.Errorf("%w: at most %d files per request", httpx.ErrValidation, maxFilesPerRequest)
	}

	inputs := make([]analysis.FileInput, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		lines, err := sped.DecodeLines(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", httpx.ErrValidation, fh.Filename, err)
		}
		inputs = append(inputs, analysis.FileInput{Name: fh.Filename, Lines: lines})
	}
	return inputs, nil
}

// collectFileHeaders flattens every file field; clients may post under
// "files" or one field per file.
func collectFileHeaders(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	var headers []*multipart.FileHeader
	for _, fhs := range form.File {
		headers = append(headers, fhs...)
	}
	return headers
}

func (h *Handler) respondUploadError(w http.ResponseWriter, err error) {
	if errors.Is(err, httpx.ErrValidation) {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Error("read uploads", slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
