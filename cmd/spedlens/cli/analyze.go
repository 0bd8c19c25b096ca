// Package cli provides manual helpers for running analyses against local
// files without the HTTP surface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spedlens/spedlens/internal/sped"
	"github.com/spedlens/spedlens/internal/sped/analysis"
)

// Analyzer runs the pipeline; satisfied by the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, inputs []analysis.FileInput) analysis.Result
}

// AnalyzeCLI reads SPED files from disk and runs one analysis over them.
type AnalyzeCLI struct {
	analyzer Analyzer
	out      io.Writer
}

// NewAnalyzeCLI initialises the CLI helper writing JSON output to out.
func NewAnalyzeCLI(analyzer Analyzer, out io.Writer) *AnalyzeCLI {
	if out == nil {
		out = os.Stdout
	}
	return &AnalyzeCLI{analyzer: analyzer, out: out}
}

// Run analyses the given file paths and writes the result as indented JSON.
func (c *AnalyzeCLI) Run(ctx context.Context, paths ...string) (analysis.Result, error) {
	if c == nil || c.analyzer == nil {
		return analysis.Result{}, errors.New("analyze cli: analyzer not configured")
	}
	if len(paths) == 0 {
		return analysis.Result{}, errors.New("analyze cli: at least one file required")
	}

	inputs := make([]analysis.FileInput, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return analysis.Result{}, fmt.Errorf("analyze cli: open %s: %w", path, err)
		}
		lines, err := sped.DecodeLines(f)
		_ = f.Close()
		if err != nil {
			return analysis.Result{}, fmt.Errorf("analyze cli: read %s: %w", path, err)
		}
		inputs = append(inputs, analysis.FileInput{Name: path, Lines: lines})
	}

	result := c.analyzer.Analyze(ctx, inputs)

	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return result, fmt.Errorf("analyze cli: encode result: %w", err)
	}
	return result, nil
}
