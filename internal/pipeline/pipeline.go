// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the rename run: it resolves the input to an ordered
// list of PDFs and walks each one through extract, suggest, sanitize, and
// rename. Files are processed strictly in sequence; a failure is recorded and
// the run continues with the next file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/aromeo/smart-renamer/internal/extract"
	"github.com/aromeo/smart-renamer/internal/naming"
	"github.com/aromeo/smart-renamer/internal/rename"
	"github.com/aromeo/smart-renamer/pkg/types"
)

// undatedPrefix is what the model answers when the document carries no date.
// The driver substitutes the file's own modification date.
const undatedPrefix = "0000-00-00"

// Runner holds the per-run dependencies and options.
type Runner struct {
	// Suggester names documents; tests substitute a stub.
	Suggester naming.Suggester

	// Cfg carries the run options.
	Cfg types.PipelineConfig

	// Extract produces the excerpt for one file. Defaults to
	// extract.Excerpt; tests substitute a stub to avoid PDF fixtures.
	Extract func(path string, budget int) (string, error)
}

// BatchResult holds the outcome of a rename run.
type BatchResult struct {
	Renamed int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Renamed + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run processes the files in order, printing one status line per file and a
// trailing summary to w. The returned report lists every file's terminal
// state in processing order.
func (r *Runner) Run(ctx context.Context, files []string, w io.Writer) (BatchResult, types.RunReport) {
	extractFn := r.Extract
	if extractFn == nil {
		extractFn = extract.Excerpt
	}

	report := types.RunReport{
		StartedAt: time.Now().UTC(),
		DryRun:    r.Cfg.DryRun,
	}

	var result BatchResult
	claims := rename.NewClaims()

	for _, path := range files {
		rec := r.processFile(ctx, extractFn, claims, path, w)
		report.Files = append(report.Files, rec)
		switch rec.State {
		case types.StateRenamed, types.StateNamed:
			result.Renamed++
		case types.StateSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nRun summary: %d renamed, %d skipped, %d failed (total: %d)\n",
		result.Renamed, result.Skipped, result.Failed, result.Total())
	return result, report
}

// processFile walks one file through the pipeline states. It never returns an
// error; failures become the record's terminal state so the caller can keep
// going.
func (r *Runner) processFile(ctx context.Context, extractFn func(string, int) (string, error), claims *rename.Claims, path string, w io.Writer) types.RenameRecord {
	rec := types.RenameRecord{Original: path, State: types.StatePending}

	fail := func(err error) types.RenameRecord {
		fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
		rec.State = types.StateFailed
		rec.Reason = err.Error()
		return rec
	}

	excerpt, err := extractFn(path, r.Cfg.ExcerptBudget)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			fmt.Fprintf(w, "skipped: %s (no extractable text)\n", path)
			rec.State = types.StateSkipped
			rec.Reason = err.Error()
			return rec
		}
		return fail(err)
	}
	rec.State = types.StateExtracted

	suggestion, err := r.Suggester.SuggestName(ctx, excerpt)
	if err != nil {
		return fail(err)
	}

	base := rename.Sanitize(r.substituteDate(suggestion.Name, path))
	if base == "" {
		return fail(fmt.Errorf("%w: %q sanitizes to nothing", naming.ErrParse, suggestion.Name))
	}
	rec.State = types.StateNamed

	dir := filepath.Dir(path)
	if r.Cfg.DoneDir != "" {
		dir = r.Cfg.DoneDir
		if !r.Cfg.DryRun {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fail(fmt.Errorf("%w: creating %s: %v", rename.ErrRename, dir, err))
			}
		}
	}

	target, err := claims.Target(dir, base, filepath.Ext(path))
	if err != nil {
		return fail(err)
	}
	rec.Renamed = target

	if r.Cfg.DryRun {
		fmt.Fprintf(w, "would rename: %s -> %s\n", path, target)
		return rec
	}

	if err := rename.Rename(path, target); err != nil {
		rec.Renamed = ""
		return fail(err)
	}

	fmt.Fprintf(w, "renamed: %s -> %s\n", path, target)
	rec.State = types.StateRenamed
	return rec
}

// substituteDate replaces the model's unknown-date prefix with the source
// file's modification date. When the file cannot be statted the prefix is
// left alone; the rename itself will surface the real problem.
func (r *Runner) substituteDate(name, path string) string {
	if !strings.HasPrefix(name, undatedPrefix) {
		return name
	}
	info, err := os.Stat(path)
	if err != nil {
		return name
	}
	return info.ModTime().Format("2006-01-02") + strings.TrimPrefix(name, undatedPrefix)
}

// WriteReport marshals the run report to YAML at path.
func WriteReport(path string, report types.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
