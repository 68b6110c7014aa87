// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/aromeo/smart-renamer/internal/extract"
	"github.com/aromeo/smart-renamer/internal/naming"
	"github.com/aromeo/smart-renamer/pkg/types"
)

// stubSuggester answers from a queue of canned suggestions or errors.
type stubSuggester struct {
	names []string
	err   error
	calls int
}

func (s *stubSuggester) SuggestName(_ context.Context, _ string) (types.Suggestion, error) {
	if s.err != nil {
		return types.Suggestion{}, s.err
	}
	name := s.names[s.calls%len(s.names)]
	s.calls++
	return types.Suggestion{Name: name, Valid: true}, nil
}

// stubExtract pretends every file contains the same text.
func stubExtract(_ string, _ int) (string, error) {
	return "document text", nil
}

// makePDFFiles creates n placeholder files named scan001.pdf... in dir.
func makePDFFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("scan%03d.pdf", i+1))
		require.NoError(t, os.WriteFile(paths[i], []byte("%PDF-fake"), 0o644))
	}
	return paths
}

func TestRun_RenamesFiles(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 1)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"2024-03-17 Acme invoice"}},
		Extract:   stubExtract,
	}

	result, report := r.Run(context.Background(), files, &out)

	assert.Equal(t, BatchResult{Renamed: 1}, result)
	assert.False(t, result.HasFailures())

	want := filepath.Join(dir, "2024-03-17 Acme invoice.pdf")
	_, err := os.Stat(want)
	require.NoError(t, err, "renamed file should exist")
	_, err = os.Stat(files[0])
	assert.True(t, os.IsNotExist(err), "original should be gone")

	require.Len(t, report.Files, 1)
	assert.Equal(t, types.StateRenamed, report.Files[0].State)
	assert.Equal(t, want, report.Files[0].Renamed)
	assert.Contains(t, out.String(), "renamed: ")
	assert.Contains(t, out.String(), "1 renamed, 0 skipped, 0 failed")
}

func TestRun_CollisionDisambiguation(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 2)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"Invoice"}},
		Extract:   stubExtract,
	}

	result, _ := r.Run(context.Background(), files, &out)
	assert.Equal(t, BatchResult{Renamed: 2}, result)

	_, err := os.Stat(filepath.Join(dir, "Invoice.pdf"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Invoice-2.pdf"))
	require.NoError(t, err, "second identical suggestion should get the -2 suffix")
}

func TestRun_NeverOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "Invoice.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("precious"), 0o644))
	files := makePDFFiles(t, dir, 1)

	before, err := os.ReadDir(dir)
	require.NoError(t, err)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"Invoice"}},
		Extract:   stubExtract,
	}
	result, _ := r.Run(context.Background(), files, &out)
	require.Equal(t, BatchResult{Renamed: 1}, result)

	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after), "rename must not change the file count")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data))
}

func TestRun_UnreadableFileContinues(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 2)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"Report"}},
		Extract: func(path string, budget int) (string, error) {
			if path == files[0] {
				return "", fmt.Errorf("%w: %s", extract.ErrUnreadable, path)
			}
			return stubExtract(path, budget)
		},
	}

	result, report := r.Run(context.Background(), files, &out)

	assert.Equal(t, BatchResult{Renamed: 1, Failed: 1}, result)
	assert.True(t, result.HasFailures())
	assert.Equal(t, types.StateFailed, report.Files[0].State)
	assert.Contains(t, report.Files[0].Reason, "unreadable")
	assert.Equal(t, types.StateRenamed, report.Files[1].State)
	assert.Contains(t, out.String(), "failed:  "+files[0])
}

func TestRun_NoTextSkips(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 1)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"unused"}},
		Extract: func(path string, _ int) (string, error) {
			return "", fmt.Errorf("%w: %s", extract.ErrNoText, path)
		},
	}

	result, report := r.Run(context.Background(), files, &out)

	assert.Equal(t, BatchResult{Skipped: 1}, result)
	assert.False(t, result.HasFailures(), "image-only PDFs do not fail the run")
	assert.Equal(t, types.StateSkipped, report.Files[0].State)
	assert.Contains(t, out.String(), "skipped: ")

	_, err := os.Stat(files[0])
	require.NoError(t, err, "skipped file stays in place")
}

func TestRun_ModelFailureContinues(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 1)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{err: fmt.Errorf("%w: endpoint returned 500", naming.ErrRequest)},
		Extract:   stubExtract,
	}

	result, report := r.Run(context.Background(), files, &out)

	assert.Equal(t, BatchResult{Failed: 1}, result)
	assert.Equal(t, types.StateFailed, report.Files[0].State)

	_, err := os.Stat(files[0])
	require.NoError(t, err, "failed file keeps its name")
}

func TestRun_SuggestionSanitizesToNothing(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 1)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{`///:::`}},
		Extract:   stubExtract,
	}

	result, report := r.Run(context.Background(), files, &out)
	assert.Equal(t, BatchResult{Failed: 1}, result)
	assert.Contains(t, report.Files[0].Reason, "sanitizes to nothing")
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 2)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"Invoice"}},
		Cfg:       types.PipelineConfig{DryRun: true},
		Extract:   stubExtract,
	}

	result, report := r.Run(context.Background(), files, &out)
	assert.Equal(t, BatchResult{Renamed: 2}, result)

	for _, f := range files {
		_, err := os.Stat(f)
		require.NoError(t, err, "dry run must not rename %s", f)
	}
	assert.Contains(t, out.String(), "would rename: ")

	// Previews stay collision-consistent: the second file gets -2 even
	// though nothing was written.
	assert.Equal(t, filepath.Join(dir, "Invoice.pdf"), report.Files[0].Renamed)
	assert.Equal(t, filepath.Join(dir, "Invoice-2.pdf"), report.Files[1].Renamed)
	assert.Equal(t, types.StateNamed, report.Files[0].State)
}

func TestRun_UndatedPrefixGetsFileDate(t *testing.T) {
	dir := t.TempDir()
	files := makePDFFiles(t, dir, 1)
	want := "2021-07-09"
	require.NoError(t, os.Chtimes(files[0], parseDate(t, want), parseDate(t, want)))

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"0000-00-00 Lease agreement"}},
		Extract:   stubExtract,
	}

	_, report := r.Run(context.Background(), files, &out)
	require.Len(t, report.Files, 1)
	assert.Equal(t, filepath.Join(dir, want+" Lease agreement.pdf"), report.Files[0].Renamed)
}

func TestRun_DoneDir(t *testing.T) {
	dir := t.TempDir()
	done := filepath.Join(dir, "DONE")
	files := makePDFFiles(t, dir, 1)

	var out bytes.Buffer
	r := &Runner{
		Suggester: &stubSuggester{names: []string{"2024-03-17 Acme invoice"}},
		Cfg:       types.PipelineConfig{DoneDir: done},
		Extract:   stubExtract,
	}

	result, _ := r.Run(context.Background(), files, &out)
	require.Equal(t, BatchResult{Renamed: 1}, result)

	_, err := os.Stat(filepath.Join(done, "2024-03-17 Acme invoice.pdf"))
	require.NoError(t, err, "renamed file should land in the done directory")
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")

	report := types.RunReport{
		DryRun: true,
		Files: []types.RenameRecord{
			{Original: "a.pdf", Renamed: "2024 Invoice.pdf", State: types.StateRenamed},
			{Original: "b.pdf", State: types.StateFailed, Reason: "unreadable pdf"},
		},
	}
	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got types.RunReport
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, report.Files, got.Files)
	assert.True(t, got.DryRun)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(sub, "deep.pdf"), []byte("x"), 0o644))

	t.Run("flat directory scan", func(t *testing.T) {
		got, err := Discover(dir, false)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.PDF"),
			filepath.Join(dir, "b.pdf"),
		}, got)
	})

	t.Run("recursive scan", func(t *testing.T) {
		got, err := Discover(dir, true)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.PDF"),
			filepath.Join(dir, "b.pdf"),
			filepath.Join(sub, "deep.pdf"),
		}, got)
	})

	t.Run("single file", func(t *testing.T) {
		path := filepath.Join(dir, "b.pdf")
		got, err := Discover(path, false)
		require.NoError(t, err)
		assert.Equal(t, []string{path}, got)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := Discover(filepath.Join(dir, "absent"), false)
		require.Error(t, err)
	})
}

// parseDate parses a YYYY-MM-DD string into a local-time midnight.
func parseDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
	require.NoError(t, err)
	return parsed
}
