// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover resolves the input argument to an ordered list of candidate PDF
// paths. A file argument is returned as-is; a directory is scanned for .pdf
// entries (case-insensitive), descending into subdirectories only when
// recursive is set. The result is sorted so runs are deterministic.
func Discover(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("resolving input %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var pdfs []string
	if recursive {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPDF(p) {
				pdfs = append(pdfs, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && isPDF(entry.Name()) {
				pdfs = append(pdfs, filepath.Join(path, entry.Name()))
			}
		}
	}

	sort.Strings(pdfs)
	return pdfs, nil
}

// isPDF matches on the file extension only; the extractor decides whether
// the content really is a PDF.
func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
