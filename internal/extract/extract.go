// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract produces a bounded plain-text excerpt from a PDF for use
// as model input.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Sentinel errors distinguishing the two extraction failure modes. Callers
// skip the file on ErrNoText and count ErrUnreadable as a failure.
var (
	// ErrUnreadable marks a file that cannot be parsed as a PDF: corrupt,
	// encrypted, or not actually a PDF.
	ErrUnreadable = errors.New("unreadable pdf")

	// ErrNoText marks a well-formed PDF with no extractable text, such as
	// a scanned image-only document.
	ErrNoText = errors.New("no extractable text")
)

const (
	// maxPages bounds how many pages are read. Titles, dates, and subject
	// matter live up front; later pages only cost tokens.
	maxPages = 8

	// DefaultBudget is the default excerpt length in runes.
	DefaultBudget = 4000
)

// Excerpt opens the PDF at path and returns up to budget runes of plain text
// from its first pages. A budget of zero or less selects DefaultBudget.
//
// Returns an error wrapping ErrUnreadable when the file cannot be parsed and
// one wrapping ErrNoText when parsing succeeds but yields no text.
func Excerpt(path string, budget int) (string, error) {
	if budget <= 0 {
		budget = DefaultBudget
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	text, err := readPages(r)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	text = normalize(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrNoText, path)
	}

	return truncate(text, budget), nil
}

// readPages concatenates the plain text of the first maxPages pages.
// Individual page failures are tolerated as long as some page yields text;
// real-world PDFs often carry one malformed page.
func readPages(r *pdf.Reader) (string, error) {
	pages := r.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var buf bytes.Buffer
	var lastErr error
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			lastErr = err
			continue
		}
		buf.WriteString(content)
		buf.WriteByte('\n')
	}

	if buf.Len() == 0 && lastErr != nil {
		return "", lastErr
	}
	return buf.String(), nil
}

// normalize collapses runs of whitespace to single spaces and drops invalid
// UTF-8 so downstream JSON encoding never fails on glyph garbage.
func normalize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}

	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// truncate cuts text to at most budget runes, preferring a whitespace
// boundary near the cut so the model never sees a split word.
func truncate(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}

	cut := budget
	for i := budget; i > budget/2; i-- {
		if unicode.IsSpace(runes[i-1]) {
			cut = i - 1
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut]))
}
