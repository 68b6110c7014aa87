// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming turns a document excerpt into a filename suggestion by
// asking a hosted chat-completion endpoint.
package naming

import (
	"context"
	"errors"
	"strings"

	"github.com/aromeo/smart-renamer/pkg/types"
)

// Sentinel errors for the two ways a suggestion can fail.
var (
	// ErrRequest marks a transport or HTTP failure talking to the endpoint.
	ErrRequest = errors.New("model request failed")

	// ErrParse marks a response that could not be reduced to a plausible
	// filename.
	ErrParse = errors.New("model response unusable")
)

// maxNameRunes bounds the suggested base name. Longer answers are truncated,
// not rejected.
const maxNameRunes = 120

// Suggester is the capability the driver needs from a naming backend. Tests
// substitute a stub so no network call happens.
type Suggester interface {
	// SuggestName sends the excerpt to the model and returns a proposed
	// base name with no extension and no path separators.
	SuggestName(ctx context.Context, excerpt string) (types.Suggestion, error)
}

// parseSuggestion reduces raw model output to a Suggestion. It takes the
// first non-empty line, strips quoting and a stray .pdf extension, and
// truncates over-long names. Returns an error wrapping ErrParse when nothing
// plausible remains.
func parseSuggestion(raw string) (types.Suggestion, error) {
	var line string
	for _, l := range strings.Split(raw, "\n") {
		if s := strings.TrimSpace(l); s != "" {
			line = s
			break
		}
	}

	line = strings.Trim(line, "\"'` ")
	line = strings.TrimSuffix(line, ".pdf")
	line = strings.TrimSpace(line)

	if line == "" {
		return types.Suggestion{}, ErrParse
	}

	if runes := []rune(line); len(runes) > maxNameRunes {
		line = strings.TrimSpace(string(runes[:maxNameRunes]))
	}

	return types.Suggestion{Name: line, Valid: true}, nil
}
