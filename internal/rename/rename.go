// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rename sanitizes candidate names and performs collision-safe
// renames. A file is renamed at most once per run and an existing file is
// never overwritten; collisions get a numeric disambiguator.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrRename marks a failed filesystem rename (permissions, file in use).
var ErrRename = errors.New("rename failed")

// maxBaseRunes bounds the sanitized base name so the full filename stays
// comfortably inside common filesystem limits.
const maxBaseRunes = 120

// maxCollisionAttempts bounds the disambiguation search.
const maxCollisionAttempts = 1000

// illegalRunes are characters rejected by at least one mainstream filesystem.
const illegalRunes = `/\:*?"<>|`

// Sanitize makes a candidate name safe for use as a filename: illegal and
// control characters are dropped, whitespace collapses to single spaces,
// leading and trailing dots and spaces are trimmed, and the result is
// truncated to a bounded length. Sanitizing a sanitized name is a no-op.
func Sanitize(candidate string) string {
	var b strings.Builder
	b.Grow(len(candidate))
	inSpace := false
	for _, r := range candidate {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case strings.ContainsRune(illegalRunes, r) || unicode.IsControl(r):
			// dropped
		default:
			if inSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSpace = false
			b.WriteRune(r)
		}
	}

	name := strings.Trim(b.String(), ". ")
	if runes := []rune(name); len(runes) > maxBaseRunes {
		name = strings.Trim(string(runes[:maxBaseRunes]), ". ")
	}
	return name
}

// Claims tracks the target names assigned during one run so two files never
// race for the same name even before the first rename lands on disk.
type Claims struct {
	taken map[string]bool
}

// NewClaims returns an empty claim set.
func NewClaims() *Claims {
	return &Claims{taken: make(map[string]bool)}
}

// Target computes a free destination path in dir for the sanitized base name
// plus ext (which includes the leading dot). When base.ext exists on disk or
// was already claimed this run, a numeric suffix -2, -3, ... is tried until a
// free name is found. The returned path is claimed immediately.
func (c *Claims) Target(dir, base, ext string) (string, error) {
	for i := 1; i <= maxCollisionAttempts; i++ {
		name := base + ext
		if i > 1 {
			name = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		path := filepath.Join(dir, name)

		if c.taken[path] {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("%w: checking %s: %v", ErrRename, path, err)
		}

		c.taken[path] = true
		return path, nil
	}
	return "", fmt.Errorf("%w: no free name for %q in %s", ErrRename, base, dir)
}

// Rename moves src to dst atomically. dst must come from Target so the
// no-overwrite invariant holds.
func Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrRename, err)
	}
	return nil
}
