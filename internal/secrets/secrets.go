// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads endpoint credentials from a directory of plain-text
// files. Each file in the directory represents one setting: the filename is
// the key name and the file contents (trimmed) are the value. The config
// loader consults these as a fallback for environment variables, so keys use
// the dashed form of the variable name (AZURE_OPENAI_API_KEY is read from a
// file named azure-openai-api-key).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KeyFor converts an environment variable name to its secret-file name:
// lowercased, underscores replaced with dashes.
func KeyFor(envVar string) string {
	return strings.ReplaceAll(strings.ToLower(envVar), "_", "-")
}

// Load reads the secret files in dir and returns a map of key name to trimmed
// contents. A missing directory is not an error; Load returns an empty map so
// callers can treat the directory as optional. Empty files are ignored.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[entry.Name()] = value
		}
	}

	return secrets, nil
}
