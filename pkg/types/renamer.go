// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the smart-renamer pipeline.
package types

import "time"

// FileState tracks where a PDF is in the rename pipeline. Transitions are
// linear: Pending → Extracted → Named → Renamed, with Skipped and Failed as
// terminal exits. A state is never revisited within a run.
type FileState string

const (
	StatePending   FileState = "pending"
	StateExtracted FileState = "extracted"
	StateNamed     FileState = "named"
	StateRenamed   FileState = "renamed"
	StateSkipped   FileState = "skipped"
	StateFailed    FileState = "failed"
)

// Settings holds the five required model-endpoint settings. It is built once
// at startup by the config loader and passed explicitly to the naming client;
// nothing else reads the environment.
type Settings struct {
	// APIKey authenticates requests to the chat-completion endpoint.
	APIKey string `json:"-" yaml:"-"`

	// Endpoint is the base URL of the hosted endpoint (no trailing slash).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Deployment is the deployment identifier addressed in the request path.
	Deployment string `json:"deployment" yaml:"deployment"`

	// APIVersion is the api-version query parameter value.
	APIVersion string `json:"api_version" yaml:"api_version"`

	// Model is the model identifier sent in the request body.
	Model string `json:"model" yaml:"model"`
}

// Suggestion is the naming client's answer for one document: a proposed base
// name with no extension and no path separators.
type Suggestion struct {
	// Name is the proposed base name, already stripped of quoting and
	// surrounding whitespace but not yet sanitized for the filesystem.
	Name string `json:"name" yaml:"name"`

	// Valid reports whether the model response could be reduced to a
	// plausible filename at all.
	Valid bool `json:"valid" yaml:"valid"`
}

// PipelineConfig carries the per-run options for the rename driver.
type PipelineConfig struct {
	// Recursive descends into subdirectories when the input is a directory.
	Recursive bool

	// DryRun computes and prints targets without touching the filesystem.
	DryRun bool

	// DoneDir, when non-empty, receives renamed files instead of renaming
	// in place.
	DoneDir string

	// ReportPath, when non-empty, is where the YAML run report is written.
	ReportPath string

	// ExcerptBudget is the maximum excerpt length in runes.
	ExcerptBudget int
}

// RenameRecord is one file's outcome in the run report.
type RenameRecord struct {
	// Original is the path the file had when the run discovered it.
	Original string `json:"original" yaml:"original"`

	// Renamed is the path the file was given, empty unless State is
	// "renamed" (or a dry-run preview).
	Renamed string `json:"renamed,omitempty" yaml:"renamed,omitempty"`

	// State is the file's terminal pipeline state.
	State FileState `json:"state" yaml:"state"`

	// Reason explains a skipped or failed state.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// RunReport is the YAML document written when a report path is configured.
type RunReport struct {
	// StartedAt is when the run began, UTC.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// DryRun records whether the run was a preview.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Files lists one record per discovered PDF, in processing order.
	Files []RenameRecord `json:"files" yaml:"files"`
}
