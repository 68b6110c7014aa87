// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aromeo/smart-renamer/internal/config"
	"github.com/aromeo/smart-renamer/internal/extract"
	"github.com/aromeo/smart-renamer/internal/naming"
	"github.com/aromeo/smart-renamer/internal/pipeline"
	"github.com/aromeo/smart-renamer/pkg/types"
)

const defaultTimeout = 60 * time.Second

var renameCmd = &cobra.Command{
	Use:   "rename <file-or-directory>",
	Short: "Rename PDF files after their content",
	Long: `Rename resolves the argument to a list of PDF files (a single file, or the
PDFs in a directory), extracts a text excerpt from each, asks the model for a
descriptive name, and renames the file in place. Files that cannot be read or
named are reported and the run continues; the exit status is non-zero when
any file failed.

Required environment variables:
  AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT,
  AZURE_OPENAI_API_VERSION, AZURE_OPENAI_MODEL`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func init() {
	renameCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	renameCmd.Flags().BoolP("dry-run", "n", false, "print the planned renames without touching any file")
	renameCmd.Flags().String("done-dir", "", "move renamed files into this directory instead of renaming in place")
	renameCmd.Flags().String("report", "", "write a YAML run report to this path")
	renameCmd.Flags().Int("max-chars", extract.DefaultBudget, "excerpt length sent to the model, in characters")
	renameCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(secretsDir)
	if err != nil {
		return err
	}

	recursive, _ := cmd.Flags().GetBool("recursive")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	doneDir, _ := cmd.Flags().GetString("done-dir")
	reportPath, _ := cmd.Flags().GetString("report")
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	files, err := pipeline.Discover(args[0], recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %s", args[0])
	}
	fmt.Fprintf(os.Stdout, "Found %d PDF file(s) in %s\n", len(files), args[0])

	runner := &pipeline.Runner{
		Suggester: &naming.AzureBackend{
			Settings: settings,
			Client:   &http.Client{Timeout: timeout},
		},
		Cfg: types.PipelineConfig{
			Recursive:     recursive,
			DryRun:        dryRun,
			DoneDir:       doneDir,
			ReportPath:    reportPath,
			ExcerptBudget: maxChars,
		},
	}

	result, report := runner.Run(cmd.Context(), files, os.Stdout)

	if reportPath != "" {
		if err := pipeline.WriteReport(reportPath, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Report written to %s\n", reportPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Failed)
	}
	return nil
}
