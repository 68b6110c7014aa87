package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aromeo/smart-renamer/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text excerpt that would be sent to the model",
	Long: `Extract prints the bounded plain-text excerpt for one PDF, exactly as the
rename command would send it to the model. Useful for checking what a
problematic document actually contains.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxChars, _ := cmd.Flags().GetInt("max-chars")
		excerpt, err := extract.Excerpt(args[0], maxChars)
		if err != nil {
			return err
		}
		fmt.Println(excerpt)
		return nil
	},
}

func init() {
	extractCmd.Flags().Int("max-chars", extract.DefaultBudget, "excerpt length in characters")

	rootCmd.AddCommand(extractCmd)
}
