// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the smart-renamer CLI: it renames PDF
// files after the document content, using a hosted chat-completion model to
// suggest each name.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir is where credentials may live as one file per key, as a
// fallback for environment variables.
const secretsDir = ".secrets/"

// rootCmd is the base command for the smart-renamer CLI.
var rootCmd = &cobra.Command{
	Use:   "smart-renamer",
	Short: "Rename PDF files after their content",
	Long: `smart-renamer reads the text of each PDF, asks a hosted chat-completion
model for a short descriptive name, and renames the file on disk. Renames
never overwrite: name collisions get a numeric suffix.

The model endpoint is configured through environment variables (see
'smart-renamer rename --help'), optionally supplied via a .env file or a
.secrets/ directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env in the working directory feeds the environment before
		// configuration is read. Absence is fine.
		if err := godotenv.Load(); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded environment from .env")
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./smart-renamer.yaml or ~/.config/smart-renamer/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("smart-renamer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "smart-renamer"))
		}
	}

	viper.SetEnvPrefix("SMART_RENAMER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
