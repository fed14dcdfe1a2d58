// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the trialstream CLI.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the trialstream CLI.
var rootCmd = &cobra.Command{
	Use:   "trialstream",
	Short: "Extraction pipeline for ClinicalTrials.gov registry XML",
	Long: `trialstream turns ClinicalTrials.gov registry XML into line-delimited JSON
and serves structured queries over the result.

The pipeline has two stages, each a subcommand: extract reads an index of XML
file paths and writes one JSON record per study, and catalog loads extracted
records into a local SQLite catalog for full-text search, filtering, and
export. Directory layout, downloads, and scheduling belong to the OS tooling
around the pipeline, not to trialstream itself.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./trialstream.yaml or ~/.config/trialstream/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trialstream")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "trialstream"))
		}
	}

	viper.SetDefault("extract.fieldmap", "")
	viper.SetDefault("catalog.dir", filepath.Join("data", "catalog"))

	viper.SetEnvPrefix("TRIALSTREAM")
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
