// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cpemon CLI.
// Implements: prd001-intake, prd002-parsing, prd003-reporting,
//             prd004-store, prd005-batch (CLI surface).
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

// rootCmd is the base command for the cpemon CLI.
var rootCmd = &cobra.Command{
	Use:   "cpemon",
	Short: "CPE Monitor transcript extraction toolkit",
	Long: `cpemon converts CPE Monitor activity transcripts into structured records.
The parse stage extracts the PDF text layer and recognizes the participant
header, the activity table, and the trailing disclaimer; parsed records can
then be indexed into a local SQLite store for retrieval and export.

Each stage is a subcommand: parse, records, and topics.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cpemon.yaml or ~/.config/cpemon/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cpemon")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cpemon"))
		}
	}

	viper.SetEnvPrefix("CPEMON")
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
