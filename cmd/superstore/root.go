package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"superstore/pkg/contracts"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "superstore",
	Short: "Retail sales analytics over the Global Superstore dataset",
	Long: `Superstore Analytics loads the Global Superstore sales export, cleans it,
and serves filtered aggregations either as an interactive dashboard
(serve) or as a static report bundle (report).`,
	Version: contracts.Version,
}

// Execute runs the root command, it is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches config.yaml, config/config.yaml)")
	rootCmd.SetVersionTemplate(contracts.GetVersionString() + "\n")
}
