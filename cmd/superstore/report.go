package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"superstore/internal/config"
	"superstore/internal/infrastructure"
	"superstore/internal/report"
)

var reportTopCustomers int

var reportCmd = &cobra.Command{
	Use:   "report [output-dir]",
	Short: "Generate the static report bundle",
	Long: `Report runs the pipeline once: load and clean the dataset, compute every
aggregation, fit the sales-profit regression, and write the charts, CSV
tables, Excel workbook, and run manifest to the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if reportTopCustomers > 0 {
			cfg.Report.TopCustomers = reportTopCustomers
		}

		logger, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		outputDir := cfg.Report.OutputDir
		if len(args) > 0 {
			outputDir = args[0]
		}

		generator := report.NewGenerator(*cfg, logger, nil)
		manifest, err := generator.Run(cmd.Context(), outputDir)
		if err != nil {
			return err
		}

		fmt.Printf("report written to %s (%d artifacts in %s)\n",
			outputDir, len(manifest.Artifacts), manifest.Duration)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportTopCustomers, "top", 0,
		"number of top customers to chart (overrides config)")
	rootCmd.AddCommand(reportCmd)
}
