package main

import (
	"embed"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"superstore/internal/app"
)

// Embedded dashboard bundle
//
//go:embed all:web
var webFiles embed.FS

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Serve loads and cleans the dataset once at startup, then serves the
embedded dashboard and the JSON API until interrupted. A dataset that
fails validation refuses startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var frontendFS fs.FS
		if sub, err := fs.Sub(webFiles, "web"); err == nil {
			frontendFS = sub
		} else {
			slog.Warn("frontend embedding failed", slog.String("error", err.Error()))
		}

		application, err := app.NewApplication(cfgFile, frontendFS)
		if err != nil {
			return err
		}

		return application.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
