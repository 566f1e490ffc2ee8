// Command goexemplar turns a payment report and an MTR report into one
// exemplar spreadsheet and stores its rows.
//
//	@title			goexemplar API
//	@version		1.0
//	@description	Turns a payment report and an MTR report into one exemplar sheet and stores its rows.
//	@BasePath		/
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/goexemplar/internal/pkg/pkglog"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "goexemplar",
	Short: "Payment and MTR report reconciliation service",
	Long: `goexemplar normalizes a payment report and a merchant tax report (MTR),
merges them into one exemplar sheet and stores its rows.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config/config.yaml when LOCAL=true, else /config/config.yaml)")

	rootCmd.AddCommand(serveCmd, migrateCmd, transformCmd)
}

func main() {
	pkglog.InitLogging()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
