package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pivolan/eda_dashboard/config"
	"github.com/pivolan/eda_dashboard/domain/models"
	"github.com/pivolan/eda_dashboard/logger"
)

var (
	flagAddr      string
	flagNumeric   string
	flagCategory  string
	flagChartsDir string
)

var rootCmd = &cobra.Command{
	Use:          "eda",
	Short:        "Exploratory data analysis dashboard for cleaned loan datasets",
	Long:         `eda serves an upload-driven EDA dashboard over HTTP, or prints the same analysis for a local CSV, TSV or XLSX file (optionally gzip, lz4 or zip archived).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetLevel(logger.ParseLevel(config.GetConfig().LogLevel))
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.GetConfig()
		if cmd.Flags().Changed("addr") {
			cfg.Addr = flagAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Print the dashboard for a file as text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeReport(cmd.OutOrStdout(), args[0], reportOptions{
			Selection: models.Selection{Numeric: flagNumeric, Categorical: flagCategory},
			ChartsDir: flagChartsDir,
		}, config.GetConfig())
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides EDA_ADDR)")

	reportCmd.Flags().StringVar(&flagNumeric, "num", "", "numerical column for the histogram and boxplot")
	reportCmd.Flags().StringVar(&flagCategory, "cat", "", "categorical column for the count plot")
	reportCmd.Flags().StringVar(&flagChartsDir, "charts-dir", "", "directory to save charts into")

	rootCmd.AddCommand(serveCmd, reportCmd)
}
