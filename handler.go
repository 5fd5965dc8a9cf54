package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pivolan/eda_dashboard/config"
	"github.com/pivolan/eda_dashboard/dashboard"
	"github.com/pivolan/eda_dashboard/domain/models"
	"github.com/pivolan/eda_dashboard/ingest"
	"github.com/pivolan/eda_dashboard/logger"
)

type reportOptions struct {
	Selection models.Selection
	ChartsDir string
}

// handleFile parses filePath and builds the same view the web dashboard shows.
func handleFile(filePath string, sel models.Selection, cfg *config.Config) (*dashboard.View, error) {
	t, err := ingest.ReadFile(filePath, ingest.Options{MaxRows: cfg.MaxRows, MaxUnpackedBytes: cfg.MaxUnpackedBytes()})
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed %s: %d rows, %d columns", t.Name, t.Rows, len(t.Columns))

	view, err := dashboard.BuildWithOptions(t, sel, dashboard.Options{PreviewRows: cfg.PreviewRows})
	if err != nil {
		return nil, fmt.Errorf("build report for %s: %w", filePath, err)
	}
	return view, nil
}

// writeReport prints the text report for filePath to w and, when a charts
// directory is given, saves every chart there.
func writeReport(w io.Writer, filePath string, opt reportOptions, cfg *config.Config) error {
	view, err := handleFile(filePath, opt.Selection, cfg)
	if err != nil {
		return err
	}

	var saved map[string]string
	if opt.ChartsDir != "" {
		if err := os.MkdirAll(opt.ChartsDir, 0755); err != nil {
			return fmt.Errorf("create charts dir: %w", err)
		}
		saved, err = saveCharts(opt.ChartsDir, view)
		if err != nil {
			return err
		}
	}
	return formatReport(w, view, saved)
}
