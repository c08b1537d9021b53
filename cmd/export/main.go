package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finledger/internal/config"
	"finledger/internal/export"
	"finledger/internal/export/memory"
	"finledger/internal/export/sheets"
	"finledger/internal/ledger"
	"finledger/internal/log"
	"finledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	now := time.Now().UTC()
	year := flag.Int("year", now.Year(), "calendar year to export")
	month := flag.Int("month", int(now.Month()), "calendar month to export (1-12)")
	dryRun := flag.Bool("dry-run", false, "aggregate without writing to Google Sheets")
	flag.Parse()

	logger := log.Setup(slog.LevelInfo).WithComponent(log.ComponentExport)

	if *month < 1 || *month > 12 {
		logger.Error("Invalid month", log.FieldMonth, *month)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	var writer export.SummaryWriter
	if *dryRun || cfg.GoogleSpreadsheetID == "" {
		logger.Info("Writing to in-memory sink (dry run or no spreadsheet configured)")
		writer = memory.New()
	} else {
		writer, err = sheets.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
	}

	exporter := export.NewExporter(store.Users, ledger.New(store.DB()), writer)
	written, err := exporter.ExportMonth(ctx, *year, time.Month(*month))
	if err != nil {
		logger.Error("Export failed", log.FieldError, err, "rows_written", written)
		os.Exit(1)
	}

	logger.Info("Export complete",
		log.FieldYear, *year,
		log.FieldMonth, *month,
		"rows_written", written)
}
