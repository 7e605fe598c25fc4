package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/app"
	"github.com/shrimpsizemoose/quizdash/internal/export"
	"github.com/shrimpsizemoose/quizdash/internal/table"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		query      = flag.String("q", "", "Only export students whose id contains this substring")
		outPath    = flag.String("out", "", "Output file, stdout when empty")
	)
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Configuration error: %v", err)
	}
	defer service.Close()

	ctx, cancel := context.WithTimeout(context.Background(), service.Config.BackendTimeout()+5*time.Second)
	defer cancel()

	snap, err := service.Cache.Get(ctx)
	if err != nil {
		logger.Error.Fatalf("Failed to fetch submissions: %v", err)
	}
	filtered := table.FilterByStudent(snap.Table, *query)

	if err := writeExport(*outPath, service.ExportView(filtered)); err != nil {
		logger.Error.Fatalf("Failed to export: %v", err)
	}
	logger.Info.Printf("Exported %d submissions", len(filtered.Rows))
}

// writeExport writes view to path, or to stdout when path is empty. The
// file is closed before returning so write-back failures are reported.
func writeExport(path string, view table.View) error {
	if path == "" {
		return export.WriteCSV(os.Stdout, view)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, view); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
