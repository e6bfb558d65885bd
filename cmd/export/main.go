package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ensdash/ensdash-backend/internal/config"
	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/logger"
	"github.com/ensdash/ensdash-backend/internal/service"
)

// cmd/export writes any report CSV to disk without running the server.
func main() {
	var (
		report     string
		term       string
		style      string
		instrument string
		outDir     string
	)
	flag.StringVar(&report, "report", service.ReportEnsembles,
		"report type: "+strings.Join(service.ReportNames, ", "))
	flag.StringVar(&term, "term", "", "academic term (required)")
	flag.StringVar(&style, "style", "", "optional style filter")
	flag.StringVar(&instrument, "instrument", "", "optional instrument-need filter (GUIT, PNO, BASS, DRUMS, VOICE)")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.Parse()

	if term == "" {
		flag.Usage()
		log.Fatal("term is required")
	}

	cfg := config.Load()
	zlog := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	store := dataset.NewStore(cfg.DataFile, zlog)
	if err := store.Open(); err != nil {
		log.Fatalf("Failed to load ensemble data: %v", err)
	}
	roster, err := dataset.LoadContracts(cfg.ContractsFile, zlog)
	if err != nil {
		log.Fatalf("Failed to load faculty contracts: %v", err)
	}

	ensembles := service.NewEnsembleService(store, roster)
	classifier := service.NewClassifierService()
	priority := service.NewPriorityService(roster)
	exporter := service.NewExportService(cfg.ExportPrefix)

	f := service.Filter{Term: term, Style: style, Instrument: instrument}

	var data []byte
	switch report {
	case service.ReportEnsembles:
		data, err = exporter.Ensembles(ensembles.Query(f))
	case service.ReportLowEnrollment:
		flags, _ := classifier.LowEnrollment(ensembles.Filtered(f))
		data, err = exporter.LowEnrollment(flags)
	case service.ReportPerformance:
		data, err = exporter.Performance(classifier.PerformanceClasses(ensembles.Filtered(f)))
	case service.ReportPriority:
		data, err = exporter.Priority(priority.Rank(ensembles.Filtered(f)))
	default:
		log.Fatalf("Unknown report %q (valid: %s)", report, strings.Join(service.ReportNames, ", "))
	}
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	path := filepath.Join(outDir, exporter.Filename(report, term, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Write failed: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}
