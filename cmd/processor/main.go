package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/config"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/export/parquet"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/keyword"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/logger"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/processor"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/warehouse/wrds"
)

func main() {
	// Load configuration
	cfg, err := config.FromEnv()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Per-run parameters may be overridden on the command line
	flag.StringVar(&cfg.Processor.KeywordsPath, "keywords", cfg.Processor.KeywordsPath, "path to the keyword file")
	flag.IntVar(&cfg.Processor.StartYear, "start-year", cfg.Processor.StartYear, "first year to process (inclusive)")
	flag.IntVar(&cfg.Processor.EndYear, "end-year", cfg.Processor.EndYear, "last year to process (inclusive)")
	flag.StringVar(&cfg.Processor.OutputDir, "output-dir", cfg.Processor.OutputDir, "directory for parquet output")
	flag.IntVar(&cfg.Processor.Workers, "workers", cfg.Processor.Workers, "number of years processed concurrently")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting RavenPack news processor",
		zap.String("environment", cfg.Service.Environment),
		zap.Int("start_year", cfg.Processor.StartYear),
		zap.Int("end_year", cfg.Processor.EndYear),
		zap.Int("workers", cfg.Processor.Workers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the run on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warn("Received signal, cancelling run", zap.String("signal", sig.String()))
		cancel()
	}()

	// Initialize WRDS client
	wrdsClient, err := wrds.NewClient(ctx, &cfg.Warehouse, log)
	if err != nil {
		log.Fatal("Failed to create WRDS client", zap.Error(err))
	}
	defer func() {
		if err := wrdsClient.Close(); err != nil {
			log.Error("Failed to close WRDS client", zap.Error(err))
		}
	}()

	wh := wrds.NewWarehouse(wrdsClient, log)

	// Load and compile keywords
	keywords, err := keyword.Load(cfg.Processor.KeywordsPath)
	if err != nil {
		log.Fatal("Failed to load keywords", zap.Error(err))
	}
	log.Info("Loaded keywords",
		zap.String("path", cfg.Processor.KeywordsPath),
		zap.Int("keyword_count", keywords.Len()))

	// Initialize exporter
	exporter, err := parquet.NewExporter(cfg.Processor.OutputDir, log)
	if err != nil {
		log.Fatal("Failed to create exporter", zap.Error(err))
	}

	// Initialize processor
	proc, err := processor.NewProcessor(&cfg.Processor, wh, keywords, exporter, log)
	if err != nil {
		log.Fatal("Failed to create processor", zap.Error(err))
	}

	results, err := proc.Run(ctx)

	for _, result := range results {
		log.Info("Run summary",
			zap.Int("year", result.Year),
			zap.Int("fetched", result.Fetched),
			zap.Int("matched", result.Matched),
			zap.String("output_path", result.OutputPath))
	}

	if err != nil {
		log.Error("Run completed with errors", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Run completed", zap.Int("years_processed", len(results)))
}
