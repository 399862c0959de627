package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/config"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/export"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/keyword"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/warehouse"
)

// targetTimezone is the zone all event timestamps are converted into.
const targetTimezone = "America/New_York"

// Result summarizes one year's processing.
type Result struct {
	Year         int
	Fetched      int
	Preprocessed int
	Deduplicated int
	Matched      int
	OutputPath   string
}

// Processor orchestrates the per-year pipeline: fetch, preprocess,
// deduplicate, merge identifiers, filter by keyword, export.
type Processor struct {
	warehouse    warehouse.Warehouse
	keywords     *keyword.Set
	exporter     export.Exporter
	preprocessor *Preprocessor
	config       *config.Processor
	log          *zap.Logger
}

// NewProcessor creates a new processor. The warehouse connection lifecycle
// belongs to the caller.
func NewProcessor(
	cfg *config.Processor,
	wh warehouse.Warehouse,
	keywords *keyword.Set,
	exporter export.Exporter,
	log *zap.Logger,
) (*Processor, error) {
	location, err := time.LoadLocation(targetTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", targetTimezone, err)
	}

	preprocessor := NewPreprocessor(PreprocessorConfig{
		MinRelevance: cfg.MinRelevance,
		CountryCode:  cfg.CountryCode,
	}, location)

	return &Processor{
		warehouse:    wh,
		keywords:     keywords,
		exporter:     exporter,
		preprocessor: preprocessor,
		config:       cfg,
		log:          log,
	}, nil
}

// Run processes every year in the configured range. The identifier link
// table is fetched once; schema failures there abort the run. Per-year
// fetch and export failures are isolated: the remaining years still run,
// and all per-year errors are joined into the returned error.
func (p *Processor) Run(ctx context.Context) ([]Result, error) {
	if p.config.StartYear > p.config.EndYear {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf(
			"start year %d is after end year %d", p.config.StartYear, p.config.EndYear)}
	}

	table, err := p.loadLinkTable(ctx)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, p.config.EndYear-p.config.StartYear+1)
	for year := p.config.StartYear; year <= p.config.EndYear; year++ {
		years = append(years, year)
	}

	workers := p.config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(years) {
		workers = len(years)
	}

	// Years share no mutable state, so they are safe to process
	// concurrently; results and errors are collected per index.
	results := make([]*Result, len(years))
	yearErrs := make([]error, len(years))

	yearChan := make(chan int, len(years))
	for i := range years {
		yearChan <- i
	}
	close(yearChan)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range yearChan {
				results[i], yearErrs[i] = p.ProcessYear(ctx, years[i], table)
			}
		}()
	}
	wg.Wait()

	completed := make([]Result, 0, len(years))
	var errs []error
	for i := range years {
		if yearErrs[i] != nil {
			p.log.Error("Year processing failed",
				zap.Int("year", years[i]),
				zap.Error(yearErrs[i]))
			errs = append(errs, yearErrs[i])
			continue
		}
		completed = append(completed, *results[i])
	}

	return completed, errors.Join(errs...)
}

// ProcessYear runs the full pipeline for a single year.
func (p *Processor) ProcessYear(ctx context.Context, year int, table *LinkTable) (*Result, error) {
	p.log.Info("Processing year", zap.Int("year", year))

	raw, err := p.warehouse.FetchEvents(ctx, year)
	if err != nil {
		return nil, &domain.FetchError{Year: year, Op: "fetch events", Err: err}
	}

	preprocessed := p.preprocessor.Process(raw)
	deduplicated := Deduplicate(preprocessed)
	merged := Merge(deduplicated, table)
	matched := FilterKeywords(merged, p.keywords)

	path, err := p.exporter.Export(ctx, year, matched)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Year:         year,
		Fetched:      len(raw),
		Preprocessed: len(preprocessed),
		Deduplicated: len(deduplicated),
		Matched:      len(matched),
		OutputPath:   path,
	}

	p.log.Info("Year processed",
		zap.Int("year", year),
		zap.Int("fetched", result.Fetched),
		zap.Int("preprocessed", result.Preprocessed),
		zap.Int("deduplicated", result.Deduplicated),
		zap.Int("matched", result.Matched),
		zap.String("output_path", result.OutputPath))

	return result, nil
}

// loadLinkTable fetches both identifier link sources and joins them. Any
// failure here is fatal for the run.
func (p *Processor) loadLinkTable(ctx context.Context) (*LinkTable, error) {
	entities, err := p.warehouse.FetchEntityIdentifiers(ctx)
	if err != nil {
		return nil, err
	}

	companies, err := p.warehouse.FetchCompanyIdentities(ctx)
	if err != nil {
		return nil, err
	}

	return BuildLinkTable(entities, companies, p.log), nil
}
