package parquet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

// Exporter writes processed events to snappy-compressed parquet files,
// one file per year. An existing file at the target path is overwritten;
// each run is idempotent per year.
type Exporter struct {
	dir string
	log *zap.Logger
}

// NewExporter creates a new parquet exporter rooted at dir, creating the
// directory if needed.
func NewExporter(dir string, log *zap.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Exporter{dir: dir, log: log}, nil
}

// Path returns the deterministic output path for a year.
func (e *Exporter) Path(year int) string {
	return filepath.Join(e.dir, fmt.Sprintf("ravenpack_dj_%d_processed.parquet", year))
}

// Export writes the events for one year. Years with no events produce no
// file.
func (e *Exporter) Export(ctx context.Context, year int, events []domain.ProcessedEvent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &domain.ExportError{Year: year, Path: e.Path(year), Err: err}
	}

	if len(events) == 0 {
		e.log.Info("No events to export", zap.Int("year", year))
		return "", nil
	}

	path := e.Path(year)

	f, err := os.Create(path)
	if err != nil {
		return "", &domain.ExportError{Year: year, Path: path, Err: err}
	}

	writer := parquet.NewGenericWriter[domain.ProcessedEvent](f, parquet.Compression(&parquet.Snappy))

	if _, err := writer.Write(events); err != nil {
		f.Close()
		return "", &domain.ExportError{Year: year, Path: path, Err: fmt.Errorf("failed to write rows: %w", err)}
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return "", &domain.ExportError{Year: year, Path: path, Err: fmt.Errorf("failed to close writer: %w", err)}
	}
	if err := f.Close(); err != nil {
		return "", &domain.ExportError{Year: year, Path: path, Err: err}
	}

	e.log.Info("Exported processed events",
		zap.Int("year", year),
		zap.Int("row_count", len(events)),
		zap.String("path", path))

	return path, nil
}
