package export

import (
	"context"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

// Exporter defines the interface for writing one year's processed events
// to an output artifact.
type Exporter interface {
	// Export writes the events for one year and returns the output path.
	// Years with no events produce no artifact and return an empty path.
	Export(ctx context.Context, year int, events []domain.ProcessedEvent) (string, error)

	// Path returns the deterministic output path for a year.
	Path(year int) string
}
