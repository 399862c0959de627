package warehouse

import (
	"context"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

// Warehouse defines the interface for bulk reads from the financial-data
// warehouse. Implementations treat the underlying connection as a
// capability object: run a query, get back tabular rows.
type Warehouse interface {
	// FetchEvents returns all RavenPack news events for one calendar year.
	FetchEvents(ctx context.Context, year int) ([]domain.NewsEvent, error)

	// FetchEntityIdentifiers returns the entity-to-CUSIP link rows.
	FetchEntityIdentifiers(ctx context.Context) ([]domain.EntityIdentifier, error)

	// FetchCompanyIdentities returns the CUSIP-to-company identifier rows.
	FetchCompanyIdentities(ctx context.Context) ([]domain.CompanyIdentity, error)

	// Ping checks if the warehouse connection is alive.
	Ping(ctx context.Context) error

	// Close closes the warehouse connection and releases resources.
	Close() error
}
