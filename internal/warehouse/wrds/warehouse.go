package wrds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

const (
	eventColumns = `rp_story_id, rp_entity_id, entity_name, timestamp_utc,
		type, relevance, fact_level, news_type, headline, event_text, country_code`

	entityIdentifierQuery = `SELECT rp_entity_id, cusip FROM rpna.wrds_company_names
		WHERE cusip IS NOT NULL AND cusip != ''`

	companyIdentityQuery = `SELECT cusip, gvkey, tic FROM comp.names
		WHERE cusip IS NOT NULL AND cusip != '' AND gvkey IS NOT NULL`
)

// Warehouse implements warehouse.Warehouse for the WRDS Postgres frontend.
type Warehouse struct {
	client *Client
	log    *zap.Logger
}

// NewWarehouse creates a new WRDS warehouse
func NewWarehouse(client *Client, log *zap.Logger) *Warehouse {
	return &Warehouse{
		client: client,
		log:    log,
	}
}

// FetchEvents runs one bulk query against the equities table for the given
// year. RavenPack publishes one table per year, so the relation name is
// derived from the year itself.
func (w *Warehouse) FetchEvents(ctx context.Context, year int) ([]domain.NewsEvent, error) {
	relation := fmt.Sprintf("ravenpack_dj.rpa_djpr_equities_%d", year)
	query := fmt.Sprintf("SELECT %s FROM %s", eventColumns, relation)

	w.log.Info("Fetching RavenPack events", zap.Int("year", year), zap.String("relation", relation))

	rows, err := w.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", relation, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			w.log.Error("Failed to close event rows", zap.Error(err))
		}
	}(rows)

	var events []domain.NewsEvent
	for rows.Next() {
		var (
			event     domain.NewsEvent
			headline  sql.NullString
			eventText sql.NullString
			country   sql.NullString
			relevance sql.NullFloat64
			factLevel sql.NullString
			newsType  sql.NullString
			eventType sql.NullString
		)

		err := rows.Scan(
			&event.StoryID,
			&event.EntityID,
			&event.EntityName,
			&event.TimestampUTC,
			&eventType,
			&relevance,
			&factLevel,
			&newsType,
			&headline,
			&eventText,
			&country,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row from %s: %w", relation, err)
		}

		event.Type = eventType.String
		event.Relevance = int(relevance.Float64)
		event.FactLevel = factLevel.String
		event.NewsType = newsType.String
		event.Headline = headline.String
		event.EventText = eventText.String
		event.CountryCode = country.String
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows from %s: %w", relation, err)
	}

	w.log.Info("Fetched RavenPack events", zap.Int("year", year), zap.Int("row_count", len(events)))
	return events, nil
}

// FetchEntityIdentifiers returns all entity-to-CUSIP links with a usable
// join key. An empty result or a missing column is a schema error since
// every downstream merge would silently resolve to null.
func (w *Warehouse) FetchEntityIdentifiers(ctx context.Context) ([]domain.EntityIdentifier, error) {
	rows, err := w.client.DB().QueryContext(ctx, entityIdentifierQuery)
	if err != nil {
		return nil, classifySchemaError("rpna.wrds_company_names", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			w.log.Error("Failed to close entity identifier rows", zap.Error(err))
		}
	}(rows)

	var links []domain.EntityIdentifier
	for rows.Next() {
		var link domain.EntityIdentifier
		if err := rows.Scan(&link.EntityID, &link.CUSIP); err != nil {
			return nil, fmt.Errorf("failed to scan entity identifier row: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity identifier rows: %w", err)
	}

	if len(links) == 0 {
		return nil, &domain.SchemaError{
			Relation: "rpna.wrds_company_names",
			Detail:   "link table is empty",
		}
	}

	w.log.Info("Fetched entity identifiers", zap.Int("row_count", len(links)))
	return links, nil
}

// FetchCompanyIdentities returns all CUSIP-to-company identifier rows with
// usable join keys.
func (w *Warehouse) FetchCompanyIdentities(ctx context.Context) ([]domain.CompanyIdentity, error) {
	rows, err := w.client.DB().QueryContext(ctx, companyIdentityQuery)
	if err != nil {
		return nil, classifySchemaError("comp.names", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			w.log.Error("Failed to close company identity rows", zap.Error(err))
		}
	}(rows)

	var companies []domain.CompanyIdentity
	for rows.Next() {
		var (
			company domain.CompanyIdentity
			ticker  sql.NullString
		)
		if err := rows.Scan(&company.CUSIP, &company.GVKey, &ticker); err != nil {
			return nil, fmt.Errorf("failed to scan company identity row: %w", err)
		}
		company.Ticker = ticker.String
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company identity rows: %w", err)
	}

	if len(companies) == 0 {
		return nil, &domain.SchemaError{
			Relation: "comp.names",
			Detail:   "link table is empty",
		}
	}

	w.log.Info("Fetched company identities", zap.Int("row_count", len(companies)))
	return companies, nil
}

// Ping checks if the WRDS connection is alive
func (w *Warehouse) Ping(ctx context.Context) error {
	return w.client.DB().PingContext(ctx)
}

// Close closes the WRDS connection
func (w *Warehouse) Close() error {
	return w.client.Close()
}

// classifySchemaError promotes Postgres undefined-table and undefined-column
// failures on the link tables to fatal schema errors.
func classifySchemaError(relation string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42P01": // undefined_table
			return &domain.SchemaError{Relation: relation, Detail: "relation does not exist", Err: err}
		case "42703": // undefined_column
			return &domain.SchemaError{Relation: relation, Detail: "expected column is missing", Err: err}
		}
	}
	return fmt.Errorf("failed to query %s: %w", relation, err)
}
