package processor

import (
	"go.uber.org/zap"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

// LinkTable resolves RavenPack entity IDs to company identifiers. It holds
// exactly one resolution per entity.
type LinkTable struct {
	links map[string]domain.CompanyLink
}

// BuildLinkTable joins entity-to-CUSIP rows against CUSIP-to-company rows.
// When an entity resolves to more than one company the lowest gvkey wins,
// with ties broken by the lowest CUSIP, so the merge stays strictly
// one-to-one and can never inflate a year's row count. Collapsed
// ambiguities are counted and logged once.
func BuildLinkTable(
	entities []domain.EntityIdentifier,
	companies []domain.CompanyIdentity,
	log *zap.Logger,
) *LinkTable {
	byCUSIP := make(map[string][]domain.CompanyIdentity, len(companies))
	for _, company := range companies {
		byCUSIP[company.CUSIP] = append(byCUSIP[company.CUSIP], company)
	}

	links := make(map[string]domain.CompanyLink, len(entities))
	ambiguous := 0

	for _, entity := range entities {
		candidates, ok := byCUSIP[entity.CUSIP]
		if !ok {
			continue
		}

		for _, company := range candidates {
			candidate := domain.CompanyLink{
				EntityID: entity.EntityID,
				CUSIP:    company.CUSIP,
				GVKey:    company.GVKey,
				Ticker:   company.Ticker,
			}

			current, exists := links[entity.EntityID]
			if !exists {
				links[entity.EntityID] = candidate
				continue
			}

			ambiguous++
			if candidate.GVKey < current.GVKey ||
				(candidate.GVKey == current.GVKey && candidate.CUSIP < current.CUSIP) {
				links[entity.EntityID] = candidate
			}
		}
	}

	if ambiguous > 0 {
		log.Warn("Collapsed ambiguous identifier links",
			zap.Int("ambiguous_count", ambiguous),
			zap.Int("entity_count", len(links)))
	}

	log.Info("Built identifier link table",
		zap.Int("entity_count", len(links)),
		zap.Int("company_count", len(companies)))

	return &LinkTable{links: links}
}

// Resolve returns the company link for an entity, if one exists.
func (t *LinkTable) Resolve(entityID string) (domain.CompanyLink, bool) {
	link, ok := t.links[entityID]
	return link, ok
}

// Len returns the number of resolvable entities.
func (t *LinkTable) Len() int {
	return len(t.links)
}

// Merge attaches company identifiers to each event with left-join
// semantics: every event is retained, and events without a link keep nil
// identifier columns.
func Merge(events []domain.ProcessedEvent, table *LinkTable) []domain.ProcessedEvent {
	merged := make([]domain.ProcessedEvent, len(events))
	for i, event := range events {
		if link, ok := table.Resolve(event.EntityID); ok {
			event.CUSIP = ptr(link.CUSIP)
			event.GVKey = ptr(link.GVKey)
			event.Ticker = ptr(link.Ticker)
		}
		merged[i] = event
	}
	return merged
}

func ptr(s string) *string {
	return &s
}
