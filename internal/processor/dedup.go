package processor

import "github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"

// Deduplicate collapses rows that report the same event text for the same
// entity, keeping the first occurrence. Input sorted by (entity, timestamp)
// therefore retains the earliest row of each group. The pass is idempotent.
func Deduplicate(events []domain.ProcessedEvent) []domain.ProcessedEvent {
	seen := make(map[dedupKey]struct{}, len(events))
	deduped := make([]domain.ProcessedEvent, 0, len(events))

	for _, event := range events {
		key := dedupKey{entityID: event.EntityID, eventText: event.EventText}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, event)
	}

	return deduped
}

type dedupKey struct {
	entityID  string
	eventText string
}
