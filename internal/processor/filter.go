package processor

import (
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/keyword"
)

// FilterKeywords retains only events whose cleaned headline matches at
// least one compiled keyword pattern. Matching is case-insensitive and
// token-boundary anchored; the stored headline is left untouched.
func FilterKeywords(events []domain.ProcessedEvent, keywords *keyword.Set) []domain.ProcessedEvent {
	matched := make([]domain.ProcessedEvent, 0, len(events))
	for _, event := range events {
		if keywords.Matches(event.Headline) {
			matched = append(matched, event)
		}
	}
	return matched
}
