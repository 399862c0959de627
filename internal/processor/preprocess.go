package processor

import (
	"sort"
	"strings"
	"time"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

// PreprocessorConfig configures the preprocessing pass
type PreprocessorConfig struct {
	MinRelevance int
	CountryCode  string
}

// Preprocessor converts raw warehouse rows into processed event rows:
// zoned timezone conversion, relevance/country filtering, headline
// whitespace cleaning, and a stable (entity, timestamp) ordering.
type Preprocessor struct {
	config   PreprocessorConfig
	location *time.Location
}

// NewPreprocessor creates a new preprocessor converting timestamps into the
// given target location.
func NewPreprocessor(config PreprocessorConfig, location *time.Location) *Preprocessor {
	return &Preprocessor{
		config:   config,
		location: location,
	}
}

// Process converts, filters, cleans and orders the raw events for one year.
// Sorting by (entity, timestamp) before deduplication makes the retained
// representative of a duplicate group deterministically the earliest row.
func (p *Preprocessor) Process(raw []domain.NewsEvent) []domain.ProcessedEvent {
	processed := make([]domain.ProcessedEvent, 0, len(raw))
	for _, event := range raw {
		if event.CountryCode != p.config.CountryCode {
			continue
		}
		if event.Relevance < p.config.MinRelevance {
			continue
		}

		processed = append(processed, domain.ProcessedEvent{
			EntityID:   event.EntityID,
			EntityName: event.EntityName,
			StoryID:    event.StoryID,
			Timestamp:  event.TimestampUTC.UTC().In(p.location),
			Type:       event.Type,
			Relevance:  int32(event.Relevance),
			FactLevel:  event.FactLevel,
			NewsType:   event.NewsType,
			Headline:   CleanHeadline(event.Headline),
			EventText:  event.EventText,
		})
	}

	sort.SliceStable(processed, func(i, j int) bool {
		if processed[i].EntityID != processed[j].EntityID {
			return processed[i].EntityID < processed[j].EntityID
		}
		return processed[i].Timestamp.Before(processed[j].Timestamp)
	})

	return processed
}

// CleanHeadline collapses whitespace runs to single spaces and trims the
// ends. Casing is preserved so the exported headline stays human-readable;
// case folding happens only at keyword-match time.
func CleanHeadline(headline string) string {
	return strings.Join(strings.Fields(headline), " ")
}
