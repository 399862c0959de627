package domain

import "time"

// NewsEvent is one raw row from a ravenpack_dj.rpa_djpr_equities_{year} table.
type NewsEvent struct {
	StoryID      string
	EntityID     string
	EntityName   string
	TimestampUTC time.Time
	Type         string
	Relevance    int
	FactLevel    string
	NewsType     string
	Headline     string
	EventText    string
	CountryCode  string
}

// EntityIdentifier maps a RavenPack entity to a CUSIP (rpna.wrds_company_names).
type EntityIdentifier struct {
	EntityID string
	CUSIP    string
}

// CompanyIdentity carries the Compustat identifiers for a CUSIP (comp.names).
type CompanyIdentity struct {
	CUSIP  string
	GVKey  string
	Ticker string
}

// CompanyLink is a resolved entity-to-company mapping, one per entity.
type CompanyLink struct {
	EntityID string
	CUSIP    string
	GVKey    string
	Ticker   string
}

// ProcessedEvent is a news event after timezone conversion, deduplication,
// headline cleaning and identifier merge. The parquet tags define the
// export schema; identifier columns are nil when no link matched.
type ProcessedEvent struct {
	EntityID   string    `parquet:"rp_entity_id"`
	EntityName string    `parquet:"entity_name"`
	StoryID    string    `parquet:"rp_story_id"`
	Timestamp  time.Time `parquet:"timestamp"`
	Type       string    `parquet:"type"`
	Relevance  int32     `parquet:"relevance"`
	FactLevel  string    `parquet:"fact_level"`
	NewsType   string    `parquet:"news_type"`
	Headline   string    `parquet:"headline"`
	EventText  string    `parquet:"event_text"`
	CUSIP      *string   `parquet:"cusip,optional"`
	GVKey      *string   `parquet:"gvkey,optional"`
	Ticker     *string   `parquet:"tic,optional"`
}
