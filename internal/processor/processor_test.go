package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	parquetgo "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/config"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/export/parquet"
	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/keyword"
)

// MockWarehouse is a mock implementation of warehouse.Warehouse
type MockWarehouse struct {
	mock.Mock
}

func (m *MockWarehouse) FetchEvents(ctx context.Context, year int) ([]domain.NewsEvent, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsEvent), args.Error(1)
}

func (m *MockWarehouse) FetchEntityIdentifiers(ctx context.Context) ([]domain.EntityIdentifier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityIdentifier), args.Error(1)
}

func (m *MockWarehouse) FetchCompanyIdentities(ctx context.Context) ([]domain.CompanyIdentity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyIdentity), args.Error(1)
}

func (m *MockWarehouse) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWarehouse) Close() error {
	args := m.Called()
	return args.Error(0)
}

func rawEvent(entityID, headline, eventText string, ts time.Time) domain.NewsEvent {
	return domain.NewsEvent{
		StoryID:      "S-" + entityID + "-" + eventText,
		EntityID:     entityID,
		EntityName:   "Entity " + entityID,
		TimestampUTC: ts,
		Relevance:    90,
		Headline:     headline,
		EventText:    eventText,
		CountryCode:  "US",
	}
}

func linkFixtures() ([]domain.EntityIdentifier, []domain.CompanyIdentity) {
	entities := []domain.EntityIdentifier{{EntityID: "E1", CUSIP: "037833100"}}
	companies := []domain.CompanyIdentity{{CUSIP: "037833100", GVKey: "001690", Ticker: "AAPL"}}
	return entities, companies
}

// synthYear builds ten synthetic rows for a year: duplicates, matching and
// non-matching headlines, rows dropped by relevance or country, and an
// entity (E2) with no identifier link. Three rows survive the pipeline.
func synthYear(year int) []domain.NewsEvent {
	ts := func(month, hour int) time.Time {
		return time.Date(year, time.Month(month), 15, hour, 0, 0, 0, time.UTC)
	}

	lowRelevance := rawEvent("E1", "Earnings whisper numbers", "G", ts(5, 9))
	lowRelevance.Relevance = 50

	foreign := rawEvent("E1", "Earnings abroad", "H", ts(6, 9))
	foreign.CountryCode = "GB"

	return []domain.NewsEvent{
		rawEvent("E1", "Acme Beats  Earnings Estimates", "A", ts(1, 9)), // match: earnings
		rawEvent("E1", "Acme Beats  Earnings Estimates", "A", ts(1, 10)), // duplicate of A
		rawEvent("E1", "Corporate strategy shift", "B", ts(2, 9)),  // no match
		rawEvent("E2", "Interest  Rate decision looms", "C", ts(2, 12)), // match: bigram, unlinked entity
		rawEvent("E2", "interest in the rate debate", "D", ts(3, 9)),    // no match
		rawEvent("E1", "Earnings call scheduled", "E", ts(3, 14)),       // match: earnings
		rawEvent("E2", "Merger talks continue", "F", ts(4, 9)),          // no match
		rawEvent("E2", "Interest  Rate decision looms", "C", ts(4, 12)), // duplicate of C
		lowRelevance,
		foreign,
	}
}

func newTestProcessor(t *testing.T, wh *MockWarehouse, cfg *config.Processor) *Processor {
	t.Helper()

	keywords, err := keyword.New([]string{"earnings", "interest rate"})
	require.NoError(t, err)

	exporter, err := parquet.NewExporter(cfg.OutputDir, zap.NewNop())
	require.NoError(t, err)

	proc, err := NewProcessor(cfg, wh, keywords, exporter, zap.NewNop())
	require.NoError(t, err)
	return proc
}

func TestRun_EndToEnd(t *testing.T) {
	wh := new(MockWarehouse)
	entities, companies := linkFixtures()
	wh.On("FetchEntityIdentifiers", mock.Anything).Return(entities, nil)
	wh.On("FetchCompanyIdentities", mock.Anything).Return(companies, nil)
	wh.On("FetchEvents", mock.Anything, 2015).Return(synthYear(2015), nil)
	wh.On("FetchEvents", mock.Anything, 2016).Return(synthYear(2016), nil)

	cfg := &config.Processor{
		StartYear:    2015,
		EndYear:      2016,
		OutputDir:    t.TempDir(),
		MinRelevance: 75,
		CountryCode:  "US",
		Workers:      1,
	}

	proc := newTestProcessor(t, wh, cfg)

	results, err := proc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	total := 0
	for _, result := range results {
		assert.Equal(t, 10, result.Fetched)
		assert.Equal(t, 8, result.Preprocessed)
		assert.Equal(t, 6, result.Deduplicated)
		assert.Equal(t, 3, result.Matched)
		require.NotEmpty(t, result.OutputPath)

		rows, err := parquetgo.ReadFile[domain.ProcessedEvent](result.OutputPath)
		require.NoError(t, err)
		require.Len(t, rows, result.Matched)
		total += len(rows)

		for _, row := range rows {
			switch row.EntityID {
			case "E1":
				require.NotNil(t, row.GVKey)
				assert.Equal(t, "001690", *row.GVKey)
			case "E2":
				assert.Nil(t, row.GVKey)
			default:
				t.Fatalf("unexpected entity %s", row.EntityID)
			}
		}

		// Headlines keep their original casing; whitespace runs collapse.
		assert.Equal(t, "Acme Beats Earnings Estimates", rows[0].Headline)
	}

	assert.Equal(t, 6, total)
	wh.AssertExpectations(t)
}

func TestRun_ConcurrentYearsMatchSequential(t *testing.T) {
	wh := new(MockWarehouse)
	entities, companies := linkFixtures()
	wh.On("FetchEntityIdentifiers", mock.Anything).Return(entities, nil)
	wh.On("FetchCompanyIdentities", mock.Anything).Return(companies, nil)
	for year := 2013; year <= 2016; year++ {
		wh.On("FetchEvents", mock.Anything, year).Return(synthYear(year), nil)
	}

	cfg := &config.Processor{
		StartYear:    2013,
		EndYear:      2016,
		OutputDir:    t.TempDir(),
		MinRelevance: 75,
		CountryCode:  "US",
		Workers:      4,
	}

	proc := newTestProcessor(t, wh, cfg)

	results, err := proc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	for _, result := range results {
		assert.Equal(t, 3, result.Matched)
	}
}

func TestRun_FetchFailureIsolatedPerYear(t *testing.T) {
	wh := new(MockWarehouse)
	entities, companies := linkFixtures()
	wh.On("FetchEntityIdentifiers", mock.Anything).Return(entities, nil)
	wh.On("FetchCompanyIdentities", mock.Anything).Return(companies, nil)
	wh.On("FetchEvents", mock.Anything, 2015).Return(nil, errors.New("relation does not exist"))
	wh.On("FetchEvents", mock.Anything, 2016).Return(synthYear(2016), nil)

	cfg := &config.Processor{
		StartYear:    2015,
		EndYear:      2016,
		OutputDir:    t.TempDir(),
		MinRelevance: 75,
		CountryCode:  "US",
		Workers:      1,
	}

	proc := newTestProcessor(t, wh, cfg)

	results, err := proc.Run(context.Background())
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 2015, fetchErr.Year)

	// The sibling year still produced output.
	require.Len(t, results, 1)
	assert.Equal(t, 2016, results[0].Year)
	assert.Equal(t, 3, results[0].Matched)
}

func TestRun_SchemaErrorAbortsRun(t *testing.T) {
	wh := new(MockWarehouse)
	schemaErr := &domain.SchemaError{Relation: "rpna.wrds_company_names", Detail: "link table is empty"}
	wh.On("FetchEntityIdentifiers", mock.Anything).Return(nil, schemaErr)

	cfg := &config.Processor{
		StartYear:    2015,
		EndYear:      2016,
		OutputDir:    t.TempDir(),
		MinRelevance: 75,
		CountryCode:  "US",
		Workers:      1,
	}

	proc := newTestProcessor(t, wh, cfg)

	results, err := proc.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, results)

	var se *domain.SchemaError
	assert.True(t, errors.As(err, &se))
	wh.AssertNotCalled(t, "FetchEvents", mock.Anything, mock.Anything)
}

func TestRun_InvalidYearRange(t *testing.T) {
	wh := new(MockWarehouse)

	cfg := &config.Processor{
		StartYear:    2017,
		EndYear:      2015,
		OutputDir:    t.TempDir(),
		MinRelevance: 75,
		CountryCode:  "US",
		Workers:      1,
	}

	proc := newTestProcessor(t, wh, cfg)

	_, err := proc.Run(context.Background())
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}
