package events

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickettrail/tickettrail-backend/pkg/db"
	"github.com/tickettrail/tickettrail-backend/pkg/db/models"
	"github.com/tickettrail/tickettrail-backend/pkg/enums"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/pagination"
	"github.com/tickettrail/tickettrail-backend/pkg/ticketmaster"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

type fakeDiscoveryAPI struct {
	searchResult *ticketmaster.SearchResult
	searchErr    error
	venues       []ticketmaster.VenueResult
	venuesErr    error
}

func (f *fakeDiscoveryAPI) SearchEvents(_ context.Context, _, _ string) (*ticketmaster.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeDiscoveryAPI) SearchVenues(_ context.Context, _ string) ([]ticketmaster.VenueResult, error) {
	if f.venuesErr != nil {
		return nil, f.venuesErr
	}
	return f.venues, nil
}

func newTestService(t *testing.T, api discoveryAPI) (*service, *Repository) {
	t.Helper()

	conn := openTestDB(t)
	repo := NewRepository(conn)
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})

	svc, err := NewService(repo, db.NewWithConn(conn), api, logg)
	require.NoError(t, err)

	impl := svc.(*service)
	impl.now = func() time.Time {
		return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return impl, repo
}

func searchFixtureResult() *ticketmaster.SearchResult {
	return &ticketmaster.SearchResult{
		Events: []ticketmaster.EventRow{
			{ID: "evt-1", MinTicketPrice: decimal.NewFromFloat(45.00), DateScraped: types.NewDate(2025, 3, 1)},
		},
		Details: []ticketmaster.EventDetailRow{
			{
				EventID:        "evt-1",
				Name:           "Example Tour",
				Genre:          "Pop",
				EventStartDate: "2025-06-01T19:30:00Z",
			},
		},
		Venues: []ticketmaster.VenueRow{
			{ID: "ven-1", EventID: "evt-1", City: "Austin", State: "TX", VenueName: "Example Arena"},
		},
	}
}

func TestDiscover_PersistsAllThreeTables(t *testing.T) {
	svc, repo := newTestService(t, &fakeDiscoveryAPI{searchResult: searchFixtureResult()})
	ctx := context.Background()

	result, err := svc.Discover(ctx, DiscoverInput{Keyword: "Example Tour", City: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"evt-1"}, result.EventIDs)
	assert.Equal(t, 1, result.PricesInserted)
	assert.Equal(t, 0, result.RecordsSkipped)

	detail, err := repo.GetDetail(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Example Tour", detail.Name)
	assert.Equal(t, enums.TrackingActive, detail.Tracking)
	assert.True(t, detail.LastTracked.Equal(types.NewDate(2025, 3, 1)))

	rows, _, err := repo.PriceHistory(ctx, "evt-1", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].MinTicketPrice.Equal(decimal.NewFromFloat(45.00)))
}

func TestDiscover_ReplayInsertsNothingNew(t *testing.T) {
	svc, _ := newTestService(t, &fakeDiscoveryAPI{searchResult: searchFixtureResult()})
	ctx := context.Background()

	_, err := svc.Discover(ctx, DiscoverInput{Keyword: "Example Tour"})
	require.NoError(t, err)

	result, err := svc.Discover(ctx, DiscoverInput{Keyword: "Example Tour"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.PricesInserted)
}

func TestDiscover_SkipsMalformedRecordsAndKeepsGoodOnes(t *testing.T) {
	fixture := searchFixtureResult()
	fixture.Events = append(fixture.Events, ticketmaster.EventRow{
		ID: "evt-bad", MinTicketPrice: decimal.Zero, DateScraped: types.NewDate(2025, 3, 1),
	})
	fixture.Details = append(fixture.Details, ticketmaster.EventDetailRow{
		EventID: "evt-bad", EventStartDate: "not-a-timestamp",
	})
	fixture.Venues = append(fixture.Venues, ticketmaster.VenueRow{ID: "ven-bad", EventID: "evt-bad"})

	svc, repo := newTestService(t, &fakeDiscoveryAPI{searchResult: fixture})
	ctx := context.Background()

	result, err := svc.Discover(ctx, DiscoverInput{Keyword: "Example Tour"})
	require.NoError(t, err)
	assert.Equal(t, []string{"evt-1"}, result.EventIDs)
	assert.Equal(t, 1, result.RecordsSkipped)

	// Nothing belonging to the skipped record may land in any table.
	_, err = repo.GetDetail(ctx, "evt-bad")
	assert.Error(t, err)
	rows, _, err := repo.PriceHistory(ctx, "evt-bad", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDiscover_RequiresKeyword(t *testing.T) {
	svc, _ := newTestService(t, &fakeDiscoveryAPI{})

	_, err := svc.Discover(context.Background(), DiscoverInput{Keyword: "   "})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDiscover_PropagatesSearchNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeDiscoveryAPI{
		searchErr: pkgerrors.New(pkgerrors.CodeNotFound, "search had no results"),
	})

	_, err := svc.Discover(context.Background(), DiscoverInput{Keyword: "nobody"})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGetEventDetail_IncludesLatestObservation(t *testing.T) {
	svc, repo := newTestService(t, &fakeDiscoveryAPI{searchResult: searchFixtureResult()})
	ctx := context.Background()

	_, err := svc.Discover(ctx, DiscoverInput{Keyword: "Example Tour"})
	require.NoError(t, err)
	_, err = repo.AppendPrice(ctx, models.Event{
		ID:             "evt-1",
		MinTicketPrice: decimal.NewFromFloat(39.50),
		DateScraped:    types.NewDate(2025, 3, 2),
	})
	require.NoError(t, err)

	detail, err := svc.GetEventDetail(ctx, "evt-1")
	require.NoError(t, err)
	require.NotNil(t, detail.LatestPrice)
	assert.True(t, detail.LatestPrice.Equal(decimal.NewFromFloat(39.50)))
	require.NotNil(t, detail.LastScraped)
	assert.True(t, detail.LastScraped.Equal(types.NewDate(2025, 3, 2)))
}

func TestGetEventDetail_NoObservationsLeavesLatestEmpty(t *testing.T) {
	svc, repo := newTestService(t, &fakeDiscoveryAPI{})
	ctx := context.Background()

	detail := models.EventDetail{
		EventID:     "evt-1",
		Name:        "Example Tour",
		Tracking:    enums.TrackingActive,
		LastTracked: types.NewDate(2025, 3, 1),
	}
	require.NoError(t, repo.UpsertDetail(ctx, &detail))

	dto, err := svc.GetEventDetail(ctx, "evt-1")
	require.NoError(t, err)
	assert.Nil(t, dto.LatestPrice)
	assert.Nil(t, dto.LastScraped)
}

func TestGetEventDetail_UnknownEventIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeDiscoveryAPI{})

	_, err := svc.GetEventDetail(context.Background(), "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestPriceHistory_UnknownEventIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeDiscoveryAPI{})

	_, err := svc.PriceHistory(context.Background(), "missing", pagination.Params{})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestPriceHistory_KnownEventWithoutObservations(t *testing.T) {
	svc, repo := newTestService(t, &fakeDiscoveryAPI{})
	ctx := context.Background()

	detail := models.EventDetail{
		EventID:     "evt-1",
		Name:        "Example Tour",
		Tracking:    enums.TrackingActive,
		LastTracked: types.NewDate(2025, 3, 1),
	}
	require.NoError(t, repo.UpsertDetail(ctx, &detail))

	history, err := svc.PriceHistory(ctx, "evt-1", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, history.Points)
	assert.Empty(t, history.NextCursor)
}

func TestSearchVenues_MapsResults(t *testing.T) {
	svc, _ := newTestService(t, &fakeDiscoveryAPI{
		venues: []ticketmaster.VenueResult{{ID: "ven-1", Name: "Example Arena"}},
	})

	venues, err := svc.SearchVenues(context.Background(), "Example")
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "ven-1", venues[0].ID)
}
