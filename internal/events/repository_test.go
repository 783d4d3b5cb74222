package events

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickettrail/tickettrail-backend/pkg/db/models"
	"github.com/tickettrail/tickettrail-backend/pkg/enums"
	"github.com/tickettrail/tickettrail-backend/pkg/pagination"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

func price(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func datePtr(year int, month time.Month, day int) *types.Date {
	d := types.NewDate(year, month, day)
	return &d
}

func TestAppendPrice_SameObservationIsNoOp(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	observation := models.Event{
		ID:             "evt-1",
		MinTicketPrice: price(t, "45.00"),
		DateScraped:    types.NewDate(2025, 3, 1),
	}

	inserted, err := repo.AppendPrice(ctx, observation)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.AppendPrice(ctx, observation)
	require.NoError(t, err)
	assert.False(t, inserted)

	rows, _, err := repo.PriceHistory(ctx, "evt-1", pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAppendPrice_PriceChangeSameDayAppends(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	day := types.NewDate(2025, 3, 1)

	_, err := repo.AppendPrice(ctx, models.Event{ID: "evt-1", MinTicketPrice: price(t, "45.00"), DateScraped: day})
	require.NoError(t, err)
	inserted, err := repo.AppendPrice(ctx, models.Event{ID: "evt-1", MinTicketPrice: price(t, "39.50"), DateScraped: day})
	require.NoError(t, err)
	assert.True(t, inserted)

	rows, _, err := repo.PriceHistory(ctx, "evt-1", pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestUpsertDetail_ConflictOnlyRefreshesTracking(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	original := models.EventDetail{
		EventID:        "evt-1",
		Name:           "Example Tour",
		Genre:          "Pop",
		EventStartDate: datePtr(2025, 6, 1),
		Tracking:       enums.TrackingActive,
		LastTracked:    types.NewDate(2025, 3, 1),
	}
	require.NoError(t, repo.UpsertDetail(ctx, &original))

	// Re-discovery with different descriptive fields must not rewrite them.
	replay := models.EventDetail{
		EventID:        "evt-1",
		Name:           "Renamed Tour",
		Genre:          "Rock",
		EventStartDate: datePtr(2026, 1, 1),
		Tracking:       enums.TrackingStopped,
		LastTracked:    types.NewDate(2025, 3, 2),
	}
	require.NoError(t, repo.UpsertDetail(ctx, &replay))

	stored, err := repo.GetDetail(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Example Tour", stored.Name)
	assert.Equal(t, "Pop", stored.Genre)
	require.NotNil(t, stored.EventStartDate)
	assert.True(t, stored.EventStartDate.Equal(types.NewDate(2025, 6, 1)))
	assert.Equal(t, enums.TrackingStopped, stored.Tracking)
	assert.True(t, stored.LastTracked.Equal(types.NewDate(2025, 3, 2)))
}

func TestUpsertVenue_FirstWriteWins(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	first := models.Venue{ID: "ven-1", EventID: "evt-1", City: "Austin", State: "TX", VenueName: "Example Arena"}
	require.NoError(t, repo.UpsertVenue(ctx, &first))

	replay := models.Venue{ID: "ven-1", EventID: "evt-2", City: "Dallas", State: "TX", VenueName: "Other Arena"}
	require.NoError(t, repo.UpsertVenue(ctx, &replay))

	var stored models.Venue
	require.NoError(t, repo.db.First(&stored, "id = ?", "ven-1").Error)
	assert.Equal(t, "Austin", stored.City)
	assert.Equal(t, "evt-1", stored.EventID)
}

func TestListTracked_FiltersStoppedEvents(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	active := models.EventDetail{EventID: "evt-active", Tracking: enums.TrackingActive, LastTracked: types.NewDate(2025, 3, 1)}
	stopped := models.EventDetail{EventID: "evt-stopped", Tracking: enums.TrackingStopped, LastTracked: types.NewDate(2025, 3, 1)}
	require.NoError(t, repo.UpsertDetail(ctx, &active))
	require.NoError(t, repo.UpsertDetail(ctx, &stopped))

	tracked, err := repo.ListTracked(ctx)
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	assert.Equal(t, "evt-active", tracked[0].EventID)
}

func TestPriceHistory_PagesNewestFirst(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		_, err := repo.AppendPrice(ctx, models.Event{
			ID:             "evt-1",
			MinTicketPrice: price(t, "45.00"),
			DateScraped:    types.NewDate(2025, 3, day),
		})
		require.NoError(t, err)
	}

	page, next, err := repo.PriceHistory(ctx, "evt-1", pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].DateScraped.Equal(types.NewDate(2025, 3, 5)))
	assert.True(t, page[1].DateScraped.Equal(types.NewDate(2025, 3, 4)))
	require.NotEmpty(t, next)

	page, next, err = repo.PriceHistory(ctx, "evt-1", pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].DateScraped.Equal(types.NewDate(2025, 3, 3)))
	require.NotEmpty(t, next)

	page, next, err = repo.PriceHistory(ctx, "evt-1", pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Empty(t, next)
}

func TestPriceHistory_SameDayRowsSurvivePageBoundary(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	day := types.NewDate(2025, 3, 1)

	for _, value := range []string{"45.00", "39.50", "52.00"} {
		_, err := repo.AppendPrice(ctx, models.Event{ID: "evt-1", MinTicketPrice: price(t, value), DateScraped: day})
		require.NoError(t, err)
	}
	_, err := repo.AppendPrice(ctx, models.Event{ID: "evt-1", MinTicketPrice: price(t, "60.00"), DateScraped: day.AddDays(-1)})
	require.NoError(t, err)

	var seen []string
	cursor := ""
	for {
		page, next, err := repo.PriceHistory(ctx, "evt-1", pagination.Params{Limit: 1, Cursor: cursor})
		require.NoError(t, err)
		for _, row := range page {
			seen = append(seen, row.MinTicketPrice.String())
		}
		if next == "" {
			break
		}
		cursor = next
	}

	assert.Equal(t, []string{"39.5", "45", "52", "60"}, seen)
}
