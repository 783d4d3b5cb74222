package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickettrail/tickettrail-backend/pkg/enums"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/ticketmaster"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

func TestNormalizeDetail_ConvertsTimestampsToDates(t *testing.T) {
	today := types.NewDate(2025, 3, 1)
	row := ticketmaster.EventDetailRow{
		EventID:          "evt-1",
		Name:             "Example Tour",
		Genre:            "Pop",
		EventStartDate:   "2025-06-01T19:30:00Z",
		PublicSalesStart: "2025-01-10T10:00:00Z",
		PublicSalesEnd:   "2025-06-01T17:00:00Z",
		PresaleStart:     "2025-01-06T10:00:00Z",
		PresaleEnd:       "2025-01-07T22:00:00Z",
	}

	detail, err := NormalizeDetail(row, today)
	require.NoError(t, err)

	assert.Equal(t, "evt-1", detail.EventID)
	require.NotNil(t, detail.EventStartDate)
	assert.True(t, detail.EventStartDate.Equal(types.NewDate(2025, 6, 1)))
	require.NotNil(t, detail.PresaleEnd)
	assert.True(t, detail.PresaleEnd.Equal(types.NewDate(2025, 1, 7)))
	assert.Equal(t, enums.TrackingActive, detail.Tracking)
	assert.True(t, detail.LastTracked.Equal(today))
}

func TestNormalizeDetail_MissingFieldsMapToNil(t *testing.T) {
	detail, err := NormalizeDetail(ticketmaster.EventDetailRow{EventID: "evt-1"}, types.NewDate(2025, 3, 1))
	require.NoError(t, err)

	assert.Nil(t, detail.EventStartDate)
	assert.Nil(t, detail.PublicSalesStart)
	assert.Nil(t, detail.PresaleStart)
	// Without a start date the event cannot be confirmed upcoming.
	assert.Equal(t, enums.TrackingStopped, detail.Tracking)
}

func TestNormalizeDetail_PastEventStartsStopped(t *testing.T) {
	today := types.NewDate(2025, 3, 1)

	detail, err := NormalizeDetail(ticketmaster.EventDetailRow{
		EventID:        "evt-1",
		EventStartDate: "2025-02-01T20:00:00Z",
	}, today)
	require.NoError(t, err)
	assert.Equal(t, enums.TrackingStopped, detail.Tracking)

	detail, err = NormalizeDetail(ticketmaster.EventDetailRow{
		EventID:        "evt-2",
		EventStartDate: "2025-03-01T20:00:00Z",
	}, today)
	require.NoError(t, err)
	assert.Equal(t, enums.TrackingStopped, detail.Tracking, "same-day start already counts as begun")
}

func TestNormalizeDetails_SkipsMalformedRows(t *testing.T) {
	today := types.NewDate(2025, 3, 1)
	rows := []ticketmaster.EventDetailRow{
		{EventID: "evt-good", EventStartDate: "2025-06-01T19:30:00Z"},
		{EventID: "evt-bad", EventStartDate: "not-a-timestamp"},
		{EventID: ""},
	}

	details, err := NormalizeDetails(rows, today)
	require.Error(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "evt-good", details[0].EventID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeTransform))
}
