package events

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/tickettrail/tickettrail-backend/pkg/db/models"
	"github.com/tickettrail/tickettrail-backend/pkg/enums"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/ticketmaster"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// NormalizeDetails turns raw detail rows into persistable records. A
// malformed row is skipped, not fatal: good rows are always returned,
// with the per-row failures accumulated into the second value.
func NormalizeDetails(rows []ticketmaster.EventDetailRow, today types.Date) ([]models.EventDetail, error) {
	details := make([]models.EventDetail, 0, len(rows))
	var errs error
	for _, row := range rows {
		detail, err := NormalizeDetail(row, today)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		details = append(details, detail)
	}
	return details, errs
}

// NormalizeDetail converts one raw detail row. Timestamps become
// calendar dates; the tracking flag starts active only for events that
// have not yet begun.
func NormalizeDetail(row ticketmaster.EventDetailRow, today types.Date) (models.EventDetail, error) {
	detail := models.EventDetail{
		EventID:     row.EventID,
		Name:        row.Name,
		Genre:       row.Genre,
		Tracking:    enums.TrackingStopped,
		LastTracked: today,
	}
	if row.EventID == "" {
		return models.EventDetail{}, pkgerrors.New(pkgerrors.CodeTransform, "detail row has no event id")
	}

	fields := []struct {
		name string
		raw  string
		dest **types.Date
	}{
		{"event_start_date", row.EventStartDate, &detail.EventStartDate},
		{"public_sales_start", row.PublicSalesStart, &detail.PublicSalesStart},
		{"public_sales_end", row.PublicSalesEnd, &detail.PublicSalesEnd},
		{"presale_start", row.PresaleStart, &detail.PresaleStart},
		{"presale_end", row.PresaleEnd, &detail.PresaleEnd},
	}
	for _, f := range fields {
		d, err := dateFromTimestamp(f.raw)
		if err != nil {
			return models.EventDetail{}, pkgerrors.Wrap(pkgerrors.CodeTransform, err,
				fmt.Sprintf("event %s: bad %s", row.EventID, f.name))
		}
		*f.dest = d
	}

	if detail.EventStartDate != nil && detail.EventStartDate.After(today) {
		detail.Tracking = enums.TrackingActive
	}
	return detail, nil
}

func toEventModel(row ticketmaster.EventRow) models.Event {
	return models.Event{
		ID:             row.ID,
		MinTicketPrice: row.MinTicketPrice,
		DateScraped:    row.DateScraped,
	}
}

func toVenueModel(row ticketmaster.VenueRow) models.Venue {
	return models.Venue{
		ID:        row.ID,
		EventID:   row.EventID,
		City:      row.City,
		State:     row.State,
		VenueName: row.VenueName,
	}
}

// dateFromTimestamp reduces an API timestamp to its calendar date.
// Empty input means the API omitted the field and maps to nil.
func dateFromTimestamp(raw string) (*types.Date, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	d := types.DateOf(ts)
	return &d, nil
}
