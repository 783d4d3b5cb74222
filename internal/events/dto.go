package events

import (
	"github.com/shopspring/decimal"

	"github.com/tickettrail/tickettrail-backend/pkg/db/models"
	"github.com/tickettrail/tickettrail-backend/pkg/ticketmaster"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// EventDetailDTO is the API projection of one tracked event.
type EventDetailDTO struct {
	EventID          string      `json:"event_id"`
	Name             string      `json:"name"`
	Genre            string      `json:"genre"`
	EventStartDate   *types.Date `json:"event_start_date"`
	PublicSalesStart *types.Date `json:"public_sales_start"`
	PublicSalesEnd   *types.Date `json:"public_sales_end"`
	PresaleStart     *types.Date `json:"presale_start"`
	PresaleEnd       *types.Date `json:"presale_end"`
	Tracking         string      `json:"tracking"`
	LastTracked      types.Date  `json:"last_tracked"`

	// Filled from the newest price row when one exists.
	LatestPrice *decimal.Decimal `json:"latest_price,omitempty"`
	LastScraped *types.Date      `json:"last_scraped,omitempty"`
}

// PricePointDTO is one observation in a price history.
type PricePointDTO struct {
	DateScraped    types.Date      `json:"date_scraped"`
	MinTicketPrice decimal.Decimal `json:"min_ticket_price"`
}

// PriceHistoryDTO is one page of observations for an event.
type PriceHistoryDTO struct {
	EventID    string          `json:"event_id"`
	Points     []PricePointDTO `json:"points"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// VenueDTO is a venue search hit.
type VenueDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DiscoveryResultDTO summarizes one discovery run.
type DiscoveryResultDTO struct {
	EventIDs       []string `json:"event_ids"`
	PricesInserted int      `json:"prices_inserted"`
	RecordsSkipped int      `json:"records_skipped"`
}

func toEventDetailDTO(detail models.EventDetail) EventDetailDTO {
	return EventDetailDTO{
		EventID:          detail.EventID,
		Name:             detail.Name,
		Genre:            detail.Genre,
		EventStartDate:   detail.EventStartDate,
		PublicSalesStart: detail.PublicSalesStart,
		PublicSalesEnd:   detail.PublicSalesEnd,
		PresaleStart:     detail.PresaleStart,
		PresaleEnd:       detail.PresaleEnd,
		Tracking:         detail.Tracking.String(),
		LastTracked:      detail.LastTracked,
	}
}

func toEventDetailDTOs(details []models.EventDetail) []EventDetailDTO {
	dtos := make([]EventDetailDTO, 0, len(details))
	for _, detail := range details {
		dtos = append(dtos, toEventDetailDTO(detail))
	}
	return dtos
}

func toPricePointDTOs(rows []models.Event) []PricePointDTO {
	points := make([]PricePointDTO, 0, len(rows))
	for _, row := range rows {
		points = append(points, PricePointDTO{
			DateScraped:    row.DateScraped,
			MinTicketPrice: row.MinTicketPrice,
		})
	}
	return points
}

func toVenueDTOs(results []ticketmaster.VenueResult) []VenueDTO {
	dtos := make([]VenueDTO, 0, len(results))
	for _, result := range results {
		dtos = append(dtos, VenueDTO{ID: result.ID, Name: result.Name})
	}
	return dtos
}
