package ticketmaster

import (
	"github.com/shopspring/decimal"

	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// Wire shapes for the Discovery v2 API. Only the fields this system
// extracts are declared; the payload carries far more.

type discoveryResponse struct {
	Embedded *embeddedEvents `json:"_embedded"`
}

type embeddedEvents struct {
	Events []eventResource `json:"events"`
}

type eventResource struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	PriceRanges     []priceRange     `json:"priceRanges"`
	Dates           eventDates       `json:"dates"`
	Classifications []classification `json:"classifications"`
	Sales           eventSales       `json:"sales"`
	Embedded        *embeddedVenues  `json:"_embedded"`
}

type priceRange struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

type eventDates struct {
	Start struct {
		DateTime string `json:"dateTime"`
	} `json:"start"`
}

type classification struct {
	Genre struct {
		Name string `json:"name"`
	} `json:"genre"`
}

type eventSales struct {
	Public struct {
		StartDateTime string `json:"startDateTime"`
		EndDateTime   string `json:"endDateTime"`
	} `json:"public"`
	Presales []presale `json:"presales"`
}

type presale struct {
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

type embeddedVenues struct {
	Venues []venueResource `json:"venues"`
}

type venueResource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
}

type venueSearchResponse struct {
	Embedded *embeddedVenues `json:"_embedded"`
}

// EventRow is one price observation extracted from the API.
type EventRow struct {
	ID             string
	MinTicketPrice decimal.Decimal
	DateScraped    types.Date
}

// EventDetailRow carries descriptive fields with the API's raw
// timestamp strings; the transform stage turns them into calendar
// dates.
type EventDetailRow struct {
	EventID          string
	Name             string
	Genre            string
	EventStartDate   string
	PublicSalesStart string
	PublicSalesEnd   string
	PresaleStart     string
	PresaleEnd       string
}

// VenueRow is the first embedded venue of an event.
type VenueRow struct {
	ID        string
	EventID   string
	City      string
	State     string
	VenueName string
}

// SearchResult groups the three row kinds produced by one search.
type SearchResult struct {
	Events  []EventRow
	Details []EventDetailRow
	Venues  []VenueRow
}

// VenueResult is a venue search hit.
type VenueResult struct {
	ID   string
	Name string
}

// extractSearchResult shapes parsed event resources into flat rows.
// Pure: the HTTP layer decodes, this only reshapes.
func extractSearchResult(events []eventResource, observedOn types.Date) *SearchResult {
	result := &SearchResult{}
	for _, ev := range events {
		result.Events = append(result.Events, EventRow{
			ID:             ev.ID,
			MinTicketPrice: minPrice(ev.PriceRanges),
			DateScraped:    observedOn,
		})

		detail := EventDetailRow{
			EventID:          ev.ID,
			Name:             ev.Name,
			EventStartDate:   ev.Dates.Start.DateTime,
			PublicSalesStart: ev.Sales.Public.StartDateTime,
			PublicSalesEnd:   ev.Sales.Public.EndDateTime,
		}
		if len(ev.Classifications) > 0 {
			detail.Genre = ev.Classifications[0].Genre.Name
		}
		detail.PresaleStart, detail.PresaleEnd = presaleWindow(ev.Sales.Presales)
		result.Details = append(result.Details, detail)

		if ev.Embedded != nil && len(ev.Embedded.Venues) > 0 {
			v := ev.Embedded.Venues[0]
			result.Venues = append(result.Venues, VenueRow{
				ID:        v.ID,
				EventID:   ev.ID,
				City:      v.City.Name,
				State:     v.State.StateCode,
				VenueName: v.Name,
			})
		}
	}
	return result
}

// minPrice returns the first range's minimum, defaulting to 0 when the
// API omits price data entirely.
func minPrice(ranges []priceRange) decimal.Decimal {
	if len(ranges) == 0 || ranges[0].Min == nil {
		return decimal.Zero
	}
	return *ranges[0].Min
}

// presaleWindow aggregates presale phases. Both bounds take the
// minimum across phases, matching the historical tracker output: the
// end is the earliest-closing presale, not the latest. Flagged as a
// known quirk; do not "fix" without a product decision.
func presaleWindow(presales []presale) (start, end string) {
	for _, p := range presales {
		if p.StartDateTime != "" && (start == "" || p.StartDateTime < start) {
			start = p.StartDateTime
		}
		if p.EndDateTime != "" && (end == "" || p.EndDateTime < end) {
			end = p.EndDateTime
		}
	}
	return start, end
}

func extractVenueResults(venues []venueResource) []VenueResult {
	results := make([]VenueResult, 0, len(venues))
	for _, v := range venues {
		results = append(results, VenueResult{ID: v.ID, Name: v.Name})
	}
	return results
}
