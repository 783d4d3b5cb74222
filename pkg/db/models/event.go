package models

import (
	"github.com/shopspring/decimal"

	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// Event is one price observation for an event. Rows are append-only;
// the composite (id, date_scraped, min_ticket_price) key makes
// same-day re-runs idempotent while still allowing many rows per
// event id. No column is a key on its own.
type Event struct {
	ID             string          `gorm:"column:id;type:varchar(50);primaryKey"`
	MinTicketPrice decimal.Decimal `gorm:"column:min_ticket_price;type:numeric(10,2);primaryKey"`
	DateScraped    types.Date      `gorm:"column:date_scraped;type:date;primaryKey"`
}

func (Event) TableName() string { return "events" }
