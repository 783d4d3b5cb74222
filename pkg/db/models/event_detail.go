package models

import (
	"github.com/tickettrail/tickettrail-backend/pkg/enums"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// EventDetail is the one-row-per-event record. Descriptive fields are
// written once at discovery; only Tracking and LastTracked change on
// conflict afterwards.
type EventDetail struct {
	EventID          string               `gorm:"column:event_id;type:varchar(50);primaryKey"`
	Name             string               `gorm:"column:name;type:varchar(100)"`
	Genre            string               `gorm:"column:genre;type:varchar(50)"`
	EventStartDate   *types.Date          `gorm:"column:event_start_date;type:date"`
	PublicSalesStart *types.Date          `gorm:"column:public_sales_start;type:date"`
	PublicSalesEnd   *types.Date          `gorm:"column:public_sales_end;type:date"`
	PresaleStart     *types.Date          `gorm:"column:presale_start;type:date"`
	PresaleEnd       *types.Date          `gorm:"column:presale_end;type:date"`
	Tracking         enums.TrackingStatus `gorm:"column:tracking;type:smallint;not null;default:0"`
	LastTracked      types.Date           `gorm:"column:last_tracked;type:date"`
}

func (EventDetail) TableName() string { return "event_details" }

// StartsOnOrBefore reports whether the event has started by the given
// date. Details with no start date never trigger the stop transition.
func (d EventDetail) StartsOnOrBefore(day types.Date) bool {
	if d.EventStartDate == nil {
		return false
	}
	return !d.EventStartDate.After(day)
}
