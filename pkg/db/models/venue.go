package models

// Venue is write-once: the first insert for an id wins and later
// writes are no-ops.
type Venue struct {
	ID        string `gorm:"column:id;type:varchar(50);primaryKey"`
	EventID   string `gorm:"column:event_id;type:varchar(50)"`
	City      string `gorm:"column:city;type:varchar(50)"`
	State     string `gorm:"column:state;type:char(2)"`
	VenueName string `gorm:"column:venue_name;type:varchar(100)"`
}

func (Venue) TableName() string { return "venues" }
