package tracking

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tickettrail/tickettrail-backend/pkg/db/models"
	"github.com/tickettrail/tickettrail-backend/pkg/enums"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// Repository holds the persistence operations of the tracking cycle.
// Write methods take the cycle's transaction so one failed statement
// rolls back the whole batch.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListTracked returns the events that are still actively polled.
func (r *Repository) ListTracked(ctx context.Context) ([]models.EventDetail, error) {
	var details []models.EventDetail
	if err := r.db.WithContext(ctx).
		Where("tracking = ?", enums.TrackingActive).
		Order("event_id asc").
		Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// AppendPrice inserts one observation inside the batch transaction.
// Replaying an identical observation is a no-op.
func (r *Repository) AppendPrice(ctx context.Context, tx *gorm.DB, event models.Event) (bool, error) {
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "id"},
				{Name: "date_scraped"},
				{Name: "min_ticket_price"},
			},
			DoNothing: true,
		}).
		Create(&event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TouchLastTracked records that the event was successfully polled.
func (r *Repository) TouchLastTracked(ctx context.Context, tx *gorm.DB, eventID string, day types.Date) error {
	return tx.WithContext(ctx).
		Model(&models.EventDetail{}).
		Where("event_id = ?", eventID).
		Update("last_tracked", day).Error
}

// StopTracking retires an event that has started. The flag only ever
// moves from active to stopped.
func (r *Repository) StopTracking(ctx context.Context, tx *gorm.DB, eventID string, day types.Date) error {
	return tx.WithContext(ctx).
		Model(&models.EventDetail{}).
		Where("event_id = ? AND tracking = ?", eventID, enums.TrackingActive).
		Updates(map[string]any{
			"tracking":     enums.TrackingStopped,
			"last_tracked": day,
		}).Error
}
