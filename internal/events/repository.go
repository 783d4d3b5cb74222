package events

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tickettrail/tickettrail-backend/pkg/db/models"
	"github.com/tickettrail/tickettrail-backend/pkg/enums"
	"github.com/tickettrail/tickettrail-backend/pkg/pagination"
)

// EventRepository defines persistence for price observations and event
// metadata.
type EventRepository interface {
	AppendPrice(context.Context, models.Event) (bool, error)
	UpsertDetail(context.Context, *models.EventDetail) error
	UpsertVenue(context.Context, *models.Venue) error
	GetDetail(context.Context, string) (*models.EventDetail, error)
	ListDetails(context.Context) ([]models.EventDetail, error)
	ListTracked(context.Context) ([]models.EventDetail, error)
	PriceHistory(context.Context, string, pagination.Params) ([]models.Event, string, error)
}

// Repository wires event persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AppendPrice inserts one observation. The table is append-only and
// keyed on (id, date_scraped, min_ticket_price), so replaying the same
// observation is a no-op. Returns whether a row was written.
func (r *Repository) AppendPrice(ctx context.Context, event models.Event) (bool, error) {
	result := r.db.WithContext(ctx).
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

// UpsertDetail inserts the detail row, or on conflict refreshes only
// the tracking flag and last-tracked date. Descriptive fields are
// immutable after first discovery.
func (r *Repository) UpsertDetail(ctx context.Context, detail *models.EventDetail) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tracking", "last_tracked"}),
		}).
		Create(detail).Error
}

// UpsertVenue inserts the venue if its id is new; existing rows are
// left untouched.
func (r *Repository) UpsertVenue(ctx context.Context, venue *models.Venue) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(venue).Error
}

// GetDetail loads one event detail row.
func (r *Repository) GetDetail(ctx context.Context, eventID string) (*models.EventDetail, error) {
	var detail models.EventDetail
	if err := r.db.WithContext(ctx).First(&detail, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListDetails returns every known event, tracked or not.
func (r *Repository) ListDetails(ctx context.Context) ([]models.EventDetail, error) {
	var details []models.EventDetail
	if err := r.db.WithContext(ctx).
		Order("event_id asc").
		Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// ListTracked returns the events the tracker must still poll.
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

// PriceHistory pages through observations for one event, newest first.
// The cursor is the (date, price) position of the last row on the
// previous page; the tuple comparison keeps same-date rows that fall
// across a page boundary.
func (r *Repository) PriceHistory(ctx context.Context, eventID string, params pagination.Params) ([]models.Event, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Where("id = ?", eventID).
		Order("date_scraped desc, min_ticket_price asc").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"date_scraped < ? OR (date_scraped = ? AND min_ticket_price > ?)",
			cursor.Date, cursor.Date, cursor.Price,
		)
	}

	var rows []models.Event
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(last.DateScraped, last.MinTicketPrice)
	}
	return rows, next, nil
}

// LatestObservation returns the most recent price row for an event, or
// nil when none exist.
func (r *Repository) LatestObservation(ctx context.Context, eventID string) (*models.Event, error) {
	var row models.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", eventID).
		Order("date_scraped desc, min_ticket_price asc").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
