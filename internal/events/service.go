package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tickettrail/tickettrail-backend/pkg/db"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/pagination"
	"github.com/tickettrail/tickettrail-backend/pkg/ticketmaster"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// Service exposes event discovery and read operations.
type Service interface {
	Discover(ctx context.Context, input DiscoverInput) (*DiscoveryResultDTO, error)
	GetEventDetail(ctx context.Context, eventID string) (*EventDetailDTO, error)
	ListEvents(ctx context.Context) ([]EventDetailDTO, error)
	PriceHistory(ctx context.Context, eventID string, params pagination.Params) (*PriceHistoryDTO, error)
	SearchVenues(ctx context.Context, keyword string) ([]VenueDTO, error)
}

// DiscoverInput holds the validated payload to start tracking an event.
type DiscoverInput struct {
	Keyword string
	City    string
}

type discoveryAPI interface {
	SearchEvents(ctx context.Context, keyword, city string) (*ticketmaster.SearchResult, error)
	SearchVenues(ctx context.Context, keyword string) ([]ticketmaster.VenueResult, error)
}

// service implements the event service.
type service struct {
	repo     *Repository
	dbClient *db.Client
	api      discoveryAPI
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs an event service instance.
func NewService(repo *Repository, dbClient *db.Client, api discoveryAPI, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if api == nil {
		return nil, fmt.Errorf("discovery api client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		api:      api,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Discover searches the discovery API for a keyword, shapes the best
// match, and loads all three tables in one transaction. A malformed
// record is skipped and logged; it never aborts the rows that parsed.
func (s *service) Discover(ctx context.Context, input DiscoverInput) (*DiscoveryResultDTO, error) {
	keyword := strings.TrimSpace(input.Keyword)
	if keyword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "keyword is required")
	}

	result, err := s.api.SearchEvents(ctx, keyword, strings.TrimSpace(input.City))
	if err != nil {
		return nil, err
	}

	today := types.DateOf(s.now())
	details, transformErr := NormalizeDetails(result.Details, today)
	skipped := len(result.Details) - len(details)
	if transformErr != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"keyword": keyword,
			"skipped": skipped,
			"error":   transformErr.Error(),
		}), "skipped malformed discovery records")
	}

	normalized := make(map[string]bool, len(details))
	for _, detail := range details {
		normalized[detail.EventID] = true
	}

	summary := &DiscoveryResultDTO{RecordsSkipped: skipped}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		for i := range details {
			if err := txRepo.UpsertDetail(ctx, &details[i]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: upsert event detail")
			}
			summary.EventIDs = append(summary.EventIDs, details[i].EventID)
		}
		for _, event := range result.Events {
			if !normalized[event.ID] {
				continue
			}
			inserted, err := txRepo.AppendPrice(ctx, toEventModel(event))
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: append price observation")
			}
			if inserted {
				summary.PricesInserted++
			}
		}
		for _, venue := range result.Venues {
			if !normalized[venue.EventID] {
				continue
			}
			model := toVenueModel(venue)
			if err := txRepo.UpsertVenue(ctx, &model); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: upsert venue")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"keyword":         keyword,
		"events":          len(summary.EventIDs),
		"prices_inserted": summary.PricesInserted,
	}), "discovery complete")
	return summary, nil
}

// GetEventDetail returns one event's metadata, annotated with its
// newest price observation when one exists.
func (s *service) GetEventDetail(ctx context.Context, eventID string) (*EventDetailDTO, error) {
	detail, err := s.repo.GetDetail(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: load event detail")
	}

	latest, err := s.repo.LatestObservation(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: load latest observation")
	}

	dto := toEventDetailDTO(*detail)
	if latest != nil {
		dto.LatestPrice = &latest.MinTicketPrice
		dto.LastScraped = types.DatePtr(latest.DateScraped)
	}
	return &dto, nil
}

// ListEvents returns every known event.
func (s *service) ListEvents(ctx context.Context) ([]EventDetailDTO, error) {
	details, err := s.repo.ListDetails(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: list event details")
	}
	return toEventDetailDTOs(details), nil
}

// PriceHistory pages through the observations recorded for one event.
// The event must exist even when it has no observations yet.
func (s *service) PriceHistory(ctx context.Context, eventID string, params pagination.Params) (*PriceHistoryDTO, error) {
	if _, err := s.GetEventDetail(ctx, eventID); err != nil {
		return nil, err
	}

	rows, next, err := s.repo.PriceHistory(ctx, eventID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: load price history")
	}
	return &PriceHistoryDTO{
		EventID:    eventID,
		Points:     toPricePointDTOs(rows),
		NextCursor: next,
	}, nil
}

// SearchVenues proxies a venue lookup to the discovery API.
func (s *service) SearchVenues(ctx context.Context, keyword string) ([]VenueDTO, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "keyword is required")
	}
	results, err := s.api.SearchVenues(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toVenueDTOs(results), nil
}
