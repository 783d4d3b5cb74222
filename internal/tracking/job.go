package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tickettrail/tickettrail-backend/pkg/db/models"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/metrics"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// JobName identifies the price tracking job in logs and metrics.
const JobName = "price-tracking"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type trackingRepo interface {
	ListTracked(ctx context.Context) ([]models.EventDetail, error)
	AppendPrice(ctx context.Context, tx *gorm.DB, event models.Event) (bool, error)
	TouchLastTracked(ctx context.Context, tx *gorm.DB, eventID string, day types.Date) error
	StopTracking(ctx context.Context, tx *gorm.DB, eventID string, day types.Date) error
}

type priceFetcher interface {
	FetchEventPrice(ctx context.Context, eventID string) (decimal.Decimal, error)
}

// JobParams configure the price tracking job.
type JobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository trackingRepo
	Prices     priceFetcher
	Metrics    *metrics.TrackingMetrics
}

// Summary reports the outcome of one tracking cycle.
type Summary struct {
	Tracked   int
	Updated   int
	Stopped   int
	Failed    int
	FailedIDs []string
}

// NewJob validates the params and builds the price tracking job.
func NewJob(params JobParams) (*Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	if params.Prices == nil {
		return nil, fmt.Errorf("price fetcher required")
	}
	return &Job{
		logg:    params.Logger,
		db:      params.DB,
		repo:    params.Repository,
		prices:  params.Prices,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

// Job polls every tracked event for its current price, retires events
// that have started, and commits the whole cycle in one transaction.
type Job struct {
	logg    *logger.Logger
	db      txRunner
	repo    trackingRepo
	prices  priceFetcher
	metrics *metrics.TrackingMetrics
	now     func() time.Time
}

func (j *Job) Name() string { return JobName }

// Run executes one tracking cycle. A failed price fetch skips that
// event and leaves its row untouched; only the batch write can fail
// the run.
func (j *Job) Run(ctx context.Context) error {
	_, err := j.RunCycle(ctx)
	return err
}

// RunCycle is Run with the cycle summary exposed for callers that
// report it.
func (j *Job) RunCycle(ctx context.Context) (*Summary, error) {
	today := types.DateOf(j.now())

	tracked, err := j.repo.ListTracked(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: list tracked events")
	}

	summary := &Summary{Tracked: len(tracked)}
	var observations []models.Event
	var stopped []string

	for _, detail := range tracked {
		if detail.StartsOnOrBefore(today) {
			stopped = append(stopped, detail.EventID)
			continue
		}

		price, err := j.prices.FetchEventPrice(ctx, detail.EventID)
		if err != nil {
			summary.Failed++
			summary.FailedIDs = append(summary.FailedIDs, detail.EventID)
			eventCtx := j.logg.WithEventID(ctx, detail.EventID)
			j.logg.Error(eventCtx, "price fetch failed; event skipped this cycle", err)
			if j.metrics != nil {
				j.metrics.AddFailed(1)
			}
			continue
		}

		observations = append(observations, models.Event{
			ID:             detail.EventID,
			MinTicketPrice: price,
			DateScraped:    today,
		})
	}

	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, observation := range observations {
			if _, err := j.repo.AppendPrice(ctx, tx, observation); err != nil {
				return fmt.Errorf("append price for %s: %w", observation.ID, err)
			}
			if err := j.repo.TouchLastTracked(ctx, tx, observation.ID, today); err != nil {
				return fmt.Errorf("touch last_tracked for %s: %w", observation.ID, err)
			}
		}
		for _, eventID := range stopped {
			if err := j.repo.StopTracking(ctx, tx, eventID, today); err != nil {
				return fmt.Errorf("stop tracking for %s: %w", eventID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "db: commit tracking cycle")
	}

	summary.Updated = len(observations)
	summary.Stopped = len(stopped)
	if j.metrics != nil {
		j.metrics.AddUpdated(summary.Updated)
		j.metrics.AddStopped(summary.Stopped)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"tracked": summary.Tracked,
		"updated": summary.Updated,
		"stopped": summary.Stopped,
		"failed":  summary.Failed,
	})
	j.logg.Info(logCtx, "tracking cycle complete")
	return summary, nil
}
