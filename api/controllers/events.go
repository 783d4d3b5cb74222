package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tickettrail/tickettrail-backend/api/responses"
	"github.com/tickettrail/tickettrail-backend/api/validators"
	"github.com/tickettrail/tickettrail-backend/internal/events"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/pagination"
)

// DiscoverRequest is the payload to start tracking an event.
type DiscoverRequest struct {
	Keyword string `json:"keyword" validate:"required,min=1,max=100"`
	City    string `json:"city" validate:"omitempty,max=50"`
}

// DiscoverEvent searches the discovery API and registers the best
// match for tracking.
func DiscoverEvent(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgErrServiceUnavailable())
			return
		}

		var req DiscoverRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Discover(r.Context(), events.DiscoverInput{
			Keyword: req.Keyword,
			City:    req.City,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListEvents returns every known event with its tracking state.
func ListEvents(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgErrServiceUnavailable())
			return
		}

		details, err := svc.ListEvents(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, details)
	}
}

// GetEvent returns one event's metadata.
func GetEvent(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgErrServiceUnavailable())
			return
		}

		eventID := strings.TrimSpace(chi.URLParam(r, "eventID"))
		if eventID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "event id is required"))
			return
		}

		detail, err := svc.GetEventDetail(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// GetPriceHistory returns the paginated price observations for one
// event, newest first.
func GetPriceHistory(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgErrServiceUnavailable())
			return
		}

		eventID := strings.TrimSpace(chi.URLParam(r, "eventID"))
		if eventID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "event id is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.PriceHistory(r.Context(), eventID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

func pkgErrServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable")
}
