package controllers

import (
	"net/http"

	"github.com/tickettrail/tickettrail-backend/api/responses"
	"github.com/tickettrail/tickettrail-backend/api/validators"
	"github.com/tickettrail/tickettrail-backend/internal/events"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
)

// SearchVenues resolves venue names and ids by keyword.
func SearchVenues(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event service unavailable"))
			return
		}

		keyword, err := validators.RequireQuery(r, "keyword")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		venues, err := svc.SearchVenues(r.Context(), keyword)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, venues)
	}
}
