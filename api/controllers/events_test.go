package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickettrail/tickettrail-backend/internal/events"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/pagination"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

type fakeEventService struct {
	discoverResult *events.DiscoveryResultDTO
	discoverErr    error
	discoverInput  events.DiscoverInput
	detail         *events.EventDetailDTO
	detailErr      error
	list           []events.EventDetailDTO
	history        *events.PriceHistoryDTO
	historyParams  pagination.Params
	venues         []events.VenueDTO
}

func (f *fakeEventService) Discover(_ context.Context, input events.DiscoverInput) (*events.DiscoveryResultDTO, error) {
	f.discoverInput = input
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return f.discoverResult, nil
}

func (f *fakeEventService) GetEventDetail(context.Context, string) (*events.EventDetailDTO, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeEventService) ListEvents(context.Context) ([]events.EventDetailDTO, error) {
	return f.list, nil
}

func (f *fakeEventService) PriceHistory(_ context.Context, _ string, params pagination.Params) (*events.PriceHistoryDTO, error) {
	f.historyParams = params
	return f.history, nil
}

func (f *fakeEventService) SearchVenues(context.Context, string) ([]events.VenueDTO, error) {
	return f.venues, nil
}

func testAPILogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
}

func decodeEnvelope(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload
}

func TestDiscoverEvent_CreatesTracking(t *testing.T) {
	svc := &fakeEventService{discoverResult: &events.DiscoveryResultDTO{
		EventIDs:       []string{"evt-1"},
		PricesInserted: 1,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/discover",
		strings.NewReader(`{"keyword": "Example Tour", "city": "Austin"}`))
	rec := httptest.NewRecorder()

	DiscoverEvent(svc, testAPILogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Example Tour", svc.discoverInput.Keyword)
	assert.Equal(t, "Austin", svc.discoverInput.City)

	payload := decodeEnvelope(t, rec.Body)
	data := payload["data"].(map[string]any)
	assert.Equal(t, []any{"evt-1"}, data["event_ids"])
}

func TestDiscoverEvent_RejectsMissingKeyword(t *testing.T) {
	svc := &fakeEventService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/discover", strings.NewReader(`{"city": "Austin"}`))
	rec := httptest.NewRecorder()

	DiscoverEvent(svc, testAPILogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, string(pkgerrors.CodeValidation), errBody["code"])
}

func TestDiscoverEvent_NoMatchIs404(t *testing.T) {
	svc := &fakeEventService{discoverErr: pkgerrors.New(pkgerrors.CodeNotFound, "search had no results")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/discover", strings.NewReader(`{"keyword": "nobody"}`))
	rec := httptest.NewRecorder()

	DiscoverEvent(svc, testAPILogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetEvent_ReturnsDetail(t *testing.T) {
	last := types.NewDate(2025, 3, 1)
	svc := &fakeEventService{detail: &events.EventDetailDTO{
		EventID:     "evt-1",
		Name:        "Example Tour",
		Tracking:    "active",
		LastTracked: last,
	}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/events/evt-1", nil), "eventID", "evt-1")
	rec := httptest.NewRecorder()

	GetEvent(svc, testAPILogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body)
	data := payload["data"].(map[string]any)
	assert.Equal(t, "evt-1", data["event_id"])
	assert.Equal(t, "2025-03-01", data["last_tracked"])
	assert.Nil(t, data["event_start_date"])
}

func TestGetEvent_UnknownEventIs404(t *testing.T) {
	svc := &fakeEventService{detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "event not found")}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/events/missing", nil), "eventID", "missing")
	rec := httptest.NewRecorder()

	GetEvent(svc, testAPILogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPriceHistory_PassesPaginationThrough(t *testing.T) {
	svc := &fakeEventService{history: &events.PriceHistoryDTO{EventID: "evt-1"}}

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/v1/events/evt-1/prices?limit=10&cursor=abc", nil),
		"eventID", "evt-1")
	rec := httptest.NewRecorder()

	GetPriceHistory(svc, testAPILogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, svc.historyParams.Limit)
	assert.Equal(t, "abc", svc.historyParams.Cursor)
}

func TestGetPriceHistory_RejectsBadLimit(t *testing.T) {
	svc := &fakeEventService{history: &events.PriceHistoryDTO{}}

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/v1/events/evt-1/prices?limit=5000", nil),
		"eventID", "evt-1")
	rec := httptest.NewRecorder()

	GetPriceHistory(svc, testAPILogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchVenues_RequiresKeyword(t *testing.T) {
	svc := &fakeEventService{venues: []events.VenueDTO{{ID: "ven-1", Name: "Example Arena"}}}

	rec := httptest.NewRecorder()
	SearchVenues(svc, testAPILogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	SearchVenues(svc, testAPILogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/venues?keyword=Example", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
