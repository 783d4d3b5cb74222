package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/tickettrail/tickettrail-backend/pkg/config"
	pkgerrors "github.com/tickettrail/tickettrail-backend/pkg/errors"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

// Results are pinned to the US and the first/best match, matching the
// tracker's discovery behavior.
const (
	countryCode      = "US"
	searchResultSize = "1"
)

var (
	errAPIKeyRequired = errors.New("ticketmaster api key is required")
	errLoggerRequired = errors.New("ticketmaster logger is required")
)

// ResponseObserver receives raw response bodies when attached. It is a
// diagnostic hook only; production wiring leaves it nil.
type ResponseObserver func(operation string, body []byte)

// Client wraps the Discovery v2 API with auth, timeouts, retry and
// error mapping. Credentials arrive resolved via config; the client
// never reads the environment.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	retryWait  func() backoff.BackOff
	logger     *logger.Logger
	observer   ResponseObserver
}

// NewClient validates the credentials and builds the wrapper.
func NewClient(cfg config.TicketmasterConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	maxWait := cfg.RetryMaxWait
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retryWait: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = maxWait
			// The first retry must fit inside the wait budget.
			if maxWait > 0 && maxWait/10 < b.InitialInterval {
				b.InitialInterval = maxWait / 10
			}
			return b
		},
		logger: logg,
	}, nil
}

// WithObserver attaches a raw-response observer and returns the client.
func (c *Client) WithObserver(obs ResponseObserver) *Client {
	c.observer = obs
	return c
}

// SearchEvents queries the discovery endpoint for the first/best match
// and shapes it into flat rows. A well-formed payload without an
// embedded events collection is NotFound and must not be retried.
func (c *Client) SearchEvents(ctx context.Context, keyword, city string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("countryCode", countryCode)
	params.Set("size", searchResultSize)
	if city != "" {
		params.Set("city", city)
	}

	c.log(ctx, "request", "search_events", map[string]any{"keyword": keyword, "city": city})

	var payload discoveryResponse
	if err := c.getJSON(ctx, "/events.json", params, "search_events", &payload); err != nil {
		return nil, err
	}

	if payload.Embedded == nil || len(payload.Embedded.Events) == 0 {
		c.log(ctx, "response", "search_events", map[string]any{"matches": 0})
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "search had no results").
			WithDetails(map[string]any{"keyword": keyword})
	}

	result := extractSearchResult(payload.Embedded.Events, types.Today())
	c.log(ctx, "response", "search_events", map[string]any{"matches": len(result.Events)})
	return result, nil
}

// FetchEventPrice looks up the current minimum ticket price for one
// event id. Retryable failures are retried with exponential backoff up
// to the configured budget; NotFound is permanent.
func (c *Client) FetchEventPrice(ctx context.Context, eventID string) (decimal.Decimal, error) {
	c.log(ctx, "request", "fetch_event_price", map[string]any{"event_id": eventID})

	var payload eventResource
	err := backoff.Retry(func() error {
		fetchErr := c.getJSON(ctx, "/events/"+url.PathEscape(eventID)+".json", url.Values{}, "fetch_event_price", &payload)
		if fetchErr != nil && !pkgerrors.IsRetryable(fetchErr) {
			return backoff.Permanent(fetchErr)
		}
		return fetchErr
	}, backoff.WithContext(c.retryWait(), ctx))
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		c.log(ctx, "error", "fetch_event_price", map[string]any{"event_id": eventID, "error": err.Error()})
		return decimal.Zero, err
	}

	if len(payload.PriceRanges) == 0 || payload.PriceRanges[0].Min == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "event has no price ranges").
			WithDetails(map[string]any{"event_id": eventID})
	}

	price := *payload.PriceRanges[0].Min
	c.log(ctx, "response", "fetch_event_price", map[string]any{"event_id": eventID, "min_price": price.String()})
	return price, nil
}

// SearchVenues resolves venue names and ids for an operator keyword.
func (c *Client) SearchVenues(ctx context.Context, keyword string) ([]VenueResult, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("countryCode", countryCode)

	c.log(ctx, "request", "search_venues", map[string]any{"keyword": keyword})

	var payload venueSearchResponse
	if err := c.getJSON(ctx, "/venues.json", params, "search_venues", &payload); err != nil {
		return nil, err
	}
	if payload.Embedded == nil || len(payload.Embedded.Venues) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "venue search had no results").
			WithDetails(map[string]any{"keyword": keyword})
	}

	results := extractVenueResults(payload.Embedded.Venues)
	c.log(ctx, "response", "search_venues", map[string]any{"matches": len(results)})
	return results, nil
}

// getJSON issues one authenticated GET and decodes the body. Non-200
// statuses map to the error taxonomy; the api key never appears in
// errors or logs.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, operation string, dest any) error {
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discovery request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response body")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found").
			WithDetails(map[string]any{"status": resp.StatusCode})
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("api call failed with status %d", resp.StatusCode)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if c.observer != nil {
		c.observer(operation, body)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

func (c *Client) log(ctx context.Context, direction, operation string, fields map[string]any) {
	if c.logger == nil {
		return
	}
	merged := map[string]any{"api": "ticketmaster", "direction": direction, "operation": operation}
	for k, v := range fields {
		merged[k] = v
	}
	ctx = c.logger.WithFields(ctx, merged)
	if direction == "error" {
		c.logger.Warn(ctx, "ticketmaster call failed")
		return
	}
	c.logger.Debug(ctx, "ticketmaster call")
}
