package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tickettrail/tickettrail-backend/api/controllers"
	"github.com/tickettrail/tickettrail-backend/api/middleware"
	"github.com/tickettrail/tickettrail-backend/internal/events"
	"github.com/tickettrail/tickettrail-backend/pkg/config"
	"github.com/tickettrail/tickettrail-backend/pkg/db"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface of the read API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache redis.Pinger,
	eventService events.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, database, cache))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.ListEvents(eventService, logg))
			r.Post("/discover", controllers.DiscoverEvent(eventService, logg))
			r.Get("/{eventID}", controllers.GetEvent(eventService, logg))
			r.Get("/{eventID}/prices", controllers.GetPriceHistory(eventService, logg))
		})
		r.Get("/venues", controllers.SearchVenues(eventService, logg))
	})

	return r
}
