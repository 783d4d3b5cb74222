package controllers

import (
	"net/http"

	"github.com/tickettrail/tickettrail-backend/api/responses"
	"github.com/tickettrail/tickettrail-backend/pkg/config"
	"github.com/tickettrail/tickettrail-backend/pkg/db"
	"github.com/tickettrail/tickettrail-backend/pkg/logger"
	"github.com/tickettrail/tickettrail-backend/pkg/redis"
)

const envHeader = "X-TicketTrail-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers
// a ping. A nil dependency is treated as not wired and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{}
		healthy := true

		if database != nil {
			checks["postgres"] = "ok"
			if err := database.Ping(ctx); err != nil {
				checks["postgres"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness: postgres ping failed", err)
				}
			}
		}
		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness: redis ping failed", err)
				}
			}
		}

		status := map[string]any{"status": "ready", "checks": checks}
		if !healthy {
			status["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
