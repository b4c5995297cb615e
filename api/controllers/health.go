package controllers

import (
	"context"
	"net/http"

	"github.com/khajaghar/pos-terminal/api/responses"
	"github.com/khajaghar/pos-terminal/pkg/config"
	"github.com/khajaghar/pos-terminal/pkg/logger"
)

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Terminal-Id", cfg.Terminal.ID)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the local draft store and the remote invoice backend.
// The backend being down degrades readiness but is reported, not hidden:
// the terminal keeps drafting orders offline.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger, backend Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Terminal-Id", cfg.Terminal.ID)

		checks := map[string]string{
			"draft_store": "ok",
			"backend":     "ok",
		}
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				checks["draft_store"] = err.Error()
			}
		}
		if backend != nil {
			if err := backend.Ping(r.Context()); err != nil {
				checks["backend"] = "unreachable"
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{"check": "backend", "error": err.Error()})
					logg.Warn(ctx, "readiness check failed")
				}
			}
		}

		status := http.StatusOK
		if checks["draft_store"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, checks)
	}
}
