package controllers

import (
	"context"
	"net/http"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/pkg/config"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/logger"
)

const envHeader = "X-Storefront-Env"

// Pinger reports whether a storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the configured storage backend. The memory backend has
// nothing to ping and passes a nil Pinger.
func HealthReady(cfg *config.Config, logg *logger.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if storage != nil {
			if err := storage.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "storage unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
