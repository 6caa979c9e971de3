package controllers

import (
	"net/http"

	"github.com/diwinters/tradewind-backend/api/responses"
	"github.com/diwinters/tradewind-backend/pkg/config"
	apperrors "github.com/diwinters/tradewind-backend/pkg/errors"
	"github.com/diwinters/tradewind-backend/pkg/logger"
)

const envHeader = "X-Tradewind-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks connectivity of the wired dependencies. A nil probe is
// treated as "not wired" and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes map[string]func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		statuses := map[string]string{}
		healthy := true
		for name, probe := range probes {
			if probe == nil {
				continue
			}
			if err := probe(); err != nil {
				statuses[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "readiness probe failed: "+name, err)
				}
				continue
			}
			statuses[name] = "up"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				apperrors.New(apperrors.CodeDependency, "dependency unavailable").WithDetails(statuses))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "dependencies": statuses})
	}
}
