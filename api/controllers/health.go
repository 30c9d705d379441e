package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/renomatch/renomatch-backend/api/responses"
	"github.com/renomatch/renomatch-backend/pkg/config"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/logger"
)

type readinessPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RenoMatch-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis and reports every failing
// dependency at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP readinessPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RenoMatch-Env", cfg.App.Env)

		var combined error
		failing := []string{}
		check := func(name string, p readinessPinger) {
			if p == nil {
				return
			}
			if err := p.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, name)
			}
		}
		check("database", dbP)
		check("redis", redisP)

		if combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed").
				WithDetails(map[string]any{"failing": failing})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
