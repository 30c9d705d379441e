package controllers

import (
	"net/http"

	"github.com/renomatch/renomatch-backend/api/middleware"
	"github.com/renomatch/renomatch-backend/api/responses"
	"github.com/renomatch/renomatch-backend/internal/credits"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/logger"
)

// CreditStatus reports the session's ledger without spending anything.
func CreditStatus(svc credits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credits service unavailable"))
			return
		}

		token := middleware.SessionTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session token required"))
			return
		}

		status, err := svc.Status(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CreditUse spends one credit outside the submission flow. The submission
// endpoint consumes its own credit; this exists for clients that reserve the
// credit up front.
func CreditUse(svc credits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "credits service unavailable"))
			return
		}

		token := middleware.SessionTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session token required"))
			return
		}

		status, err := svc.Consume(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
