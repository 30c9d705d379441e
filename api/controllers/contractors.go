package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/renomatch/renomatch-backend/api/responses"
	"github.com/renomatch/renomatch-backend/api/validators"
	"github.com/renomatch/renomatch-backend/internal/contractors"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/logger"
	"github.com/renomatch/renomatch-backend/pkg/types"
)

type matchContractorsRequest struct {
	ProjectType string `json:"projectType" validate:"required,oneof=roof facade insulation solar combo"`
	Region      string `json:"region" validate:"omitempty,max=100"`
	BudgetMin   int    `json:"budgetMin" validate:"omitempty,min=0"`
	BudgetMax   int    `json:"budgetMax" validate:"omitempty,min=0"`
	Priority    string `json:"priority" validate:"omitempty,oneof=price balance quality"`
}

// MatchContractors previews the contractor ranking for a project without
// touching credits or persisting anything.
func MatchContractors(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contractors service unavailable"))
			return
		}

		var req matchContractorsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		matched, err := svc.Match(r.Context(), contractors.MatchCriteria{
			ProjectType: enums.ProjectType(req.ProjectType),
			Region:      validators.SanitizeString(req.Region, 100),
			Budget:      types.MoneyRange{Min: req.BudgetMin, Max: req.BudgetMax},
			Priority:    enums.Priority(req.Priority),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"contractors": matched})
	}
}

// ListContractors returns the public verified contractor directory.
func ListContractors(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contractors service unavailable"))
			return
		}

		rows, err := svc.ListVerified(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"contractors": rows})
	}
}

// GetContractor returns one contractor by id.
func GetContractor(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contractors service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "contractorId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contractor id"))
			return
		}

		contractor, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, contractor)
	}
}
